package push

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Aequivinius/lodqa/internal/graphicator"
)

// SSEWriter writes Messages as Server-Sent Events to an http.ResponseWriter.
// Call Init once before writing any message. Writes are serialized.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter wraps w. Without http.Flusher support frames may be buffered.
func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, flusher: f}
}

// Init sets the event-stream headers and flushes them to the client.
func (sw *SSEWriter) Init() {
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}

// WriteMessage writes m as one frame:
//
//	id: <id>
//	event: <event>
//	data: <message json>
func (sw *SSEWriter) WriteMessage(m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("sse: marshal message: %w", err)
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if _, err := fmt.Fprintf(sw.w, "id: %s\nevent: %s\ndata: %s\n\n", m.ID, m.Event, data); err != nil {
		return fmt.Errorf("sse: write message: %w", err)
	}
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
	return nil
}

// Push returns a PushFunc that forwards every event of a Run for query to
// the stream.
func (sw *SSEWriter) Push(query string) graphicator.PushFunc {
	return func(ctx context.Context, event string, payload any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := NewMessage(event, query, payload)
		if err != nil {
			return err
		}
		return sw.WriteMessage(m)
	}
}

// ReadMessages reads frames from body and delivers them on the returned
// channel, which is closed when body is exhausted or ctx is cancelled. body
// is closed when reading finishes, and as soon as ctx is cancelled so that a
// pending read returns.
//
// Comment lines and unknown fields are skipped, multiple data lines of one
// frame are joined with newlines. A frame whose data is not a Message yields
// a Message with Err set and reading continues.
func ReadMessages(ctx context.Context, body io.ReadCloser) <-chan Message {
	ch := make(chan Message)
	go func() {
		defer close(ch)
		defer body.Close()
		stop := context.AfterFunc(ctx, func() { body.Close() })
		defer stop()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

		var data strings.Builder
		var event string
		flush := func() bool {
			if data.Len() == 0 {
				event = ""
				return true
			}
			ok := emit(ctx, ch, event, data.String())
			data.Reset()
			event = ""
			return ok
		}

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := scanner.Text()
			field, value, _ := strings.Cut(line, ":")
			value = strings.TrimPrefix(value, " ")

			switch {
			case line == "":
				if !flush() {
					return
				}
			case field == "":
				// comment
			case field == "event":
				event = value
			case field == "data":
				if data.Len() > 0 {
					data.WriteByte('\n')
				}
				data.WriteString(value)
			}
		}
		flush()
	}()
	return ch
}

// emit decodes raw and sends it on ch. It reports false once ctx is done.
func emit(ctx context.Context, ch chan<- Message, event, raw string) bool {
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		m = Message{Event: event, Err: fmt.Errorf("sse: unmarshal message: %w", err)}
	}
	if m.Event == "" {
		m.Event = event
	}
	select {
	case ch <- m:
		return true
	case <-ctx.Done():
		return false
	}
}
