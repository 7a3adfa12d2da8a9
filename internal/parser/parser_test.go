package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticFetcher returns body for every sentence and counts calls.
func staticFetcher(body []byte) (FetchFunc, *atomic.Int32) {
	var calls atomic.Int32
	return func(ctx context.Context, sentence string) ([]byte, error) {
		calls.Add(1)
		return body, nil
	}, &calls
}

// --- Transports ---

func TestEnjuHTTP_SendsQuery(t *testing.T) {
	body := readFixture(t, "enju_genes.conll")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, enjuSentence, r.URL.Query().Get("sentence"))
		assert.Equal(t, "conll", r.URL.Query().Get("format"))
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	got, err := NewEnjuHTTP(ts.URL).Fetch(context.Background(), enjuSentence)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestSpacyHTTP_PostsForm(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, spacySentence, r.PostForm.Get("text"))
		_, _ = w.Write([]byte(`{"denotations":[],"relations":[]}`))
	}))
	defer ts.Close()

	got, err := NewSpacyHTTP(ts.URL).Fetch(context.Background(), spacySentence)
	require.NoError(t, err)
	assert.JSONEq(t, `{"denotations":[],"relations":[]}`, string(got))
}

func TestHTTPFetcher_NonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := NewEnjuHTTP(ts.URL, WithLogger(quietLogger())).Fetch(context.Background(), "genes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestHTTPFetcher_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := NewSpacyHTTP(url, WithLogger(quietLogger())).Fetch(context.Background(), "genes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	f := NewEnjuHTTP(ts.URL, WithTimeout(50*time.Millisecond), WithLogger(quietLogger()))
	_, err := f.Fetch(context.Background(), "genes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestHTTPFetcher_CustomClient(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	f := NewEnjuHTTP(ts.URL, WithHTTPClient(ts.Client()))
	_, err := f.Fetch(context.Background(), "genes")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

// --- Adapters ---

func TestAdapters_BlankSentenceSkipsFetch(t *testing.T) {
	for _, a := range []Adapter{
		NewEnjuAdapter(unexpectedFetcher(t)),
		NewSpacyAdapter(unexpectedFetcher(t)),
	} {
		t.Run(a.Name(), func(t *testing.T) {
			tokens, root, err := a.GetParse(context.Background(), " \t\n")
			require.NoError(t, err)
			assert.NotNil(t, tokens)
			assert.Empty(t, tokens)
			assert.Nil(t, root)
		})
	}
}

// unexpectedFetcher fails the test if it is ever called.
func unexpectedFetcher(t *testing.T) Fetcher {
	return FetchFunc(func(ctx context.Context, sentence string) ([]byte, error) {
		t.Errorf("unexpected fetch for %q", sentence)
		return nil, errors.New("unexpected")
	})
}

func TestEnjuAdapter_TrimsBeforeFetching(t *testing.T) {
	var seen string
	a := NewEnjuAdapter(FetchFunc(func(ctx context.Context, sentence string) ([]byte, error) {
		seen = sentence
		return readFixture(t, "enju_genes.conll"), nil
	}))

	tokens, root, err := a.GetParse(context.Background(), "  "+enjuSentence+"\n")
	require.NoError(t, err)
	assert.Equal(t, enjuSentence, seen)
	assert.Len(t, tokens, 7)
	require.NotNil(t, root)
	assert.Equal(t, 2, *root)
}

func TestAdapters_FetchErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	a := NewSpacyAdapter(FetchFunc(func(ctx context.Context, sentence string) ([]byte, error) {
		return nil, boom
	}))
	_, _, err := a.GetParse(context.Background(), "genes")
	assert.Equal(t, boom, err)
}

// --- Registry ---

func TestRegistry_New(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"enju", NameEnju},
		{"ENJU", NameEnju},
		{"spacy", NameSpacy},
		{" SpaCy ", NameSpacy},
		{"default", NameEnju},
		{"", NameEnju},
		{"parsey", NameEnju},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.name, Options{Logger: quietLogger()})
			assert.Equal(t, tt.want, a.Name())
		})
	}
}

func TestRegistry_NamesAndKnown(t *testing.T) {
	assert.Equal(t, []string{NameDefault, NameEnju, NameSpacy}, Names())
	assert.True(t, Known("Spacy"))
	assert.False(t, Known("parsey"))
}

func TestRegistry_UsesConfiguredEndpoint(t *testing.T) {
	body := readFixture(t, "spacy_genes.json")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	a := New(NameSpacy, Options{SpacyURL: ts.URL, Timeout: time.Second, Logger: quietLogger()})
	tokens, _, err := a.GetParse(context.Background(), spacySentence)
	require.NoError(t, err)
	assert.Len(t, tokens, 9)
}

// --- Coordinator ---

func TestCoordinator_EnjuFixture(t *testing.T) {
	f, _ := staticFetcher(readFixture(t, "enju_genes.conll"))
	c := NewCoordinator(NewEnjuAdapter(f), quietLogger())

	res, err := c.Parse(context.Background(), enjuSentence)
	require.NoError(t, err)

	assert.Equal(t, enjuSentence, res.Sentence)
	require.NotNil(t, res.Root)
	assert.Equal(t, 2, *res.Root)
	assert.Equal(t, []nlp.BaseNounChunk{{Begin: 1, End: 1, Head: 1, Text: "genes"}}, res.BaseNounChunks)
	assert.Equal(t, 1, res.Focus)
	assert.NotNil(t, res.Relations)
	assert.Empty(t, res.Relations)
}

func TestCoordinator_SpacyFixture(t *testing.T) {
	f, _ := staticFetcher(readFixture(t, "spacy_genes.json"))
	c := NewCoordinator(NewSpacyAdapter(f), quietLogger())

	res, err := c.Parse(context.Background(), spacySentence)
	require.NoError(t, err)

	require.NotNil(t, res.Root)
	assert.Equal(t, 2, *res.Root)
	assert.Equal(t, []nlp.BaseNounChunk{
		{Begin: 1, End: 1, Head: 1, Text: "genes"},
		{Begin: 5, End: 7, Head: 7, Text: "Alzheimer's disease"},
	}, res.BaseNounChunks)
	assert.Equal(t, 1, res.Focus)
	assert.Equal(t, []nlp.Relation{{Subject: 1, Path: []int{2, 3, 4}, Object: 7}}, res.Relations)
	assert.Equal(t, "are related to", nlp.SurfaceText(res.Tokens, 2, 4))
}

func TestCoordinator_BlankSentence(t *testing.T) {
	c := NewCoordinator(NewEnjuAdapter(unexpectedFetcher(t)), quietLogger())

	res, err := c.Parse(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Tokens)
	assert.Nil(t, res.Root)
	assert.Equal(t, nlp.NoFocus, res.Focus)
	assert.False(t, res.HasFocus())
	assert.NotNil(t, res.BaseNounChunks)
	assert.NotNil(t, res.Relations)
	assert.Empty(t, res.Relations)
}

func TestCoordinator_ZeroChunks(t *testing.T) {
	body := "0\tROOT\tROOT\tROOT\tROOT\tROOT\tARG1:1\n" +
		"1\trun\trun\tVB\tVB\tverb\n" +
		"2\t!\t!\t.\t.\tpunct\n"
	f, _ := staticFetcher([]byte(body))
	c := NewCoordinator(NewEnjuAdapter(f), quietLogger())

	res, err := c.Parse(context.Background(), "run!")
	require.NoError(t, err)
	assert.Empty(t, res.BaseNounChunks)
	assert.Equal(t, []nlp.Relation{}, res.Relations)
	assert.Equal(t, nlp.NoFocus, res.Focus)
}

func TestCoordinator_AdapterErrorsCarryStage(t *testing.T) {
	tests := []struct {
		name  string
		fetch FetchFunc
		want  error
	}{
		{
			name: "upstream",
			fetch: func(ctx context.Context, s string) ([]byte, error) {
				return nil, ErrUpstreamUnavailable
			},
			want: ErrUpstreamUnavailable,
		},
		{
			name: "empty parse",
			fetch: func(ctx context.Context, s string) ([]byte, error) {
				return []byte("Empty line\n"), nil
			},
			want: ErrEmptyParse,
		},
		{
			name: "malformed",
			fetch: func(ctx context.Context, s string) ([]byte, error) {
				return []byte("0\tROOT\n1\tx\n"), nil
			},
			want: ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator(NewEnjuAdapter(tt.fetch), quietLogger())
			res, err := c.Parse(context.Background(), "genes")
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)

			var se *nlp.StageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, nlp.StageAdapter, se.Stage)
		})
	}
}

func TestCoordinator_ConcurrentUse(t *testing.T) {
	f, calls := staticFetcher(readFixture(t, "spacy_genes.json"))
	c := NewCoordinator(NewSpacyAdapter(f), quietLogger())

	const n = 16
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			res, err := c.Parse(context.Background(), spacySentence)
			if err == nil && len(res.Relations) != 1 {
				err = errors.New("unexpected relations")
			}
			errs <- err
		}()
	}
	for i := 0; i < n; i++ {
		assert.NoError(t, <-errs)
	}
	assert.Equal(t, int32(n), calls.Load())
}
