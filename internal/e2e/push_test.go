//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Aequivinius/lodqa/internal/graph"
	"github.com/Aequivinius/lodqa/internal/graphicator"
	"github.com/Aequivinius/lodqa/internal/nlp"
	"github.com/Aequivinius/lodqa/internal/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPushServer streams every scenario through a running push server and
// checks that the pushed PGP matches the one built in process.
func TestPushServer(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		if strings.TrimSpace(sc.Query) == "" {
			continue
		}
		t.Run(sc.Name, func(t *testing.T) {
			g := newScenarioGraphicator(t, sc)
			want, err := g.PGP(context.Background(), sc.Query)
			require.NoError(t, err)

			store := graph.NewMemStore()
			srv := push.NewServer(g, push.WithArchive(store))
			require.NoError(t, srv.Start(context.Background(), "127.0.0.1:0"))
			t.Cleanup(func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Stop(ctx)
			})

			u := "http://" + srv.Addr() + "/parse?" + url.Values{"query": {sc.Query}, "stream": {"1"}}.Encode()
			resp, err := http.Get(u)
			require.NoError(t, err)

			var events []string
			var got nlp.PGP
			for m := range push.ReadMessages(context.Background(), resp.Body) {
				require.NoError(t, m.Err)
				events = append(events, m.Event)
				if m.Event == graphicator.EventAnchoredPGP {
					require.NoError(t, m.Decode(&got))
				}
			}
			assert.Equal(t, []string{graphicator.EventParseRendering, graphicator.EventAnchoredPGP}, events)
			assert.Equal(t, want.Nodes, got.Nodes)
			assert.Equal(t, want.Edges, got.Edges)
			assert.Equal(t, want.Focus, got.Focus)
		})
	}
}
