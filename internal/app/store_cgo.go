//go:build cgo

package app

import "github.com/Aequivinius/lodqa/internal/graph"

func openKuzu(path string) (graph.Store, error) {
	if path == "" {
		return graph.NewKuzuStore()
	}
	return graph.NewKuzuFileStore(path)
}
