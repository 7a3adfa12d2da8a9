//go:build !cgo

package app

import (
	"errors"

	"github.com/Aequivinius/lodqa/internal/graph"
)

func openKuzu(string) (graph.Store, error) {
	return nil, errors.New("kuzu archive requires a cgo build")
}
