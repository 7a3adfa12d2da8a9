package nlp

import "github.com/Aequivinius/lodqa/internal/graph"

// ExtractRelations connects every pair of chunk heads by the shortest route
// over the argument edges. Argument direction is ignored when searching. A
// pair is kept only when no other chunk head lies on its route, and pairs
// with no route at all are dropped. Output follows combination order of the
// chunks.
func ExtractRelations(tokens []Token, chunks []BaseNounChunk) []Relation {
	g := graph.NewUndirected()
	for _, t := range tokens {
		for _, a := range t.Arguments {
			if a.Target >= 0 {
				g.AddEdge(t.Index, a.Target, 1)
			}
		}
	}

	heads := make(map[int]bool, len(chunks))
	for _, c := range chunks {
		heads[c.Head] = true
	}

	rels := []Relation{}
	for i := 0; i < len(chunks); i++ {
		for j := i + 1; j < len(chunks); j++ {
			path := g.ShortestPath(chunks[i].Head, chunks[j].Head)
			if len(path) < 2 {
				continue
			}
			between := path[1 : len(path)-1]
			if containsHead(between, heads) {
				continue
			}
			rels = append(rels, Relation{
				Subject: path[0],
				Path:    append([]int{}, between...),
				Object:  path[len(path)-1],
			})
		}
	}
	return rels
}

func containsHead(path []int, heads map[int]bool) bool {
	for _, idx := range path {
		if heads[idx] {
			return true
		}
	}
	return false
}
