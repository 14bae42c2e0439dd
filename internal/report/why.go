package report

import (
	"errors"
	"fmt"
	"io"

	graphlib "github.com/dominikbraun/graph"

	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// ErrNotKept is returned by Why for nodes the pass did not mark.
var ErrNotKept = errors.New("node is not kept")

const rootVertex = "<root>"

// Step is one node on a reason path and the edge that reached it.
type Step struct {
	ID    metadata.ID `json:"id"`
	Label string      `json:"label"`
}

// Why returns the reason path from an external root to id.
func Why(marks *markset.Frozen, id metadata.ID) ([]Step, error) {
	if !marks.IsMarked(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotKept, id)
	}

	g := graphlib.New(graphlib.StringHash, graphlib.Directed())
	if err := g.AddVertex(rootVertex); err != nil {
		return nil, err
	}
	ids := map[string]metadata.ID{}
	for _, m := range marks.Marked() {
		ids[m.String()] = m
		if err := g.AddVertex(m.String()); err != nil {
			return nil, err
		}
	}

	labels := map[string]string{}
	for _, m := range marks.Marked() {
		r, _ := marks.Reason(m)
		// a reason from an unmarked node hangs off the root
		from := rootVertex
		if marks.IsMarked(r.From) {
			from = r.From.String()
		}
		labels[m.String()] = r.Label
		if err := g.AddEdge(from, m.String()); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil, err
		}
	}

	path, err := graphlib.ShortestPath(g, rootVertex, id.String())
	if err != nil {
		return nil, fmt.Errorf("no reason path to %s: %w", id, err)
	}

	steps := make([]Step, 0, len(path)-1)
	for _, v := range path[1:] {
		steps = append(steps, Step{ID: ids[v], Label: labels[v]})
	}
	return steps, nil
}

// WriteWhy prints a reason path, one node per line.
func WriteWhy(w io.Writer, steps []Step) error {
	for i, s := range steps {
		prefix := ""
		if i > 0 {
			prefix = "  -> "
		}
		if _, err := fmt.Fprintf(w, "%s%s (%s)\n", prefix, s.ID, s.Label); err != nil {
			return err
		}
	}
	return nil
}
