package structure

import "github.com/openkraft/jsonkraft/internal/domain"

// visitState is the traversal state of one container identity.
type visitState uint8

const (
	unvisited visitState = iota
	onStack
	done
)

// Node is a value reached during a walk.
type Node struct {
	Path  string
	Value any
	// Key is the object key that leads to this value. Array elements
	// inherit the key of their array so heuristics keyed on names still
	// apply to list members.
	Key string
	// Depth is the number of containers enclosing the node.
	Depth int
}

// Walk visits every node of root depth-first in document order. A container
// that is an active ancestor of the current position is a cycle: onCycle is
// called with the path that reached it and the walk does not descend. When
// a subtree finishes its container returns to done, so the same container
// reached again through another path is walked again, not reported.
func Walk(root any, visit func(Node), onCycle func(path string)) {
	w := &walker{states: make(map[uintptr]visitState), visit: visit, onCycle: onCycle}
	w.walk(Node{Path: domain.RootPath, Value: root})
}

type walker struct {
	states  map[uintptr]visitState
	visit   func(Node)
	onCycle func(path string)
}

func (w *walker) walk(n Node) {
	id, tracked := domain.Identity(n.Value)
	if tracked {
		if w.states[id] == onStack {
			if w.onCycle != nil {
				w.onCycle(n.Path)
			}
			return
		}
		w.states[id] = onStack
		defer func() { w.states[id] = done }()
	}

	if w.visit != nil {
		w.visit(n)
	}

	switch t := n.Value.(type) {
	case *domain.Object:
		if t == nil {
			return
		}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			w.walk(Node{
				Path:  domain.JoinKey(n.Path, pair.Key),
				Value: pair.Value,
				Key:   pair.Key,
				Depth: n.Depth + 1,
			})
		}
	case []any:
		for i, item := range t {
			w.walk(Node{
				Path:  domain.JoinIndex(n.Path, i),
				Value: item,
				Key:   n.Key,
				Depth: n.Depth + 1,
			})
		}
	}
}
