// Package hierarchy answers transitive-closure queries over a snapshot of the
// org group forest. An Index reflects the group table at the moment it was
// built; callers rebuild it per request rather than mutating a shared one.
package hierarchy

import (
	"errors"

	"github.com/google/uuid"

	"github.com/utpad/utpad/pkg/model"
)

// MaxDepth bounds every walk over parent or child links. The data model
// disallows cycles, but a corrupted parent chain must fail loudly instead of
// recursing forever or silently truncating an authorization decision.
const MaxDepth = 64

var (
	ErrCycleDetected = errors.New("cycle detected in org group hierarchy")
	ErrTooDeep       = errors.New("org group hierarchy exceeds maximum depth")
	ErrUnknownGroup  = errors.New("org group not found in hierarchy snapshot")
)

type Index struct {
	parents  map[uuid.UUID]*uuid.UUID
	children map[uuid.UUID][]uuid.UUID
}

func NewIndex(groups []model.OrgGroup) *Index {
	ix := &Index{
		parents:  make(map[uuid.UUID]*uuid.UUID, len(groups)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, g := range groups {
		ix.parents[g.ID] = g.ParentID
		if g.ParentID != nil {
			ix.children[*g.ParentID] = append(ix.children[*g.ParentID], g.ID)
		}
	}
	return ix
}

func (ix *Index) Contains(id uuid.UUID) bool {
	_, ok := ix.parents[id]
	return ok
}

// Descendants returns the group itself plus every group transitively below
// it, in depth-first order.
func (ix *Index) Descendants(id uuid.UUID) ([]uuid.UUID, error) {
	if !ix.Contains(id) {
		return nil, ErrUnknownGroup
	}
	visited := make(map[uuid.UUID]bool)
	var out []uuid.UUID
	if err := ix.walk(id, 0, visited, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (ix *Index) walk(id uuid.UUID, depth int, visited map[uuid.UUID]bool, out *[]uuid.UUID) error {
	if depth >= MaxDepth {
		return ErrTooDeep
	}
	if visited[id] {
		return ErrCycleDetected
	}
	visited[id] = true
	*out = append(*out, id)
	for _, child := range ix.children[id] {
		if err := ix.walk(child, depth+1, visited, out); err != nil {
			return err
		}
	}
	return nil
}

// Ancestors returns the parent chain from the group up to its root, nearest
// parent first. The group itself is not included.
func (ix *Index) Ancestors(id uuid.UUID) ([]uuid.UUID, error) {
	if !ix.Contains(id) {
		return nil, ErrUnknownGroup
	}
	seen := map[uuid.UUID]bool{id: true}
	var out []uuid.UUID
	current := ix.parents[id]
	for current != nil {
		if len(out) >= MaxDepth {
			return nil, ErrTooDeep
		}
		if seen[*current] {
			return nil, ErrCycleDetected
		}
		seen[*current] = true
		out = append(out, *current)
		next, ok := ix.parents[*current]
		if !ok {
			break
		}
		current = next
	}
	return out, nil
}

// Validate walks every node's ancestor chain so that later read paths can
// treat the snapshot as acyclic and depth-bounded.
func (ix *Index) Validate() error {
	for id := range ix.parents {
		if _, err := ix.Ancestors(id); err != nil {
			return err
		}
	}
	return nil
}
