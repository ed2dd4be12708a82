// SPDX-License-Identifier: MIT

package solver

import "fmt"

// WorkspaceSize counts the scratch elements an algorithm needs.
type WorkspaceSize struct {
	Ints   int
	Floats int
}

// Add returns the element-wise sum.
func (s WorkspaceSize) Add(o WorkspaceSize) WorkspaceSize {
	return WorkspaceSize{Ints: s.Ints + o.Ints, Floats: s.Floats + o.Floats}
}

// Covers reports whether s is at least as large as need in both counts.
func (s WorkspaceSize) Covers(need WorkspaceSize) bool {
	return s.Ints >= need.Ints && s.Floats >= need.Floats
}

// Workspace is a bump arena over one int and one float buffer. Algorithms
// carve typed views out of it at setup, so the iteration loop itself does
// not allocate. A workspace belongs to one solve at a time.
type Workspace struct {
	ints   []int
	floats []float64
	ip, fp int
}

// NewWorkspace allocates both buffers.
func NewWorkspace(size WorkspaceSize) *Workspace {
	return &Workspace{ints: make([]int, size.Ints), floats: make([]float64, size.Floats)}
}

// Size returns the capacity.
func (w *Workspace) Size() WorkspaceSize {
	return WorkspaceSize{Ints: len(w.ints), Floats: len(w.floats)}
}

// Reset releases every view (the memory is reused, not cleared).
func (w *Workspace) Reset() { w.ip, w.fp = 0, 0 }

// Floats carves a zeroed view of n floats.
//
// Errors: ErrWorkspace when the arena is exhausted.
func (w *Workspace) Floats(n int) ([]float64, error) {
	if n < 0 || w.fp+n > len(w.floats) {
		return nil, fmt.Errorf("need %d floats, %d left: %w", n, len(w.floats)-w.fp, ErrWorkspace)
	}
	v := w.floats[w.fp : w.fp+n : w.fp+n]
	w.fp += n
	for i := range v {
		v[i] = 0
	}

	return v, nil
}

// Ints carves a zeroed view of n ints.
//
// Errors: ErrWorkspace when the arena is exhausted.
func (w *Workspace) Ints(n int) ([]int, error) {
	if n < 0 || w.ip+n > len(w.ints) {
		return nil, fmt.Errorf("need %d ints, %d left: %w", n, len(w.ints)-w.ip, ErrWorkspace)
	}
	v := w.ints[w.ip : w.ip+n : w.ip+n]
	w.ip += n
	for i := range v {
		v[i] = 0
	}

	return v, nil
}

// Acquire returns the options' workspace reset for reuse when it covers
// need, a fresh one when none was supplied, and ErrWorkspace when the
// supplied one is too small.
func (o *Options) Acquire(need WorkspaceSize) (*Workspace, error) {
	if o.Workspace == nil {
		return NewWorkspace(need), nil
	}
	if !o.Workspace.Size().Covers(need) {
		return nil, fmt.Errorf("%v: have %+v, need %+v: %w", o.ID, o.Workspace.Size(), need, ErrWorkspace)
	}
	o.Workspace.Reset()

	return o.Workspace, nil
}

// Split carves a child arena of the given size. The child is independent:
// resetting it does not release the parent's views, and vice versa.
//
// Errors: ErrWorkspace when the arena is exhausted.
func (w *Workspace) Split(size WorkspaceSize) (*Workspace, error) {
	ints, err := w.Ints(size.Ints)
	if err != nil {
		return nil, err
	}
	fs, err := w.Floats(size.Floats)
	if err != nil {
		return nil, err
	}

	return &Workspace{ints: ints, floats: fs}, nil
}
