package lang

import (
	"iter"
	"log/slog"
)

// Binding is a named value in a scope frame.
type Binding struct {
	Name  string
	Value *Value
}

// frame holds the bindings of one evaluation context in definition order.
type frame struct {
	index map[string]int
	list  []Binding
}

// Scope is a stack of frames mapping names to values.
//
// Lookup searches innermost-first. A name can be bound at most once per
// frame; inner frames may shadow outer ones. A Scope is owned by one
// session and is not safe for concurrent use.
type Scope struct {
	frames []*frame
}

// NewScope returns a scope holding a single root frame.
func NewScope() *Scope {
	s := &Scope{}
	s.Push()

	return s
}

// Push enters a new innermost frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, &frame{index: make(map[string]int)})
}

// Pop discards the innermost frame. The root frame cannot be popped.
func (s *Scope) Pop() error {
	if len(s.frames) <= 1 {
		return ErrScope.With(slog.Int("depth", len(s.frames)))
	}

	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]

	return nil
}

// Depth returns the number of frames, including the root frame.
func (s *Scope) Depth() int { return len(s.frames) }

// Bind binds name to v in the innermost frame.
func (s *Scope) Bind(name string, v *Value) error {
	if v == nil || v.Type == TypePointer {
		return ErrTypeMismatch.With(
			slog.String("name", name),
			slog.String("reason", "pointer cannot be bound directly"),
		)
	}

	top := s.frames[len(s.frames)-1]
	if _, ok := top.index[name]; ok {
		return ErrRedefinition.With(slog.String("name", name))
	}

	top.index[name] = len(top.list)
	top.list = append(top.list, Binding{Name: name, Value: v})

	return nil
}

// Lookup returns the innermost value bound to name.
func (s *Scope) Lookup(name string) (*Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if j, ok := f.index[name]; ok {
			return f.list[j].Value, true
		}
	}

	return nil, false
}

// Bound reports whether name is visible from the innermost frame.
func (s *Scope) Bound(name string) bool {
	_, ok := s.Lookup(name)

	return ok
}

// Names returns every visible name, innermost frame first, without
// duplicates.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)

	for i := len(s.frames) - 1; i >= 0; i-- {
		for _, b := range s.frames[i].list {
			if _, ok := seen[b.Name]; ok {
				continue
			}

			seen[b.Name] = struct{}{}
			names = append(names, b.Name)
		}
	}

	return names
}

// Frames returns an iterator over frames from innermost to outermost.
// Each step yields the frame depth (root is 0) and its bindings in
// definition order.
func (s *Scope) Frames() iter.Seq2[int, []Binding] {
	return func(yield func(int, []Binding) bool) {
		for i := len(s.frames) - 1; i >= 0; i-- {
			list := make([]Binding, len(s.frames[i].list))
			copy(list, s.frames[i].list)

			if !yield(i, list) {
				return
			}
		}
	}
}
