// Package layer merges configuration sources by precedence.
//
// Each source contributes one layer of nested maps. Layers are merged
// from the lowest source to the highest, so flags override environment
// variables, which override the config file, which overrides defaults.
package layer

import (
	"slices"
	"sync"
)

// Source indicates where a configuration layer came from. Higher values
// take precedence.
type Source uint8

const (
	// SourceDefaults holds the built-in defaults.
	SourceDefaults Source = iota
	// SourceFile holds the user's config file.
	SourceFile
	// SourceEnv holds NWIN_* environment variables.
	SourceEnv
	// SourceFlags holds command-line flags.
	SourceFlags
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Layer is one source's configuration values.
type Layer struct {
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as nested maps.
	Data map[string]any
}

// Stack holds at most one layer per source and caches their merge.
type Stack struct {
	mu     sync.RWMutex
	layers map[Source]*Layer
	merged map[string]any
	dirty  bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{
		layers: make(map[Source]*Layer),
		dirty:  true,
	}
}

// Put installs l, replacing any layer from the same source.
func (s *Stack) Put(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.Data == nil {
		l.Data = make(map[string]any)
	}
	s.layers[l.Source] = l
	s.dirty = true
}

// Remove drops the layer of src. It reports whether one was present.
func (s *Stack) Remove(src Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.layers[src]; !ok {
		return false
	}
	delete(s.layers, src)
	s.dirty = true
	return true
}

// Layer returns the layer of src.
func (s *Stack) Layer(src Source) (*Layer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.layers[src]
	return l, ok
}

// Set stores value at path in the layer of src, creating the layer if
// needed.
func (s *Stack) Set(src Source, path string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.layers[src]
	if !ok {
		l = &Layer{Source: src, Data: make(map[string]any)}
		s.layers[src] = l
	}
	SetByPath(l.Data, path, value)
	s.dirty = true
}

// Merge returns a copy of all layers merged in precedence order.
func (s *Stack) Merge() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneMap(s.mergedData())
}

// Get returns the effective value at path and the source that set it.
func (s *Stack) Get(path string) (any, Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := GetByPath(s.mergedData(), path)
	if !ok {
		return nil, 0, false
	}
	src := SourceDefaults
	for _, l := range s.ordered() {
		if _, ok := GetByPath(l.Data, path); ok {
			src = l.Source
		}
	}
	return cloneValue(v), src, true
}

func (s *Stack) mergedData() map[string]any {
	if !s.dirty && s.merged != nil {
		return s.merged
	}
	result := make(map[string]any)
	for _, l := range s.ordered() {
		result = DeepMerge(result, l.Data)
	}
	s.merged = result
	s.dirty = false
	return result
}

func (s *Stack) ordered() []*Layer {
	out := make([]*Layer, 0, len(s.layers))
	for _, l := range s.layers {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b *Layer) int { return int(a.Source) - int(b.Source) })
	return out
}
