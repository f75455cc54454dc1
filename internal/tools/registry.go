package tools

import (
	"context"
	"fmt"
	"sync"
)

// Arguments are the per-call inputs of a tool, keyed by property name.
type Arguments map[string]any

// Content is a single item of a tool result.
type Content struct {
	Type string `json:"type" yaml:"type"`
	Text string `json:"text" yaml:"text"`
}

// Result is the ordered output of one tool invocation.
type Result struct {
	Content []Content `json:"content" yaml:"content"`
}

// TextResult returns a Result holding a single text item.
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: "text", Text: text}}}
}

// Descriptor is the static metadata of a tool.
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	InputSchema Schema `json:"inputSchema" yaml:"inputSchema"`
}

// Handler executes a tool. Handlers must not retain args after returning.
type Handler func(ctx context.Context, args Arguments) (Result, error)

type entry struct {
	desc    Descriptor
	handler Handler
}

// Registry maps tool names to descriptors and handlers, preserving registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds a tool. It fails on an empty or duplicate name.
func (r *Registry) Register(desc Descriptor, handler Handler) error {
	if desc.Name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[desc.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, desc.Name)
	}

	r.entries[desc.Name] = entry{desc: desc, handler: handler}
	r.order = append(r.order, desc.Name)
	return nil
}

// List returns every descriptor in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].desc)
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Get looks up a descriptor by name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	return e.desc, ok
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Filter returns a new registry holding only the tools for which enabled returns true.
func (r *Registry) Filter(enabled func(name string) bool) *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for _, name := range r.order {
		if !enabled(name) {
			continue
		}
		e := r.entries[name]
		out.entries[name] = e
		out.order = append(out.order, name)
	}
	return out
}

// Call dispatches a tool invocation by name. A nil args map is treated as empty.
func (r *Registry) Call(ctx context.Context, name string, args Arguments) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, &UnknownToolError{Name: name}
	}
	if args == nil {
		args = Arguments{}
	}
	return e.handler(ctx, args)
}

// RequireString returns the string argument key of tool, or an *ArgumentError when it is
// absent or not a string.
func (a Arguments) RequireString(tool, key string) (string, error) {
	v, ok := a[key]
	if !ok {
		return "", &ArgumentError{Tool: tool, Argument: key, Err: ErrMissingArgument}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{
			Tool:     tool,
			Argument: key,
			Err:      ErrInvalidArgument,
			Detail:   fmt.Sprintf("expected string, got %T", v),
		}
	}
	return s, nil
}
