// Package event provides a box whose payload can be taken at most once.
package event

import (
	"encoding/json"
	"sync"
)

// Event holds a payload that is handed out to the first reader only.
type Event[T any] struct {
	mu      sync.Mutex
	content T
	handled bool
}

// New wraps content in an unconsumed Event.
func New[T any](content T) *Event[T] {
	return &Event[T]{content: content}
}

// Take returns the payload and true on the first call, and the zero value and
// false on every later call.
func (e *Event[T]) Take() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handled {
		var zero T
		return zero, false
	}
	e.handled = true
	return e.content, true
}

// Peek returns the payload whether or not it was taken.
func (e *Event[T]) Peek() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// Handled reports whether the payload has been taken.
func (e *Event[T]) Handled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handled
}

type wireEvent[T any] struct {
	Content T    `json:"content"`
	Handled bool `json:"handled"`
}

// MarshalJSON keeps the consumed flag so a stored event stays consumed.
func (e *Event[T]) MarshalJSON() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return json.Marshal(wireEvent[T]{Content: e.content, Handled: e.handled})
}

func (e *Event[T]) UnmarshalJSON(data []byte) error {
	var w wireEvent[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.content = w.Content
	e.handled = w.Handled
	return nil
}
