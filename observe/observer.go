package observe

import (
	"errors"

	"github.com/google/uuid"
)

// ErrObserverDestroyed is returned by Update when the observer no longer
// holds a state reference.
var ErrObserverDestroyed = errors.New("observe: observer is destroyed")

// Unsubscribe removes the subscription it was returned for. Calling it more
// than once, or after the subscription is already gone, is a no-op.
type Unsubscribe = func()

type subscription struct {
	id       string
	callback func()
}

// Observer tracks a single State and fans change notifications out to its
// registered callbacks, in registration order. It does not own the State:
// several observers may share one cell.
type Observer[T any] struct {
	state         *State[T]
	subscriptions []subscription
	forced        bool
}

func NewObserver[T any](state *State[T]) *Observer[T] {
	return &Observer[T]{
		state:         state,
		subscriptions: make([]subscription, 0),
	}
}

// OnChange appends callback to the registry and returns its disposer.
// Registering the same func twice occupies two slots; each disposer removes
// at most its own slot. On a destroyed observer OnChange registers nothing.
func (o *Observer[T]) OnChange(callback func()) Unsubscribe {
	if o.state == nil {
		return func() {}
	}

	id := uuid.NewString()
	o.subscriptions = append(o.subscriptions, subscription{
		id:       id,
		callback: callback,
	})

	return func() {
		o.remove(id)
	}
}

// OnBind invokes callback synchronously once before returning, then
// registers it like OnChange. The callback receives no arguments; it reads
// the current value through its closure.
func (o *Observer[T]) OnBind(callback func()) Unsubscribe {
	if o.state == nil {
		return func() {}
	}

	callback()

	return o.OnChange(callback)
}

// Update writes value straight onto the tracked State, bypassing Set, and
// notifies every registered callback. There is no equality check: updating
// to the same value twice notifies twice.
func (o *Observer[T]) Update(value T) error {
	if o.state == nil {
		return ErrObserverDestroyed
	}

	o.state.value = value
	o.notify()

	return nil
}

// ForceUpdate notifies every registered callback without touching the value.
// It is used to re-sync subscribers when something outside the tracked value
// changed. On a destroyed observer it is a silent no-op.
func (o *Observer[T]) ForceUpdate() {
	o.forced = true
	o.notify()
}

// Forced reports whether ForceUpdate has ever been called. The marker is
// never reset.
func (o *Observer[T]) Forced() bool {
	return o.forced
}

// State returns the tracked cell, or nil after Destroy.
func (o *Observer[T]) State() *State[T] {
	return o.state
}

// Destroy clears the registry and drops the state reference. The State
// itself stays valid for other holders. Destroy is idempotent; after it,
// OnChange, OnBind and ForceUpdate are no-ops and Update returns
// ErrObserverDestroyed.
func (o *Observer[T]) Destroy() {
	o.subscriptions = nil
	o.state = nil
}

// notify walks a snapshot of the registry, so a callback that subscribes or
// unsubscribes mid-notify never skips or double-fires a neighbor.
func (o *Observer[T]) notify() {
	snapshot := make([]subscription, len(o.subscriptions))
	copy(snapshot, o.subscriptions)

	for _, sub := range snapshot {
		sub.callback()
	}
}

func (o *Observer[T]) remove(id string) {
	for i, sub := range o.subscriptions {
		if sub.id == id {
			o.subscriptions = append(o.subscriptions[:i], o.subscriptions[i+1:]...)
			return
		}
	}
}
