package observe

import (
	"sync/atomic"
)

// AtomicValue is a typed wrapper over atomic.Pointer for values shared with
// router goroutines. The core Observer stays single-threaded; this is only
// for relay-side bookkeeping.
type AtomicValue[T any] struct {
	value atomic.Pointer[T]
}

func NewAtomicValue[T any](value T) *AtomicValue[T] {
	v := &AtomicValue[T]{}
	v.value.Store(&value)

	return v
}

//nolint:ireturn
func (v *AtomicValue[T]) Get() (T, bool) {
	value := v.value.Load()
	if value == nil {
		var zero T
		return zero, false
	}

	return *value, true
}

func (v *AtomicValue[T]) Set(value T) {
	v.value.Store(&value)
}
