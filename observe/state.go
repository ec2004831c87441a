package observe

// State is a single-value cell. It holds exactly one live value and keeps
// no history. Setting a value never triggers notifications: fan-out is
// entirely the Observer's job.
type State[T any] struct {
	value T
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value: initial,
	}
}

func (s *State[T]) Get() T {
	return s.value
}

// Set replaces the current value unconditionally. No change detection is
// performed and no callbacks run.
func (s *State[T]) Set(value T) {
	s.value = value
}
