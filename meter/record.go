package meter

import "github.com/and161185/telemetry-core/model"

// Record wraps an immutable value. Its reading is the value's content hash,
// which lets a measurement stream show that a value changed without carrying it.
type Record[T any] struct {
	value T
	hash  int64
}

// NewRecord wraps v. The hash is computed once here since v never changes.
func NewRecord[T any](v T) (*Record[T], error) {
	h, err := contentHash(v)
	if err != nil {
		return nil, err
	}
	return &Record[T]{value: v, hash: h}, nil
}

// Value returns the wrapped value.
func (r *Record[T]) Value() T { return r.value }

// Reading returns the content hash of the wrapped value.
func (r *Record[T]) Reading() model.Datum { return model.NewDatum(r.hash) }

func (r *Record[T]) meter() {}

// State wraps a mutable value. Every reading rehashes the current value.
type State[T any] struct {
	value T
}

// NewState wraps v. It fails when v cannot be hashed.
func NewState[T any](v T) (*State[T], error) {
	if _, err := contentHash(v); err != nil {
		return nil, err
	}
	return &State[T]{value: v}, nil
}

// Value returns the current value.
func (s *State[T]) Value() T { return s.value }

// Set replaces the value. The old value is kept when v cannot be hashed.
func (s *State[T]) Set(v T) error {
	if _, err := contentHash(v); err != nil {
		return err
	}
	s.value = v
	return nil
}

// Mutate changes the value in place. The mutation is not rolled back
// when the result cannot be hashed; the error is reported instead.
func (s *State[T]) Mutate(fn func(v *T)) error {
	fn(&s.value)
	_, err := contentHash(s.value)
	return err
}

// Reading returns the content hash of the current value.
// It panics if the value was mutated into something unhashable.
func (s *State[T]) Reading() model.Datum {
	h, err := contentHash(s.value)
	if err != nil {
		panic(err)
	}
	return model.NewDatum(h)
}

func (s *State[T]) meter() {}
