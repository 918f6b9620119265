package ringbuf

// Option configures a container on construction.
type Option[T any] func(*options[T])

type options[T any] struct {
	source []T
}

// WithSource pre-populates the container with values, oldest first.
// If the container capacity is zero it is inferred from len(values), otherwise
// only the last capacity values are kept.
func WithSource[T any](values ...T) Option[T] {
	return func(o *options[T]) {
		o.source = values
	}
}

func applyOptions[T any](opts ...Option[T]) *options[T] {
	o := &options[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// capacityFor resolves the capacity from an explicit value and the source length.
func (o *options[T]) capacityFor(capacity int) (int, bool) {
	if capacity > 0 {
		return capacity, true
	}
	if capacity == 0 && len(o.source) > 0 {
		return len(o.source), true
	}
	return 0, false
}
