package ringbuf_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yvesf/streamwin/pkg/ringbuf"
)

func TestNewRingbuf(t *testing.T) {
	t.Run(`no capacity`, func(t *testing.T) {
		_, err := ringbuf.NewRingbuf[int](0)
		require.ErrorIs(t, err, ringbuf.ErrInvalidConfiguration)
		_, err = ringbuf.NewRingbuf[int](-1)
		require.ErrorIs(t, err, ringbuf.ErrInvalidConfiguration)
		_, err = ringbuf.NewRingbuf[int](0, ringbuf.WithSource[int]())
		require.ErrorIs(t, err, ringbuf.ErrInvalidConfiguration)
	})
	t.Run(`empty`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf[int](2)
		require.NoError(t, err)
		require.Equal(t, 0, r.Len())
		require.Equal(t, 2, r.Cap())
		require.Empty(t, r.Contents())
	})
	t.Run(`capacity from source`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf(0, ringbuf.WithSource(1, 2, 3))
		require.NoError(t, err)
		require.Equal(t, 3, r.Len())
		require.Equal(t, 3, r.Cap())
		require.Equal(t, []int{1, 2, 3}, r.Contents())
		require.Equal(t, []int{1, 2, 3}, r.Drain())
		require.Empty(t, r.Contents())
	})
	t.Run(`source truncated to capacity`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf(2, ringbuf.WithSource(1, 2, 3))
		require.NoError(t, err)
		require.Equal(t, 2, r.Len())
		require.Equal(t, 2, r.Cap())
		require.Equal(t, []int{2, 3}, r.Contents())
		require.Equal(t, []int{2, 3}, r.Drain())
	})
	t.Run(`source not modified`, func(t *testing.T) {
		source := []int{1, 2, 3}
		r, err := ringbuf.NewRingbuf(4, ringbuf.WithSource(source...))
		require.NoError(t, err)
		r.Push(4)
		r.Push(5)
		require.Equal(t, []int{1, 2, 3}, source)
	})
}

func TestRingbufPush(t *testing.T) {
	r, err := ringbuf.NewRingbuf[int](3)
	require.NoError(t, err)

	var evicted []any
	for v := 1; v <= 6; v++ {
		old, ok := r.Push(v)
		if ok {
			evicted = append(evicted, old)
		} else {
			evicted = append(evicted, nil)
		}
	}
	require.Equal(t, []any{nil, nil, nil, 1, 2, 3}, evicted)
	require.Equal(t, []int{4, 5, 6}, r.Contents())
	require.Equal(t, 3, r.Len())
}

func TestRingbufLastN(t *testing.T) {
	for _, capacity := range []int{1, 2, 5, 7} {
		r, err := ringbuf.NewRingbuf[int](capacity)
		require.NoError(t, err)
		var pushed []int
		for k := 1; k <= 3*capacity+1; k++ {
			old, ok := r.Push(k)
			if k > capacity {
				require.True(t, ok)
				require.Equal(t, pushed[k-capacity-1], old)
			} else {
				require.False(t, ok)
			}
			pushed = append(pushed, k)
			want := pushed[max(0, len(pushed)-capacity):]
			require.Equal(t, want, r.Contents())
			require.Equal(t, len(want), r.Len())
		}
	}
}

func TestRingbufDrain(t *testing.T) {
	r, err := ringbuf.NewRingbuf(3, ringbuf.WithSource(1, 2, 3, 4))
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, r.Drain())
	require.Empty(t, r.Contents())
	require.Equal(t, 0, r.Len())
	require.Equal(t, 3, r.Cap())

	fresh, err := ringbuf.NewRingbuf[int](3)
	require.NoError(t, err)
	for v := 10; v < 15; v++ {
		a, aok := r.Push(v)
		b, bok := fresh.Push(v)
		require.Equal(t, b, a)
		require.Equal(t, bok, aok)
	}
	require.Equal(t, fresh.Contents(), r.Contents())
	require.Equal(t, fresh.GoString(), r.GoString())
}

func TestRingbufResize(t *testing.T) {
	t.Run(`grow and shrink`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf(2, ringbuf.WithSource(1, 2, 3))
		require.NoError(t, err)
		require.Equal(t, "Ringbuf([2, 3], capacity=2)", r.GoString())

		require.NoError(t, r.Resize(5))
		require.Equal(t, "Ringbuf([2, 3, NULL, NULL, NULL], capacity=5)", r.GoString())

		r.Push(4)
		r.Push(5)
		require.Equal(t, 4, r.Len())
		require.Equal(t, 5, r.Cap())
		require.Equal(t, []int{2, 3, 4, 5}, r.Contents())
		require.Equal(t, "Ringbuf([2, 3, 4, 5, NULL], capacity=5)", r.GoString())

		r.Push(6)
		require.Equal(t, 5, r.Len())
		require.Equal(t, []int{2, 3, 4, 5, 6}, r.Contents())
		require.Equal(t, "Ringbuf([2, 3, 4, 5, 6], capacity=5)", r.GoString())

		require.NoError(t, r.Resize(2))
		require.Equal(t, "Ringbuf([5, 6], capacity=2)", r.GoString())
		require.Equal(t, 2, r.Len())
		require.Equal(t, []int{5, 6}, r.Contents())
	})
	t.Run(`empty`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf[int](2)
		require.NoError(t, err)
		require.Equal(t, "Ringbuf([NULL, NULL], capacity=2)", r.GoString())
		require.NoError(t, r.Resize(5))
		require.Equal(t, "Ringbuf([NULL, NULL, NULL, NULL, NULL], capacity=5)", r.GoString())
		require.NoError(t, r.Resize(3))
		require.Equal(t, "Ringbuf([NULL, NULL, NULL], capacity=3)", r.GoString())
	})
	t.Run(`unchanged`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf(3, ringbuf.WithSource(1, 2, 3, 4, 5))
		require.NoError(t, err)
		before := r.GoString()
		require.NoError(t, r.Resize(3))
		require.Equal(t, before, r.GoString())
		require.Equal(t, []int{3, 4, 5}, r.Contents())
		require.Equal(t, 3, r.Len())
	})
	t.Run(`invalid`, func(t *testing.T) {
		r, err := ringbuf.NewRingbuf(3, ringbuf.WithSource(1, 2))
		require.NoError(t, err)
		require.ErrorIs(t, r.Resize(0), ringbuf.ErrInvalidConfiguration)
		require.ErrorIs(t, r.Resize(-2), ringbuf.ErrInvalidConfiguration)
		require.Equal(t, []int{1, 2}, r.Contents())
		require.Equal(t, 3, r.Cap())
	})
	t.Run(`keeps last elements`, func(t *testing.T) {
		for m := 1; m <= 8; m++ {
			r, err := ringbuf.NewRingbuf(5, ringbuf.WithSource(1, 2, 3, 4, 5, 6, 7))
			require.NoError(t, err)
			before := r.Contents()
			require.NoError(t, r.Resize(m))
			require.Equal(t, before[max(0, len(before)-m):], r.Contents(), "resize to %d", m)
		}
	})
}

func TestRingbufAll(t *testing.T) {
	r, err := ringbuf.NewRingbuf(4, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	seq := r.All()
	require.Equal(t, []int{1, 2, 3}, slices.Collect(seq))
	require.Equal(t, []int{1, 2, 3}, slices.Collect(seq), "restartable")

	r.Push(4)
	r.Push(5)
	require.Equal(t, []int{2, 3, 4, 5}, slices.Collect(seq))

	var first []int
	for v := range r.All() {
		if v > 3 {
			break
		}
		first = append(first, v)
	}
	require.Equal(t, []int{2, 3}, first)
}

func TestRingbufIdempotentReads(t *testing.T) {
	r, err := ringbuf.NewRingbuf(3, ringbuf.WithSource(1, 2, 3, 4))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Equal(t, []int{2, 3, 4}, r.Contents())
		require.Equal(t, 3, r.Len())
	}
	require.Equal(t, "Ringbuf([2, 3, 4], capacity=3)", r.String())
}

func TestRingbufIndex(t *testing.T) {
	r, err := ringbuf.NewRingbuf[int](3)
	require.NoError(t, err)

	_, err = r.At(0)
	require.ErrorIs(t, err, ringbuf.ErrNotSupported)
	require.ErrorIs(t, r.Set(0, 1), ringbuf.ErrNotSupported)

	for v := 1; v <= 6; v++ {
		r.Push(v)
	}
	for i, want := range []int{4, 5, 6} {
		got, err := r.At(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.NoError(t, r.Set(0, 9))
	require.NoError(t, r.Set(2, 78))
	require.Equal(t, []int{9, 5, 78}, r.Contents())

	_, err = r.At(3)
	require.ErrorIs(t, err, ringbuf.ErrOutOfRange)
	_, err = r.At(-1)
	require.ErrorIs(t, err, ringbuf.ErrOutOfRange)
	require.ErrorIs(t, r.Set(75, 6), ringbuf.ErrOutOfRange)

	r.Push(7)
	got, err := r.At(0)
	require.NoError(t, err)
	require.Equal(t, 5, got)
}

func TestRingbufString(t *testing.T) {
	r, err := ringbuf.NewRingbuf[int](4)
	require.NoError(t, err)
	require.Equal(t, "Ringbuf([], capacity=4)", r.String())
	require.Equal(t, "Ringbuf([NULL, NULL, NULL, NULL], capacity=4)", r.GoString())

	r, err = ringbuf.NewRingbuf(0, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, "Ringbuf([1, 2, 3], capacity=3)", r.String())
	require.Equal(t, "Ringbuf([1, 2, 3], capacity=3)", r.GoString())

	r, err = ringbuf.NewRingbuf(2, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, "Ringbuf([2, 3], capacity=2)", r.String())
}
