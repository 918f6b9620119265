package ringbuf_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yvesf/streamwin/pkg/ringbuf"
)

func TestNewDeque(t *testing.T) {
	_, err := ringbuf.NewDeque[int](0)
	require.ErrorIs(t, err, ringbuf.ErrInvalidConfiguration)

	d, err := ringbuf.NewDeque[int](2)
	require.NoError(t, err)
	require.Equal(t, 2, d.Cap())
	require.Equal(t, 0, d.Len())
	require.Empty(t, d.Contents())
	require.Empty(t, d.Drain())

	d, err = ringbuf.NewDeque(0, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	require.Equal(t, 3, d.Cap())
	require.Equal(t, []int{1, 2, 3}, d.Contents())
	require.Equal(t, []int{1, 2, 3}, d.Drain())
	require.Empty(t, d.Drain())

	d, err = ringbuf.NewDeque(2, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	require.Equal(t, []int{2, 3}, d.Contents())
	require.Equal(t, []int{2, 3}, d.Drain())
	require.Empty(t, d.Drain())
}

func TestDequePush(t *testing.T) {
	d, err := ringbuf.NewDeque[int](3)
	require.NoError(t, err)

	for v, want := range [][]int{{1}, {1, 2}, {1, 2, 3}} {
		_, ok := d.Push(v + 1)
		require.False(t, ok)
		require.Equal(t, want, d.Contents())
	}
	for v, want := range [][]int{{2, 3, 4}, {3, 4, 5}, {4, 5, 6}} {
		old, ok := d.Push(v + 4)
		require.True(t, ok)
		require.Equal(t, v+1, old)
		require.Equal(t, want, d.Contents())
	}
}

func TestDequeLen(t *testing.T) {
	d, err := ringbuf.NewDeque[int](5)
	require.NoError(t, err)
	for i := 1; i < 10; i++ {
		d.Push(i)
		require.Equal(t, min(i, 5), d.Len())
	}
}

func TestDequeAppend(t *testing.T) {
	d, err := ringbuf.NewDeque[int](4)
	require.NoError(t, err)

	_, ok := d.Leftmost()
	require.False(t, ok)
	_, ok = d.Rightmost()
	require.False(t, ok)

	for i := 1; i <= 9; i++ {
		d.Append(i)
		left, ok := d.Leftmost()
		require.True(t, ok)
		right, ok := d.Rightmost()
		require.True(t, ok)
		require.Equal(t, max(1, i-3), left)
		require.Equal(t, i, right)
		require.Equal(t, d.Len(), len(d.Contents()))
	}
	require.Equal(t, []int{6, 7, 8, 9}, d.Contents())
}

func TestDequePushFront(t *testing.T) {
	d, err := ringbuf.NewDeque[int](4)
	require.NoError(t, err)
	require.ErrorIs(t, d.PushFront(1), ringbuf.ErrNotSupported)
	require.Equal(t, 0, d.Len())
}

func TestDequePop(t *testing.T) {
	d, err := ringbuf.NewDeque[int](4)
	require.NoError(t, err)
	for i := 1; i <= 9; i++ {
		d.Push(i)
	}
	require.Equal(t, []int{6, 7, 8, 9}, d.Contents())

	for _, want := range []int{9, 8, 7, 6} {
		left, _ := d.Leftmost()
		require.Equal(t, 6, left)
		v, err := d.Pop()
		require.NoError(t, err)
		require.Equal(t, want, v)
		if right, ok := d.Rightmost(); ok {
			require.Equal(t, want-1, right)
		}
	}
	require.Equal(t, 0, d.Len())
	_, ok := d.Leftmost()
	require.False(t, ok)
	_, ok = d.Rightmost()
	require.False(t, ok)

	_, err = d.Pop()
	require.ErrorIs(t, err, ringbuf.ErrEmptyContainer)
	_, err = d.PopFront()
	require.ErrorIs(t, err, ringbuf.ErrEmptyContainer)
	require.Equal(t, 0, d.Len())
}

func TestDequePopFront(t *testing.T) {
	d, err := ringbuf.NewDeque(4, ringbuf.WithSource(1, 2, 3, 4, 5, 6))
	require.NoError(t, err)

	v, err := d.PopFront()
	require.NoError(t, err)
	require.Equal(t, 3, v)
	require.Equal(t, []int{4, 5, 6}, d.Contents())

	// the freed slot on the left is reused before anything is overwritten
	_, ok := d.Push(7)
	require.False(t, ok)
	require.Equal(t, []int{4, 5, 6, 7}, d.Contents())

	old, ok := d.Push(8)
	require.True(t, ok)
	require.Equal(t, 4, old)
	require.Equal(t, []int{5, 6, 7, 8}, d.Contents())

	for _, want := range []int{5, 6, 7, 8} {
		v, err := d.PopFront()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	require.Equal(t, 0, d.Len())
	require.Empty(t, d.Contents())

	d.Push(9)
	require.Equal(t, []int{9}, d.Contents())
	left, _ := d.Leftmost()
	right, _ := d.Rightmost()
	require.Equal(t, 9, left)
	require.Equal(t, 9, right)
}

func TestDequeMixed(t *testing.T) {
	d, err := ringbuf.NewDeque[int](3)
	require.NoError(t, err)
	var model []int
	push := func(v int) {
		d.Push(v)
		model = append(model, v)
		if len(model) > 3 {
			model = model[1:]
		}
	}
	for i := 0; i < 40; i++ {
		switch i % 7 {
		case 2:
			v, err := d.Pop()
			require.NoError(t, err)
			require.Equal(t, model[len(model)-1], v)
			model = model[:len(model)-1]
		case 5:
			v, err := d.PopFront()
			require.NoError(t, err)
			require.Equal(t, model[0], v)
			model = model[1:]
		default:
			push(i)
		}
		require.Equal(t, len(model), d.Len())
		require.Equal(t, model, append([]int{}, d.Contents()...))
	}
}

func TestDequeResize(t *testing.T) {
	d, err := ringbuf.NewDeque(4, ringbuf.WithSource(1, 2, 3, 4, 5))
	require.NoError(t, err)
	_, err = d.PopFront()
	require.NoError(t, err)

	require.NoError(t, d.Resize(6))
	require.Equal(t, []int{3, 4, 5}, d.Contents())
	require.Equal(t, "Deque([3, 4, 5, NULL, NULL, NULL], window=6)", d.GoString())

	require.NoError(t, d.Resize(2))
	require.Equal(t, []int{4, 5}, d.Contents())
	require.ErrorIs(t, d.Resize(0), ringbuf.ErrInvalidConfiguration)
	require.Equal(t, 2, d.Cap())
}

func TestDequeIter(t *testing.T) {
	base := []int{1, 2, 3}
	d, err := ringbuf.NewDeque(4, ringbuf.WithSource(base...))
	require.NoError(t, err)
	require.Equal(t, base, slices.Collect(d.All()))
	require.Equal(t, []int{1, 2, 3}, base)

	eq := func(a, b int) bool { return a == b }
	require.True(t, d.Contains(2, eq))
	require.False(t, d.Contains(4, eq))
}

func TestDequeIndex(t *testing.T) {
	d, err := ringbuf.NewDeque(2, ringbuf.WithSource(1, 2))
	require.NoError(t, err)
	_, err = d.At(0)
	require.ErrorIs(t, err, ringbuf.ErrNotSupported)
	require.ErrorIs(t, d.Set(0, 1), ringbuf.ErrNotSupported)
}

func TestDequeString(t *testing.T) {
	d, err := ringbuf.NewDeque[int](4)
	require.NoError(t, err)
	require.Equal(t, "Deque([], window=4)", d.String())

	d, err = ringbuf.NewDeque(0, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, "Deque([1, 2, 3], window=3)", d.String())

	d, err = ringbuf.NewDeque(2, ringbuf.WithSource(1, 2, 3))
	require.NoError(t, err)
	require.Equal(t, "Deque([2, 3], window=2)", d.String())

	source := make([]int, 100)
	for i := range source {
		source[i] = i
	}
	d, err = ringbuf.NewDeque(40, ringbuf.WithSource(source...))
	require.NoError(t, err)
	require.Equal(t, "Deque([60, 61, 62, ..., 97, 98, 99], len=40, window=40)", d.String())
	require.Equal(t, "Deque([60, 61, 62, ..., 97, 98, 99], window=40)", d.GoString())

	d, err = ringbuf.NewDeque[int](40)
	require.NoError(t, err)
	require.Equal(t, "Deque([], window=40)", d.String())
	require.Equal(t, "Deque([NULL, NULL, NULL, ..., NULL, NULL, NULL], window=40)", d.GoString())
}
