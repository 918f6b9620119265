package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sinkMock struct {
	mock.Mock
}

func (m *sinkMock) Publish(s Snapshot) {
	m.Called(s)
}

func TestReaderRun(t *testing.T) {
	stats, err := NewStats(Config{Average: 3, Window: 10 * time.Second})
	require.NoError(t, err)

	sink := &sinkMock{}
	sink.On("Publish", mock.MatchedBy(func(s Snapshot) bool { return s.Observed <= 2 })).Return().Times(2)
	sink.On("Publish", mock.MatchedBy(func(s Snapshot) bool {
		return s.Observed == 3 && s.Mean == 2 && s.WindowSamples == 3
	})).Return().Once()

	input := strings.Join([]string{
		"# header",
		"1575201610 1",
		"",
		"garbage here too",
		"1575201611 2",
		"1575201613 3",
	}, "\n")
	r := &Reader{Name: "test", Source: strings.NewReader(input), Stats: stats, Sink: sink}
	require.NoError(t, r.Run(context.Background()))
	sink.AssertExpectations(t)
	require.Equal(t, uint64(3), stats.Snapshot().Observed)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device gone")
}

func TestReaderRunReadError(t *testing.T) {
	stats, err := NewStats(Config{Average: 3, Window: 10 * time.Second})
	require.NoError(t, err)
	r := &Reader{Name: "test", Source: failingReader{}, Stats: stats}
	err = r.Run(context.Background())
	require.ErrorContains(t, err, "device gone")
}

func TestReaderRunCancelled(t *testing.T) {
	stats, err := NewStats(Config{Average: 3, Window: 10 * time.Second})
	require.NoError(t, err)

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	r := &Reader{Name: "test", Source: pr, Stats: stats}
	go func() { done <- r.Run(ctx) }()

	_, err = pw.Write([]byte("1575201610 1\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return stats.Snapshot().Observed == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
