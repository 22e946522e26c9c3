package debrid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flixfinder/flixfinder/internal/errors"
)

// scriptedCheck replays a fixed sequence of transfer states.
func scriptedCheck(states []transferState) (func(context.Context) (transferState, error), *int) {
	calls := 0
	return func(context.Context) (transferState, error) {
		state := states[calls]
		calls++
		return state, nil
	}, &calls
}

func TestPollUntilReadySucceedsOnFourthPoll(t *testing.T) {
	check, calls := scriptedCheck([]transferState{statePending, statePending, statePending, stateReady})

	polls, err := pollUntilReady(context.Background(), "test", 12, time.Millisecond, check)

	require.NoError(t, err)
	assert.Equal(t, 4, polls)
	assert.Equal(t, 4, *calls)
}

func TestPollUntilReadyFailsWithinBudget(t *testing.T) {
	check, calls := scriptedCheck([]transferState{statePending, statePending, statePending, stateReady})

	_, err := pollUntilReady(context.Background(), "test", 3, time.Millisecond, check)

	assert.True(t, errors.IsKind(err, errors.KindNotReady))
	assert.Equal(t, 3, *calls)
}

func TestPollUntilReadyFailedTransfer(t *testing.T) {
	check, _ := scriptedCheck([]transferState{statePending, stateFailed})

	polls, err := pollUntilReady(context.Background(), "test", 10, time.Millisecond, check)

	assert.True(t, errors.IsKind(err, errors.KindTransferFailed))
	assert.Equal(t, 2, polls)
}

func TestPollUntilReadyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	check, _ := scriptedCheck([]transferState{statePending, statePending})

	_, err := pollUntilReady(ctx, "test", 10, time.Minute, check)

	assert.True(t, errors.IsKind(err, errors.KindNotReady))
}

func TestPickPlayableFilePrefersLargestVideo(t *testing.T) {
	files := []transferFile{
		{Name: "sample.mkv", Size: 50},
		{Name: "movie.mkv", Size: 5000},
		{Name: "extras.iso", Size: 9000},
		{Name: "movie.srt", Size: 1},
	}

	best, ok := pickPlayableFile(files)
	require.True(t, ok)
	assert.Equal(t, "movie.mkv", best.Name)
}

func TestPickPlayableFileFallsBackToLargest(t *testing.T) {
	files := []transferFile{
		{Name: "disc.iso", Size: 9000},
		{Name: "readme.txt", Size: 10},
	}

	best, ok := pickPlayableFile(files)
	require.True(t, ok)
	assert.Equal(t, "disc.iso", best.Name)
}

func TestPickPlayableFileEmpty(t *testing.T) {
	_, ok := pickPlayableFile(nil)
	assert.False(t, ok)
}

func TestPickPlayableFileCaseInsensitiveExtension(t *testing.T) {
	best, ok := pickPlayableFile([]transferFile{
		{Name: "MOVIE.MKV", Size: 100},
		{Name: "bigger.bin", Size: 200},
	})
	require.True(t, ok)
	assert.Equal(t, "MOVIE.MKV", best.Name)
}

func TestMagnetFor(t *testing.T) {
	assert.Equal(t,
		"magnet:?xt=urn:btih:aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		magnetFor("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"))
}
