package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/wordrecall/internal/clock"
	mock_reminder "github.com/example/wordrecall/internal/reminder/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler(t *testing.T, notifier Notifier, now time.Time) *Scheduler {
	t.Helper()
	s := New(notifier, time.UTC, 9, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func TestScheduler_Schedule(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 27, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("future date is queued under a new handle", func(t *testing.T) {
		s := newTestScheduler(t, nil, now)

		handle, err := s.Schedule(ctx, "", "user-1", clock.MustParseDate("2024-02-28"), 3)
		require.NoError(t, err)
		assert.NotEmpty(t, handle)
		assert.True(t, s.Pending(handle))
	})

	t.Run("existing handle is replaced not duplicated", func(t *testing.T) {
		s := newTestScheduler(t, nil, now)

		handle, err := s.Schedule(ctx, "h-1", "user-1", clock.MustParseDate("2024-02-28"), 1)
		require.NoError(t, err)
		assert.Equal(t, "h-1", handle)

		handle, err = s.Schedule(ctx, handle, "user-1", clock.MustParseDate("2024-02-28"), 2)
		require.NoError(t, err)
		assert.Equal(t, "h-1", handle)

		jobs, err := s.scheduler.FindJobsByTag(handle)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("passed fire time keeps the handle without a job", func(t *testing.T) {
		s := newTestScheduler(t, nil, now)

		handle, err := s.Schedule(ctx, "h-2", "user-1", clock.MustParseDate("2024-02-27"), 1)
		require.NoError(t, err)
		assert.Equal(t, "h-2", handle)
		assert.False(t, s.Pending(handle))
	})
}

func TestScheduler_Cancel(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 27, 6, 0, 0, 0, time.UTC)
	ctx := context.Background()
	s := newTestScheduler(t, nil, now)

	handle, err := s.Schedule(ctx, "", "user-1", clock.MustParseDate("2024-02-27"), 4)
	require.NoError(t, err)
	require.True(t, s.Pending(handle))

	require.NoError(t, s.Cancel(ctx, handle))
	assert.False(t, s.Pending(handle))

	assert.NoError(t, s.Cancel(ctx, "unknown"))
}

func TestScheduler_fire(t *testing.T) {
	t.Parallel()

	date := clock.MustParseDate("2024-02-27")

	tests := []struct {
		name string
		err  error
	}{
		{name: "delivered"},
		{name: "delivery failure is swallowed", err: errors.New("chat not found")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			notifier := mock_reminder.NewMockNotifier(ctrl)
			notifier.EXPECT().Notify(gomock.Any(), "user-1", date, 5).Return(tt.err)

			s := newTestScheduler(t, notifier, time.Now())
			assert.NotPanics(t, func() { s.fire("h", "user-1", date, 5) })
		})
	}
}

func TestDeferred(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var d Deferred

	handle, err := d.Schedule(ctx, "", "user-1", clock.MustParseDate("2024-02-27"), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, handle)

	again, err := d.Schedule(ctx, handle, "user-1", clock.MustParseDate("2024-02-27"), 2)
	require.NoError(t, err)
	assert.Equal(t, handle, again)

	assert.NoError(t, d.Cancel(ctx, handle))
}
