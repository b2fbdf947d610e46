package database

import (
	"context"
	"testing"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func seedUser(t *testing.T, repo *Repository) *models.UserProfile {
	t.Helper()
	user := &models.UserProfile{Name: "alice", ChatID: 42}
	require.NoError(t, repo.CreateUserProfile(context.Background(), user))
	return user
}

func seedWord(t *testing.T, repo *Repository, userID, text string) *models.Word {
	t.Helper()
	word := &models.Word{
		UserProfileID:  userID,
		Word:           text,
		ReviewInterval: 1,
		EaseFactor:     2.5,
		Status:         models.WordCollected,
	}
	require.NoError(t, repo.CreateWord(context.Background(), word))
	return word
}

func seedSchedule(t *testing.T, repo *Repository, userID, date string) *models.ReviewSchedule {
	t.Helper()
	s := &models.ReviewSchedule{UserProfileID: userID, ScheduleDate: clock.MustParseDate(date)}
	require.NoError(t, repo.CreateSchedule(context.Background(), s))
	return s
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := Open(ctx, Config{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, initializeSchema(ctx, db))
}

func TestUserRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)

	user := seedUser(t, repo)
	assert.NotEmpty(t, user.ID)

	got, err := repo.GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, int64(42), got.ChatID)

	got, err = repo.GetUserProfileByChatID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.GetUserProfile(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = repo.CreateUserProfile(ctx, &models.UserProfile{ID: user.ID})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	users, err := repo.ListUserProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestWordRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)
	user := seedUser(t, repo)

	word := seedWord(t, repo, user.ID, "ephemeral")

	found, err := repo.FindWord(ctx, user.ID, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, word.ID, found.ID)
	assert.Equal(t, models.WordCollected, found.Status)

	require.NoError(t, repo.UpdateWordProgress(ctx, word.ID, 3, 2.65))
	require.NoError(t, repo.UpdateWordStatus(ctx, word.ID, models.WordLearned))
	got, err := repo.GetWord(ctx, word.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ReviewInterval)
	assert.InDelta(t, 2.65, got.EaseFactor, 1e-9)
	assert.Equal(t, models.WordLearned, got.Status)

	seedWord(t, repo, user.ID, "abide")
	words, err := repo.ListWords(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "abide", words[0].Word)

	require.NoError(t, repo.DeleteWord(ctx, word.ID))
	assert.ErrorIs(t, repo.DeleteWord(ctx, word.ID), models.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateWordProgress(ctx, word.ID, 1, 2.5), models.ErrNotFound)

	_, err = repo.FindWord(ctx, user.ID, "ephemeral")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestScheduleRepository_UniqueDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)
	user := seedUser(t, repo)

	s := seedSchedule(t, repo, user.ID, "2024-02-27")

	err := repo.CreateSchedule(ctx, &models.ReviewSchedule{UserProfileID: user.ID, ScheduleDate: clock.MustParseDate("2024-02-27")})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	got, err := repo.GetScheduleByDate(ctx, user.ID, clock.MustParseDate("2024-02-27"))
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, clock.MustParseDate("2024-02-27"), got.ScheduleDate)
	assert.False(t, got.HasNotification())
}

func TestScheduleRepository_Counters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)
	user := seedUser(t, repo)
	s := seedSchedule(t, repo, user.ID, "2024-02-27")

	require.NoError(t, repo.AddPendingWord(ctx, s.ID))
	require.NoError(t, repo.AddPendingWord(ctx, s.ID))
	require.NoError(t, repo.MarkPendingReviewed(ctx, s.ID))
	require.NoError(t, repo.RemovePendingWord(ctx, s.ID))

	got, err := repo.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalWords)
	assert.Equal(t, 0, got.ToBeReviewedCount)
	assert.Equal(t, 1, got.ReviewedCount)
	assert.NoError(t, got.CheckCounts())

	assert.ErrorIs(t, repo.MarkPendingReviewed(ctx, s.ID), models.ErrCounterConflict, "nothing left to review")
	assert.ErrorIs(t, repo.RemovePendingWord(ctx, s.ID), models.ErrCounterConflict)
	assert.ErrorIs(t, repo.AddPendingWord(ctx, "missing"), models.ErrNotFound)

	require.NoError(t, repo.SetScheduleCounts(ctx, s.ID, 4, 3, 1))
	got, err = repo.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalWords)
	assert.Equal(t, 3, got.ToBeReviewedCount)

	handle := "reminder-1"
	require.NoError(t, repo.SetNotificationID(ctx, s.ID, &handle))
	got, err = repo.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	require.True(t, got.HasNotification())
	assert.Equal(t, handle, *got.NotificationID)

	require.NoError(t, repo.SetNotificationID(ctx, s.ID, nil))
	got, err = repo.GetSchedule(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, got.HasNotification())

	require.NoError(t, repo.DeleteSchedule(ctx, s.ID))
	_, err = repo.GetSchedule(ctx, s.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestScheduleRepository_Listing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)
	user := seedUser(t, repo)
	other := seedUser(t, repo)

	for _, d := range []string{"2024-02-29", "2024-02-25", "2024-03-01", "2024-02-27"} {
		seedSchedule(t, repo, user.ID, d)
	}
	otherSchedule := seedSchedule(t, repo, other.ID, "2024-02-28")
	require.NoError(t, repo.AddPendingWord(ctx, otherSchedule.ID))

	today := clock.MustParseDate("2024-02-29")
	dates := func(schedules []models.ReviewSchedule) []string {
		out := make([]string, 0, len(schedules))
		for _, s := range schedules {
			out = append(out, s.ScheduleDate.String())
		}
		return out
	}

	before, err := repo.ListSchedulesBefore(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-25", "2024-02-27"}, dates(before))

	through, err := repo.ListSchedulesThrough(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-29", "2024-02-27", "2024-02-25"}, dates(through))

	all, err := repo.ListSchedules(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	pending, err := repo.ListPendingSchedulesFrom(ctx, clock.MustParseDate("2024-02-28"))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, otherSchedule.ID, pending[0].ID)
}

func TestScheduleWordRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newTestRepository(t)
	user := seedUser(t, repo)
	today := seedSchedule(t, repo, user.ID, "2024-02-27")
	later := seedSchedule(t, repo, user.ID, "2024-03-01")
	a := seedWord(t, repo, user.ID, "ephemeral")
	b := seedWord(t, repo, user.ID, "lucid")

	swA := &models.ScheduleWord{ReviewScheduleID: today.ID, WordID: a.ID}
	require.NoError(t, repo.CreateScheduleWord(ctx, swA))
	assert.Equal(t, models.ToReview, swA.Status)
	swB := &models.ScheduleWord{ReviewScheduleID: today.ID, WordID: b.ID, Status: models.ToReview}
	require.NoError(t, repo.CreateScheduleWord(ctx, swB))

	err := repo.CreateScheduleWord(ctx, &models.ScheduleWord{ReviewScheduleID: later.ID, WordID: a.ID, Status: models.ToReview})
	assert.ErrorIs(t, err, models.ErrAlreadyScheduled, "one pending row per word")

	pending, err := repo.GetPendingScheduleWord(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, swA.ID, pending.ID)

	score := 75.0
	answeredAt := time.Date(2024, time.February, 27, 21, 30, 0, 0, time.UTC)
	answeredOn := clock.MustParseDate("2024-02-27")
	require.NoError(t, repo.MarkScheduleWordReviewed(ctx, swA.ID, &score, answeredAt, answeredOn))
	assert.ErrorIs(t, repo.MarkScheduleWordReviewed(ctx, swA.ID, nil, answeredAt, answeredOn), models.ErrAlreadyReviewed)

	got, err := repo.GetScheduleWord(ctx, swA.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Reviewed, got.Status)
	require.NotNil(t, got.Score)
	assert.Equal(t, 75.0, *got.Score)
	require.NotNil(t, got.AnsweredOn)
	assert.Equal(t, answeredOn, *got.AnsweredOn)
	require.NotNil(t, got.AnsweredAt)
	assert.True(t, answeredAt.Equal(*got.AnsweredAt))

	// reviewed, so the word may be scheduled again
	swNext := &models.ScheduleWord{ReviewScheduleID: later.ID, WordID: a.ID, Status: models.ToReview}
	require.NoError(t, repo.CreateScheduleWord(ctx, swNext))

	listed, err := repo.ListScheduleWords(ctx, []string{today.ID, later.ID}, models.ToReview)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	ids := []string{listed[0].ID, listed[1].ID}
	assert.ElementsMatch(t, []string{swB.ID, swNext.ID}, ids)

	listed, err = repo.ListScheduleWords(ctx, nil, models.ToReview)
	require.NoError(t, err)
	assert.Empty(t, listed)

	counts, err := repo.CountScheduleWords(ctx, today.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{ToReview: 1, Reviewed: 1}, counts)
	assert.Equal(t, 2, counts.Total())

	answered, err := repo.CountAnsweredOn(ctx, user.ID, answeredOn)
	require.NoError(t, err)
	assert.Equal(t, 1, answered)
	answered, err = repo.CountAnsweredOn(ctx, user.ID, answeredOn.AddDays(1))
	require.NoError(t, err)
	assert.Zero(t, answered)

	scores, err := repo.ListScores(ctx, today.ID)
	require.NoError(t, err)
	assert.Equal(t, []float64{75}, scores)

	require.NoError(t, repo.DeleteScheduleWord(ctx, swB.ID))
	assert.ErrorIs(t, repo.DeleteScheduleWord(ctx, swB.ID), models.ErrNotFound)

	// history survives the word itself
	require.NoError(t, repo.DeleteWord(ctx, a.ID))
	_, err = repo.GetScheduleWord(ctx, swA.ID)
	assert.NoError(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(assert.AnError))
}
