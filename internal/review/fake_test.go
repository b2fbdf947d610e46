package review

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/example/wordrecall/internal/clock"
	"github.com/example/wordrecall/internal/database"
	"github.com/example/wordrecall/pkg/models"
	"github.com/stretchr/testify/assert"
)

// memStore keeps the same guards as the SQL repositories: unique schedule per
// user and date, one pending schedule word per word, and counters that refuse
// to go negative.
type memStore struct {
	mu            sync.Mutex
	seq           int
	words         map[string]models.Word
	schedules     map[string]models.ReviewSchedule
	scheduleWords map[string]models.ScheduleWord
	// fail makes the named method return the error once
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		words:         make(map[string]models.Word),
		schedules:     make(map[string]models.ReviewSchedule),
		scheduleWords: make(map[string]models.ScheduleWord),
		fail:          make(map[string]error),
	}
}

var _ Store = (*memStore)(nil)

func (m *memStore) failOnce(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[method] = err
}

// injected must be called with mu held
func (m *memStore) injected(method string) error {
	err := m.fail[method]
	delete(m.fail, method)
	return err
}

func (m *memStore) nextID(prefix string) (string, time.Time) {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq), time.Unix(0, int64(m.seq)).UTC()
}

func (m *memStore) CreateWord(_ context.Context, w *models.Word) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("CreateWord"); err != nil {
		return err
	}
	w.ID, w.CreatedAt = m.nextID("word")
	w.UpdatedAt = w.CreatedAt
	m.words[w.ID] = *w
	return nil
}

func (m *memStore) GetWord(_ context.Context, id string) (*models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[id]
	if !ok {
		return nil, fmt.Errorf("word %s: %w", id, models.ErrNotFound)
	}
	return &w, nil
}

func (m *memStore) FindWord(_ context.Context, userProfileID, text string) (*models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.words {
		if w.UserProfileID == userProfileID && w.Word == text {
			return &w, nil
		}
	}
	return nil, fmt.Errorf("word %q: %w", text, models.ErrNotFound)
}

func (m *memStore) ListWords(_ context.Context, userProfileID string) ([]models.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Word
	for _, w := range m.words {
		if w.UserProfileID == userProfileID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out, nil
}

func (m *memStore) UpdateWordStatus(_ context.Context, id string, status models.WordStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.words[id]
	if !ok {
		return models.ErrNotFound
	}
	w.Status = status
	m.words[id] = w
	return nil
}

func (m *memStore) UpdateWordProgress(_ context.Context, id string, interval int, easeFactor float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("UpdateWordProgress"); err != nil {
		return err
	}
	w, ok := m.words[id]
	if !ok {
		return models.ErrNotFound
	}
	w.ReviewInterval, w.EaseFactor = interval, easeFactor
	m.words[id] = w
	return nil
}

func (m *memStore) DeleteWord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.words[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.words, id)
	return nil
}

func (m *memStore) CreateSchedule(_ context.Context, s *models.ReviewSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.schedules {
		if existing.UserProfileID == s.UserProfileID && existing.ScheduleDate == s.ScheduleDate {
			return models.ErrDuplicate
		}
	}
	s.ID, s.CreatedAt = m.nextID("schedule")
	s.UpdatedAt = s.CreatedAt
	m.schedules[s.ID] = *s
	return nil
}

func (m *memStore) GetSchedule(_ context.Context, id string) (*models.ReviewSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %s: %w", id, models.ErrNotFound)
	}
	return &s, nil
}

func (m *memStore) GetScheduleByDate(_ context.Context, userProfileID string, date clock.Date) (*models.ReviewSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.schedules {
		if s.UserProfileID == userProfileID && s.ScheduleDate == date {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("schedule %s: %w", date, models.ErrNotFound)
}

func (m *memStore) listSchedules(keep func(models.ReviewSchedule) bool, newestFirst bool) []models.ReviewSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ReviewSchedule
	for _, s := range m.schedules {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ScheduleDate.After(out[j].ScheduleDate)
		}
		return out[i].ScheduleDate.Before(out[j].ScheduleDate)
	})
	return out
}

func (m *memStore) ListSchedulesBefore(_ context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error) {
	return m.listSchedules(func(s models.ReviewSchedule) bool {
		return s.UserProfileID == userProfileID && s.ScheduleDate.Before(date)
	}, false), nil
}

func (m *memStore) ListSchedulesThrough(_ context.Context, userProfileID string, date clock.Date) ([]models.ReviewSchedule, error) {
	return m.listSchedules(func(s models.ReviewSchedule) bool {
		return s.UserProfileID == userProfileID && !s.ScheduleDate.After(date)
	}, true), nil
}

func (m *memStore) ListSchedules(_ context.Context, userProfileID string) ([]models.ReviewSchedule, error) {
	return m.listSchedules(func(s models.ReviewSchedule) bool {
		return s.UserProfileID == userProfileID
	}, false), nil
}

func (m *memStore) ListPendingSchedulesFrom(_ context.Context, date clock.Date) ([]models.ReviewSchedule, error) {
	return m.listSchedules(func(s models.ReviewSchedule) bool {
		return !s.ScheduleDate.Before(date) && s.ToBeReviewedCount > 0
	}, false), nil
}

func (m *memStore) updateSchedule(method, id string, missErr error, fn func(*models.ReviewSchedule) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected(method); err != nil {
		return err
	}
	s, ok := m.schedules[id]
	if !ok || !fn(&s) {
		return missErr
	}
	m.schedules[id] = s
	return nil
}

func (m *memStore) AddPendingWord(_ context.Context, id string) error {
	return m.updateSchedule("AddPendingWord", id, models.ErrNotFound, func(s *models.ReviewSchedule) bool {
		s.TotalWords++
		s.ToBeReviewedCount++
		return true
	})
}

func (m *memStore) MarkPendingReviewed(_ context.Context, id string) error {
	return m.updateSchedule("MarkPendingReviewed", id, models.ErrCounterConflict, func(s *models.ReviewSchedule) bool {
		if s.ToBeReviewedCount <= 0 {
			return false
		}
		s.ToBeReviewedCount--
		s.ReviewedCount++
		return true
	})
}

func (m *memStore) RemovePendingWord(_ context.Context, id string) error {
	return m.updateSchedule("RemovePendingWord", id, models.ErrCounterConflict, func(s *models.ReviewSchedule) bool {
		if s.ToBeReviewedCount <= 0 || s.TotalWords <= 0 {
			return false
		}
		s.TotalWords--
		s.ToBeReviewedCount--
		return true
	})
}

func (m *memStore) SetScheduleCounts(_ context.Context, id string, total, toReview, reviewed int) error {
	return m.updateSchedule("SetScheduleCounts", id, models.ErrNotFound, func(s *models.ReviewSchedule) bool {
		s.TotalWords, s.ToBeReviewedCount, s.ReviewedCount = total, toReview, reviewed
		return true
	})
}

func (m *memStore) SetNotificationID(_ context.Context, id string, notificationID *string) error {
	return m.updateSchedule("SetNotificationID", id, models.ErrNotFound, func(s *models.ReviewSchedule) bool {
		s.NotificationID = notificationID
		return true
	})
}

func (m *memStore) DeleteSchedule(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *memStore) CreateScheduleWord(_ context.Context, sw *models.ScheduleWord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("CreateScheduleWord"); err != nil {
		return err
	}
	if sw.Status == models.ToReview {
		for _, existing := range m.scheduleWords {
			if existing.WordID == sw.WordID && existing.Status == models.ToReview {
				return models.ErrAlreadyScheduled
			}
		}
	}
	sw.ID, sw.CreatedAt = m.nextID("sw")
	m.scheduleWords[sw.ID] = *sw
	return nil
}

func (m *memStore) GetScheduleWord(_ context.Context, id string) (*models.ScheduleWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sw, ok := m.scheduleWords[id]
	if !ok {
		return nil, fmt.Errorf("schedule word %s: %w", id, models.ErrNotFound)
	}
	return &sw, nil
}

func (m *memStore) GetPendingScheduleWord(_ context.Context, wordID string) (*models.ScheduleWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sw := range m.scheduleWords {
		if sw.WordID == wordID && sw.Status == models.ToReview {
			return &sw, nil
		}
	}
	return nil, fmt.Errorf("pending schedule word for %s: %w", wordID, models.ErrNotFound)
}

func (m *memStore) ListScheduleWords(_ context.Context, scheduleIDs []string, status models.ScheduleWordStatus) ([]models.ScheduleWord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]bool, len(scheduleIDs))
	for _, id := range scheduleIDs {
		ids[id] = true
	}
	var out []models.ScheduleWord
	for _, sw := range m.scheduleWords {
		if ids[sw.ReviewScheduleID] && sw.Status == status {
			out = append(out, sw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) MarkScheduleWordReviewed(_ context.Context, id string, score *float64, answeredAt time.Time, answeredOn clock.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("MarkScheduleWordReviewed"); err != nil {
		return err
	}
	sw, ok := m.scheduleWords[id]
	if !ok || sw.Status != models.ToReview {
		return models.ErrAlreadyReviewed
	}
	sw.Status = models.Reviewed
	sw.Score = score
	sw.AnsweredAt = &answeredAt
	sw.AnsweredOn = &answeredOn
	m.scheduleWords[id] = sw
	return nil
}

func (m *memStore) DeleteScheduleWord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.injected("DeleteScheduleWord"); err != nil {
		return err
	}
	if _, ok := m.scheduleWords[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.scheduleWords, id)
	return nil
}

func (m *memStore) CountScheduleWords(_ context.Context, scheduleID string) (database.StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var counts database.StatusCounts
	for _, sw := range m.scheduleWords {
		if sw.ReviewScheduleID != scheduleID {
			continue
		}
		switch sw.Status {
		case models.ToReview:
			counts.ToReview++
		case models.Reviewed:
			counts.Reviewed++
		}
	}
	return counts, nil
}

func (m *memStore) CountAnsweredOn(_ context.Context, userProfileID string, date clock.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, sw := range m.scheduleWords {
		s, ok := m.schedules[sw.ReviewScheduleID]
		if ok && s.UserProfileID == userProfileID && sw.Status == models.Reviewed &&
			sw.AnsweredOn != nil && *sw.AnsweredOn == date {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListScores(_ context.Context, scheduleID string) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var scores []float64
	for _, sw := range m.scheduleWords {
		if sw.ReviewScheduleID == scheduleID && sw.Status == models.Reviewed && sw.Score != nil {
			scores = append(scores, *sw.Score)
		}
	}
	return scores, nil
}

// assertConsistent checks the counter invariant on every schedule and that
// no word has two pending schedule words
func (m *memStore) assertConsistent(t *testing.T) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.schedules {
		var toReview, reviewed int
		for _, sw := range m.scheduleWords {
			if sw.ReviewScheduleID != id {
				continue
			}
			if sw.Status == models.ToReview {
				toReview++
			} else {
				reviewed++
			}
		}
		assert.Equal(t, s.TotalWords, s.ToBeReviewedCount+s.ReviewedCount, "schedule %s %s", id, s.ScheduleDate)
		assert.Equal(t, toReview, s.ToBeReviewedCount, "schedule %s pending", id)
		assert.Equal(t, reviewed, s.ReviewedCount, "schedule %s reviewed", id)
		assert.Positive(t, s.TotalWords, "schedule %s is empty", id)
	}

	pending := make(map[string]int)
	for _, sw := range m.scheduleWords {
		if sw.Status == models.ToReview {
			pending[sw.WordID]++
		}
	}
	for wordID, n := range pending {
		assert.Equal(t, 1, n, "word %s pending count", wordID)
	}
	for id := range m.words {
		assert.Equal(t, 1, pending[id], "word %s has no pending review", id)
	}
}

type reminderCall struct {
	Handle        string
	UserProfileID string
	Date          clock.Date
	Count         int
}

// fakeReminder records what the service asked for; active holds the
// reminder currently armed per handle
type fakeReminder struct {
	mu           sync.Mutex
	seq          int
	active       map[string]reminderCall
	cancelled    []string
	scheduleErr  error
	cancelErr    error
	scheduleCall int
}

func newFakeReminder() *fakeReminder {
	return &fakeReminder{active: make(map[string]reminderCall)}
}

func (r *fakeReminder) Schedule(_ context.Context, handle, userProfileID string, date clock.Date, count int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduleCall++
	if r.scheduleErr != nil {
		return "", r.scheduleErr
	}
	if handle == "" {
		r.seq++
		handle = fmt.Sprintf("reminder-%d", r.seq)
	}
	r.active[handle] = reminderCall{Handle: handle, UserProfileID: userProfileID, Date: date, Count: count}
	return handle, nil
}

func (r *fakeReminder) Cancel(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelErr != nil {
		return r.cancelErr
	}
	delete(r.active, handle)
	r.cancelled = append(r.cancelled, handle)
	return nil
}

func (r *fakeReminder) get(handle string) (reminderCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.active[handle]
	return c, ok
}
