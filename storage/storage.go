package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/redis/go-redis/v9"

	"studyplan-api/domain"
)

// Key names of the persisted collections. Each value is a JSON document or a
// plain string; a missing key reads back as an empty collection or zero value.
const (
	keyTasks     = "tasks"
	keyGoals     = "goals"
	keySessions  = "studySessions"
	keyStreak    = "studyStreak"
	keyLastStudy = "lastStudyDate"
	keyTheme     = "theme"
)

// Storage maps the named planner collections onto a key-value string store.
// Collections of different users live under separate key namespaces.
type Storage struct {
	client *redis.Client
}

// New creates a Storage backed by the given Redis client.
func New(client *redis.Client) *Storage {
	if client == nil {
		panic("storage.New: redis client is nil")
	}
	return &Storage{client: client}
}

// Ping verifies the backing store is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func storeKey(name, userID string) string {
	if userID == "" {
		return name
	}
	return name + ":" + userID
}

func (s *Storage) get(ctx context.Context, name, userID string) (string, bool, error) {
	val, err := s.client.Get(ctx, storeKey(name, userID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *Storage) set(ctx context.Context, name, userID, value string) error {
	return s.client.Set(ctx, storeKey(name, userID), value, 0).Err()
}

func loadCollection[T any](ctx context.Context, s *Storage, name, userID string) ([]T, error) {
	out := []T{}
	raw, ok, err := s.get(ctx, name, userID)
	if err != nil || !ok {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func saveCollection[T any](ctx context.Context, s *Storage, name, userID string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.set(ctx, name, userID, string(data))
}

// LoadTasks retrieves all tasks for the provided user.
func (s *Storage) LoadTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return loadCollection[domain.Task](ctx, s, keyTasks, userID)
}

// SaveTasks replaces the stored task collection for the provided user.
func (s *Storage) SaveTasks(ctx context.Context, userID string, tasks []domain.Task) error {
	return saveCollection(ctx, s, keyTasks, userID, tasks)
}

// LoadGoals retrieves all goals for the provided user.
func (s *Storage) LoadGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	return loadCollection[domain.Goal](ctx, s, keyGoals, userID)
}

// SaveGoals replaces the stored goal collection for the provided user.
func (s *Storage) SaveGoals(ctx context.Context, userID string, goals []domain.Goal) error {
	return saveCollection(ctx, s, keyGoals, userID, goals)
}

// LoadSessions retrieves all study sessions for the provided user.
func (s *Storage) LoadSessions(ctx context.Context, userID string) ([]domain.StudySession, error) {
	return loadCollection[domain.StudySession](ctx, s, keySessions, userID)
}

// SaveSessions replaces the stored study session collection for the provided user.
func (s *Storage) SaveSessions(ctx context.Context, userID string, sessions []domain.StudySession) error {
	return saveCollection(ctx, s, keySessions, userID, sessions)
}

// LoadStreak reads the streak counter and the last study date. Both keys are
// optional: the zero streak is returned before any activity was recorded.
func (s *Storage) LoadStreak(ctx context.Context, userID string) (domain.Streak, error) {
	var streak domain.Streak
	raw, ok, err := s.get(ctx, keyStreak, userID)
	if err != nil {
		return domain.Streak{}, err
	}
	if ok {
		days, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return domain.Streak{}, convErr
		}
		streak.Days = days
	}
	last, _, err := s.get(ctx, keyLastStudy, userID)
	if err != nil {
		return domain.Streak{}, err
	}
	streak.LastStudyDate = last
	return streak, nil
}

// SaveStreak persists the streak counter and the last study date.
func (s *Storage) SaveStreak(ctx context.Context, userID string, streak domain.Streak) error {
	if err := s.set(ctx, keyStreak, userID, strconv.Itoa(streak.Days)); err != nil {
		return err
	}
	return s.set(ctx, keyLastStudy, userID, streak.LastStudyDate)
}

// LoadTheme reads the persisted UI theme, defaulting to the light theme.
func (s *Storage) LoadTheme(ctx context.Context, userID string) (string, error) {
	theme, ok, err := s.get(ctx, keyTheme, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.ThemeLight, nil
	}
	return theme, nil
}

// SaveTheme persists the UI theme.
func (s *Storage) SaveTheme(ctx context.Context, userID, theme string) error {
	return s.set(ctx, keyTheme, userID, theme)
}
