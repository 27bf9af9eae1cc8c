package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore 是进程内实现，不持久化，适用于开发与测试。
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) userLocked(username string) *User {
	u, ok := s.users[username]
	if !ok {
		u = &User{
			Username:            username,
			Entries:             []JournalEntry{},
			SuggestedActivities: []SuggestedActivity{},
		}
		s.users[username] = u
	}
	return u
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) AppendJournalEntry(_ context.Context, username string, entry JournalEntry) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	entry, err = prepareEntry(entry)
	if err != nil {
		return err
	}
	entry = cloneEntry(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userLocked(username)
	u.Entries = append(u.Entries, entry)
	return nil
}

func (s *MemoryStore) ListJournalEntries(_ context.Context, username string) ([]JournalEntry, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return []JournalEntry{}, nil
	}
	out := make([]JournalEntry, len(u.Entries))
	for i, e := range u.Entries {
		out[i] = cloneEntry(e)
	}
	return out, nil
}

func (s *MemoryStore) AppendSuggestedActivity(_ context.Context, username string, activity SuggestedActivity) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	activity = cloneActivity(prepareActivity(activity))

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userLocked(username)
	u.SuggestedActivities = append(u.SuggestedActivities, activity)
	return nil
}

func (s *MemoryStore) ListSuggestedActivities(_ context.Context, username string, includeCompleted bool) ([]SuggestedActivity, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok {
		return []SuggestedActivity{}, nil
	}
	out := filterActivities(u.SuggestedActivities, includeCompleted)
	for i := range out {
		out[i] = cloneActivity(out[i])
	}
	return out, nil
}

func (s *MemoryStore) UpdateSuggestedActivity(_ context.Context, username, activityID string, update ActivityUpdate) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return false, nil
	}
	idx := lastActivityIndex(u.SuggestedActivities, activityID)
	if idx < 0 {
		return false, nil
	}
	update.Apply(&u.SuggestedActivities[idx])
	return true, nil
}

func (s *MemoryStore) GetTemplatePreferences(_ context.Context, username string) ([]string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[username]
	if !ok || len(u.TemplatePreferences) == 0 {
		return nil, nil
	}
	return slices.Clone(u.TemplatePreferences), nil
}

func (s *MemoryStore) SetTemplatePreferences(_ context.Context, username string, templates []string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userLocked(username).TemplatePreferences = cleanTemplates(templates)
	return nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
