package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const firestoreUsersCollection = "users"

// FirestoreStore 以用户名作为文档 ID，日记与推荐通过 ArrayUnion 原子追加。
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a Firestore-backed store for the given project.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) userDoc(username string) (*firestore.DocumentRef, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if strings.Contains(username, "/") {
		return nil, fmt.Errorf("%w: %q contains '/'", ErrInvalidUsername, username)
	}
	return s.client.Collection(firestoreUsersCollection).Doc(username), nil
}

func (s *FirestoreStore) load(ctx context.Context, doc *firestore.DocumentRef) (*User, error) {
	snap, err := doc.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	var u User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if u.Username == "" {
		u.Username = doc.ID
	}
	for i := range u.Entries {
		u.Entries[i] = normalizeEntry(u.Entries[i])
	}
	for i := range u.SuggestedActivities {
		u.SuggestedActivities[i] = normalizeActivity(u.SuggestedActivities[i])
	}
	if u.Entries == nil {
		u.Entries = []JournalEntry{}
	}
	if u.SuggestedActivities == nil {
		u.SuggestedActivities = []SuggestedActivity{}
	}
	return &u, nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, username string) (*User, error) {
	doc, err := s.userDoc(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, doc)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("firestore GetUser: %w", err)
	}
	return u, err
}

func (s *FirestoreStore) arrayUnion(ctx context.Context, doc *firestore.DocumentRef, field string, value any) error {
	_, err := doc.Set(ctx, map[string]any{
		"username": doc.ID,
		field:      firestore.ArrayUnion(value),
	}, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) AppendJournalEntry(ctx context.Context, username string, entry JournalEntry) error {
	doc, err := s.userDoc(username)
	if err != nil {
		return err
	}
	entry, err = prepareEntry(entry)
	if err != nil {
		return err
	}
	if err := s.arrayUnion(ctx, doc, "entries", entry); err != nil {
		return fmt.Errorf("firestore AppendJournalEntry: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListJournalEntries(ctx context.Context, username string) ([]JournalEntry, error) {
	doc, err := s.userDoc(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, doc)
	if errors.Is(err, ErrUserNotFound) {
		return []JournalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore ListJournalEntries: %w", err)
	}
	return u.Entries, nil
}

func (s *FirestoreStore) AppendSuggestedActivity(ctx context.Context, username string, activity SuggestedActivity) error {
	doc, err := s.userDoc(username)
	if err != nil {
		return err
	}
	if err := s.arrayUnion(ctx, doc, "suggested_activities", prepareActivity(activity)); err != nil {
		return fmt.Errorf("firestore AppendSuggestedActivity: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListSuggestedActivities(ctx context.Context, username string, includeCompleted bool) ([]SuggestedActivity, error) {
	doc, err := s.userDoc(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, doc)
	if errors.Is(err, ErrUserNotFound) {
		return []SuggestedActivity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore ListSuggestedActivities: %w", err)
	}
	return filterActivities(u.SuggestedActivities, includeCompleted), nil
}

func (s *FirestoreStore) UpdateSuggestedActivity(ctx context.Context, username, activityID string, update ActivityUpdate) (bool, error) {
	doc, err := s.userDoc(username)
	if err != nil {
		return false, err
	}

	var found bool
	err = s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		found = false
		snap, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil
			}
			return err
		}
		var u User
		if err := snap.DataTo(&u); err != nil {
			return fmt.Errorf("decode user: %w", err)
		}
		idx := lastActivityIndex(u.SuggestedActivities, activityID)
		if idx < 0 {
			return nil
		}
		update.Apply(&u.SuggestedActivities[idx])
		found = true
		return tx.Update(doc, []firestore.Update{{Path: "suggested_activities", Value: u.SuggestedActivities}})
	})
	if err != nil {
		return false, fmt.Errorf("firestore UpdateSuggestedActivity: %w", err)
	}
	return found, nil
}

func (s *FirestoreStore) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	doc, err := s.userDoc(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, doc)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore GetTemplatePreferences: %w", err)
	}
	if len(u.TemplatePreferences) == 0 {
		return nil, nil
	}
	return u.TemplatePreferences, nil
}

func (s *FirestoreStore) SetTemplatePreferences(ctx context.Context, username string, templates []string) error {
	doc, err := s.userDoc(username)
	if err != nil {
		return err
	}
	_, err = doc.Set(ctx, map[string]any{
		"username":             doc.ID,
		"template_preferences": cleanTemplates(templates),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("firestore SetTemplatePreferences: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Close(context.Context) error {
	return s.client.Close()
}
