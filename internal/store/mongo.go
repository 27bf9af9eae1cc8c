package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoUsersCollection = "users"

// MongoStore 使用一个用户一个文档的结构，日记与推荐以数组形式内嵌，追加依赖 $push 的原子性。
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// NewMongoStore 连接 MongoDB 并确保 username 唯一索引存在。
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, errors.New("mongo uri is required")
	}
	if strings.TrimSpace(database) == "" {
		database = "smartJournal"
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	users := client.Database(database).Collection(mongoUsersCollection)
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create username index: %w", err)
	}

	return &MongoStore{client: client, users: users}, nil
}

func userFilter(username string) bson.M {
	return bson.M{"username": username}
}

// pushUpsert 追加元素，用户不存在时创建文档。
func (s *MongoStore) pushUpsert(ctx context.Context, username, field string, value any) error {
	update := bson.M{
		"$push": bson.M{field: value},
		"$setOnInsert": bson.M{
			"created_at": time.Now().UTC(),
		},
	}
	_, err := s.users.UpdateOne(ctx, userFilter(username), update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) load(ctx context.Context, username string, projection bson.M) (*User, error) {
	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	var doc User
	err := s.users.FindOne(ctx, userFilter(username), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	for i := range doc.Entries {
		doc.Entries[i] = normalizeEntry(doc.Entries[i])
	}
	for i := range doc.SuggestedActivities {
		doc.SuggestedActivities[i] = normalizeActivity(doc.SuggestedActivities[i])
	}
	if doc.Entries == nil {
		doc.Entries = []JournalEntry{}
	}
	if doc.SuggestedActivities == nil {
		doc.SuggestedActivities = []SuggestedActivity{}
	}
	return &doc, nil
}

func (s *MongoStore) GetUser(ctx context.Context, username string) (*User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, username, nil)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("mongo GetUser: %w", err)
	}
	return u, err
}

func (s *MongoStore) AppendJournalEntry(ctx context.Context, username string, entry JournalEntry) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	entry, err = prepareEntry(entry)
	if err != nil {
		return err
	}
	if err := s.pushUpsert(ctx, username, "entries", entry); err != nil {
		return fmt.Errorf("mongo AppendJournalEntry: %w", err)
	}
	return nil
}

func (s *MongoStore) ListJournalEntries(ctx context.Context, username string) ([]JournalEntry, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, username, bson.M{"entries": 1})
	if errors.Is(err, ErrUserNotFound) {
		return []JournalEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo ListJournalEntries: %w", err)
	}
	return u.Entries, nil
}

func (s *MongoStore) AppendSuggestedActivity(ctx context.Context, username string, activity SuggestedActivity) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	if err := s.pushUpsert(ctx, username, "suggested_activities", prepareActivity(activity)); err != nil {
		return fmt.Errorf("mongo AppendSuggestedActivity: %w", err)
	}
	return nil
}

func (s *MongoStore) ListSuggestedActivities(ctx context.Context, username string, includeCompleted bool) ([]SuggestedActivity, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, username, bson.M{"suggested_activities": 1})
	if errors.Is(err, ErrUserNotFound) {
		return []SuggestedActivity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo ListSuggestedActivities: %w", err)
	}
	return filterActivities(u.SuggestedActivities, includeCompleted), nil
}

// UpdateSuggestedActivity 按下标更新数组元素，过滤条件同时校验该下标的 activity_id，
// 并发追加只会在数组末尾增加元素，不影响已定位的下标。
func (s *MongoStore) UpdateSuggestedActivity(ctx context.Context, username, activityID string, update ActivityUpdate) (bool, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return false, err
	}
	u, err := s.load(ctx, username, bson.M{"suggested_activities": 1})
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mongo UpdateSuggestedActivity: %w", err)
	}

	idx := lastActivityIndex(u.SuggestedActivities, activityID)
	if idx < 0 {
		return false, nil
	}
	record := u.SuggestedActivities[idx]
	update.Apply(&record)

	prefix := fmt.Sprintf("suggested_activities.%d.", idx)
	set := bson.M{prefix + "completed": record.Completed}
	unset := bson.M{}
	if record.CompletedAt != nil {
		set[prefix+"completed_at"] = *record.CompletedAt
	} else {
		unset[prefix+"completed_at"] = ""
	}
	if record.UserRating != nil {
		set[prefix+"user_rating"] = *record.UserRating
	}
	if record.UserNotes != nil {
		set[prefix+"user_notes"] = *record.UserNotes
	}

	changes := bson.M{"$set": set}
	if len(unset) > 0 {
		changes["$unset"] = unset
	}
	filter := bson.M{"username": username, prefix + "activity_id": activityID}
	res, err := s.users.UpdateOne(ctx, filter, changes)
	if err != nil {
		return false, fmt.Errorf("mongo UpdateSuggestedActivity: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoStore) GetTemplatePreferences(ctx context.Context, username string) ([]string, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	u, err := s.load(ctx, username, bson.M{"template_preferences": 1})
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo GetTemplatePreferences: %w", err)
	}
	if len(u.TemplatePreferences) == 0 {
		return nil, nil
	}
	return u.TemplatePreferences, nil
}

func (s *MongoStore) SetTemplatePreferences(ctx context.Context, username string, templates []string) error {
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set":         bson.M{"template_preferences": cleanTemplates(templates)},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	if _, err := s.users.UpdateOne(ctx, userFilter(username), update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("mongo SetTemplatePreferences: %w", err)
	}
	return nil
}

// Ping implements Pinger.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// normalizeEntry 将驱动解码出的容器类型转换为普通 map 与 slice，时间统一为 UTC。
func normalizeEntry(e JournalEntry) JournalEntry {
	e.Classification = cloneMap(e.Classification)
	e.Timestamp = e.Timestamp.UTC()
	if e.WordFrequencies == nil {
		e.WordFrequencies = []WordFrequency{}
	}
	return e
}

func normalizeActivity(a SuggestedActivity) SuggestedActivity {
	a.SuggestedAt = a.SuggestedAt.UTC()
	if a.CompletedAt != nil {
		at := a.CompletedAt.UTC()
		a.CompletedAt = &at
	}
	if a.MoodBenefits == nil {
		a.MoodBenefits = []string{}
	}
	return a
}
