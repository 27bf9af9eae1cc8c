package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

// lookupEnv 读取外部服务地址，未配置时跳过测试。
func lookupEnv(t *testing.T, key string) string {
	t.Helper()
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

func TestMongoStore(t *testing.T) {
	uri := lookupEnv(t, "MONGO_TEST_URI")
	runStoreSuite(t, func(t *testing.T) Store {
		ctx := context.Background()
		database := fmt.Sprintf("smartjournal_test_%d", time.Now().UnixNano())
		s, err := NewMongoStore(ctx, uri, database)
		if err != nil {
			t.Fatalf("connect mongo: %v", err)
		}
		t.Cleanup(func() {
			_ = s.users.Database().Drop(ctx)
			_ = s.Close(ctx)
		})
		return s
	})
}

func TestFirestoreStore(t *testing.T) {
	lookupEnv(t, "FIRESTORE_EMULATOR_HOST")
	runStoreSuite(t, func(t *testing.T) Store {
		ctx := context.Background()
		project := fmt.Sprintf("smartjournal-test-%d", time.Now().UnixNano())
		s, err := NewFirestoreStore(ctx, project)
		if err != nil {
			t.Fatalf("create firestore store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close(ctx) })
		return s
	})
}
