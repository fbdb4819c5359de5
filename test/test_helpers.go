package test

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"TripAtlas-App/internal/domain/repository"
	infraDatabase "TripAtlas-App/internal/infrastructure/database"
	repoimpl "TripAtlas-App/internal/repository"
)

// setupTestEnvironment .envを読み込む（無ければシステム環境変数をそのまま使う）
func setupTestEnvironment() {
	_ = godotenv.Load("../.env")
}

// requireEnv 指定の環境変数が無い場合はテストをスキップする
func requireEnv(t *testing.T, keys ...string) {
	t.Helper()
	setupTestEnvironment()
	for _, key := range keys {
		if os.Getenv(key) == "" {
			t.Skipf("⏭️  %s が設定されていないためスキップ", key)
		}
	}
}

// setupTestRouteLegsRepository レッグキャッシュリポジトリのセットアップを行う（リトライ付き）
func setupTestRouteLegsRepository(t *testing.T) (repository.RouteLegsRepository, func()) {
	t.Helper()
	requireEnv(t, "POSTGRES_URL")

	// 接続テストでは短いリトライ間隔を使用
	postgresClient, err := infraDatabase.NewPostgreSQLClientWithRetry(5, 1*time.Second)
	if err != nil {
		t.Fatalf("❌ PostgreSQLクライアントの初期化に失敗: %v", err)
	}

	cleanup := func() {
		postgresClient.Close()
	}

	return repoimpl.NewPostgresRouteLegsRepository(postgresClient), cleanup
}

// setupTestAttractionsRepository アトラクションリポジトリのセットアップを行う（リトライ付き）
func setupTestAttractionsRepository(t *testing.T) (repository.AttractionsRepository, func()) {
	t.Helper()
	requireEnv(t, "POSTGRES_URL")

	postgresClient, err := infraDatabase.NewPostgreSQLClientWithRetry(5, 1*time.Second)
	if err != nil {
		t.Fatalf("❌ PostgreSQLクライアントの初期化に失敗: %v", err)
	}

	cleanup := func() {
		postgresClient.Close()
	}

	return repoimpl.NewPostgresAttractionsRepository(postgresClient), cleanup
}

// mustEnvInt64 環境変数を int64 としてパースする
func mustEnvInt64(t *testing.T, key string) int64 {
	t.Helper()
	value, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		t.Fatalf("❌ %s のパースに失敗: %v", key, err)
	}
	return value
}
