package db

import (
	"testing"

	"gamecompare/internal/config"
)

func TestOpen_SQLiteMigrate(t *testing.T) {
	conn, err := Open(config.DBConfig{Driver: "sqlite", DSN: "file::memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer Close(conn)
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Ping(conn); err != nil {
		t.Fatalf("ping: %v", err)
	}
	for _, table := range []string{"games", "game_platforms", "price_history", "sync_logs", "comparison_cache", "popular_searches", "user_library", "tracked_games"} {
		if !conn.Gorm.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	if err := SetTimezone(conn, "UTC"); err != nil {
		t.Fatalf("timezone on sqlite should be a no-op: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error")
	}
}
