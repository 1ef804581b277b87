package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mcid/internal/models"
)

// общая тестовая база: in-memory sqlite, один коннект, чтобы
// все запросы видели одну и ту же БД
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Player{}, &models.APIKey{}, &models.VerificationCode{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreateKey(t *testing.T, db *gorm.DB, name string, scopes map[string][]string) (*models.APIKey, string) {
	t.Helper()
	k, secret, err := NewAPIKeyStore(db).Create(context.Background(), name, scopes, nil)
	if err != nil {
		t.Fatalf("create api key: %v", err)
	}
	return k, secret
}

func mustUpsertPlayer(t *testing.T, db *gorm.DB, mcid string) *models.Player {
	t.Helper()
	p, err := NewPlayerStore(db).Upsert(context.Background(), mcid)
	if err != nil {
		t.Fatalf("upsert player: %v", err)
	}
	return p
}
