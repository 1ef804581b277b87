package repo

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mcid/internal/auth"
	"mcid/internal/models"
)

type APIKeyStore struct{ db *gorm.DB }

func NewAPIKeyStore(db *gorm.DB) *APIKeyStore { return &APIKeyStore{db: db} }

func hashKey(presented string) []byte {
	h := sha256.Sum256([]byte(presented))
	return h[:]
}

// Create выпускает ключ: секрет отдаём один раз, в базе остаётся только хэш.
func (s *APIKeyStore) Create(ctx context.Context, name string, scopes map[string][]string, expiresAt *time.Time) (*models.APIKey, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	secret := "mcid_" + hex.EncodeToString(raw)

	scopesJSON, err := json.Marshal(scopes)
	if err != nil {
		return nil, "", err
	}

	k := models.APIKey{
		ID:        uuid.NewString(),
		Name:      name,
		KeyHash:   hashKey(secret),
		Scopes:    datatypes.JSON(scopesJSON),
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&k).Error; err != nil {
		return nil, "", err
	}
	return &k, secret, nil
}

// VerifyKey реализует auth.Verifier: хэш-lookup, затем проверки
// отзыва/срока/прав. Невалидный и бесправный ключ — разные ошибки.
func (s *APIKeyStore) VerifyKey(ctx context.Context, presented string, required auth.Permissions) (*models.APIKey, error) {
	var k models.APIKey
	err := s.db.WithContext(ctx).Where("key_hash = ?", hashKey(presented)).First(&k).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrInvalidKey
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if k.RevokedAt != nil {
		return nil, auth.ErrKeyForbidden
	}
	if k.ExpiresAt != nil && k.ExpiresAt.Before(now) {
		return nil, auth.ErrKeyForbidden
	}

	granted, err := k.ScopeMap()
	if err != nil {
		return nil, err
	}
	if !auth.Permissions(granted).Covers(required) {
		return nil, auth.ErrKeyForbidden
	}
	return &k, nil
}

// Revoke помечает ключ отозванным (каскадное удаление кодов остаётся
// за удалением строки, отзыв — мягкая операция).
func (s *APIKeyStore) Revoke(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("revoked_at", time.Now().UTC()).Error
}

// DeleteExpired — уборка истёкших ключей; коды удаляются каскадом.
func (s *APIKeyStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.APIKey{})
	return res.RowsAffected, res.Error
}
