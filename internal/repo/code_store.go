package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mcid/internal/models"
)

type CodeStore struct{ db *gorm.DB }

func NewCodeStore(db *gorm.DB) *CodeStore { return &CodeStore{db: db} }

// UpsertPending создаёт заявку на код для пары (ключ, игрок) или, если строка
// уже есть, сбрасывает code в NULL и обновляет expiration — один атомарный
// стейтмент на уникальном индексе uniq_app_player. Старый код после этого
// мгновенно перестаёт приниматься (FindActiveByCode его не найдёт).
func (s *CodeStore) UpsertPending(ctx context.Context, apiKeyID, mcid string, expiration time.Time) (*models.VerificationCode, error) {
	rec := models.VerificationCode{
		APIKeyID:   apiKeyID,
		PlayerMCID: mcid,
		Expiration: expiration,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "api_key_id"}, {Name: "player_mcid"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"code":       nil,
				"expiration": expiration,
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&rec).Error
	if err != nil {
		return nil, err
	}
	// перечитываем строку-победителя вне зависимости от исхода конфликта
	var out models.VerificationCode
	err = s.db.WithContext(ctx).
		Where("api_key_id = ? AND player_mcid = ?", apiKeyID, mcid).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindActiveByCode — свежайшая (по created_at) живая запись с точным
// совпадением кода, в пределах одного приложения. nil, nil если нет.
func (s *CodeStore) FindActiveByCode(ctx context.Context, apiKeyID, code string, now time.Time) (*models.VerificationCode, error) {
	var rec models.VerificationCode
	err := s.db.WithContext(ctx).
		Where("api_key_id = ? AND code = ? AND expiration >= ?", apiKeyID, code, now).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindActiveByPlayer — свежайшая живая запись игрока от любого приложения
// (плагин не привязан к конкретному интегратору).
func (s *CodeStore) FindActiveByPlayer(ctx context.Context, mcid string, now time.Time) (*models.VerificationCode, error) {
	var rec models.VerificationCode
	err := s.db.WithContext(ctx).
		Where("player_mcid = ? AND expiration >= ?", mcid, now).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteByCode — одноразовое погашение. Удаление скоупится на api_key_id:
// значения кодов глобально не уникальны, чужую запись с тем же кодом
// трогать нельзя.
func (s *CodeStore) DeleteByCode(ctx context.Context, apiKeyID, code string) error {
	return s.db.WithContext(ctx).
		Where("api_key_id = ? AND code = ?", apiKeyID, code).
		Delete(&models.VerificationCode{}).Error
}

// SetCodeIfPending проставляет код только если он ещё NULL.
// false — гонку выиграл другой poll, его значение уже в базе.
func (s *CodeStore) SetCodeIfPending(ctx context.Context, id uint, code string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.VerificationCode{}).
		Where("id = ? AND code IS NULL", id).
		Update("code", code)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Get — перечитать запись по id (после проигранной гонки SetCodeIfPending).
func (s *CodeStore) Get(ctx context.Context, id uint) (*models.VerificationCode, error) {
	var rec models.VerificationCode
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteExpired — фоновая уборка протухших записей. Читатели на неё не
// полагаются: каждый запрос сам фильтрует по expiration.
func (s *CodeStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expiration < ?", now).
		Delete(&models.VerificationCode{})
	return res.RowsAffected, res.Error
}
