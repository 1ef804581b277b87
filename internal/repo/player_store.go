package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mcid/internal/models"
)

type PlayerStore struct{ db *gorm.DB }

func NewPlayerStore(db *gorm.DB) *PlayerStore { return &PlayerStore{db: db} }

// Upsert — идемпотентный find-or-create по MCID одним стейтментом
// (INSERT ... ON CONFLICT DO NOTHING), без read-then-write гонки.
func (s *PlayerStore) Upsert(ctx context.Context, mcid string) (*models.Player, error) {
	p := models.Player{MCID: mcid}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mcid"}},
			DoNothing: true,
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	// перечитываем: при конфликте Create не заполняет таймстемпы существующей строки
	var out models.Player
	if err := s.db.WithContext(ctx).Where("mcid = ?", mcid).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Get возвращает nil, nil если игрока нет (внешний lookup тут не делаем).
func (s *PlayerStore) Get(ctx context.Context, mcid string) (*models.Player, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("mcid = ?", mcid).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
