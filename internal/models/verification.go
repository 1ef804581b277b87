package models

import "time"

// VerificationCode — связка (приложение, игрок) → одноразовый 6-значный код.
// Code == nil, пока плагин ни разу не запросил код (ленивая генерация).
// Уникальный индекс на пару (api_key_id, player_mcid): на пару существует
// не больше одной записи, повторный запрос перезаписывает её через upsert.
type VerificationCode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       *string   `gorm:"size:6;index:idx_app_code,priority:2" json:"-"`
	Expiration time.Time `gorm:"not null;index" json:"expiration"`

	PlayerMCID string `gorm:"column:player_mcid;size:32;not null;uniqueIndex:uniq_app_player,priority:2" json:"player_mcid"`
	Player     Player `gorm:"foreignKey:PlayerMCID;references:MCID" json:"-"`

	APIKeyID string `gorm:"size:36;not null;uniqueIndex:uniq_app_player,priority:1;index:idx_app_code,priority:1" json:"api_key_id"`
	APIKey   APIKey `gorm:"foreignKey:APIKeyID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pending — код ещё не сгенерирован (заявка есть, показывать нечего).
func (v *VerificationCode) Pending() bool { return v.Code == nil }

// Active — срок записи ещё не вышел. Сравнение включительное:
// expiration == now считается живым.
func (v *VerificationCode) Active(now time.Time) bool { return !v.Expiration.Before(now) }
