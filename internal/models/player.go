package models

import "time"

// Player — аккаунт игрока во внешнем сервисе (Mojang).
// Ключ — MCID: 32 hex-символа в нижнем регистре, без дефисов.
// Создаётся лениво при первом обращении и никогда не удаляется.
type Player struct {
	MCID      string    `gorm:"column:mcid;primaryKey;size:32" json:"mcid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
