package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// APIKey — ключ интегрирующего приложения.
// Сам секрет не храним — только sha256-хэш (как и для device-секретов раньше).
type APIKey struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	KeyHash   []byte         `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Scopes    datatypes.JSON `gorm:"not null" json:"scopes"` // {"codes":["request","verify"],"plugin":["read"]}
	ExpiresAt *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	RevokedAt *time.Time     `gorm:"index" json:"revoked_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ScopeMap разбирает JSON-колонку прав в map ресурс → действия.
func (k *APIKey) ScopeMap() (map[string][]string, error) {
	out := map[string][]string{}
	if len(k.Scopes) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(k.Scopes, &out); err != nil {
		return nil, err
	}
	return out, nil
}
