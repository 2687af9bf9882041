package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Cooldown is a keyed expiry row gating time-limited grants. It lives in
// the ledger store, not in process memory, so cooldowns survive restarts
// and stay consistent under concurrent commands.
type Cooldown struct {
	bun.BaseModel `bun:"table:cooldowns,alias:cd" bson:"-"`

	ID        int64     `bun:"id,pk,autoincrement" bson:"-"`
	UserID    string    `bun:"user_id,notnull" bson:"user_id"`
	Key       string    `bun:"key,notnull" bson:"key"`
	ExpiresAt time.Time `bun:"expires_at,notnull" bson:"expires_at"`

	UpdatedAt time.Time `bun:"updated_at,notnull" bson:"updated_at"`
}
