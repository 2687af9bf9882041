package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is one ledger row: the durable record of a user's star balance.
// It is created lazily on first interaction and its balance is only ever
// mutated through settlement deltas, never reset.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u" bson:"-"`

	ID      int64  `bun:"id,pk,autoincrement" bson:"-"`
	UserID  string `bun:"user_id,notnull,unique" bson:"_id"`
	Balance int64  `bun:"balance,notnull,default:0" bson:"balance"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" bson:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" bson:"updated_at"`
}
