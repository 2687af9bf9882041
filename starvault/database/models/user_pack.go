package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserPack is one owned, purchasable pack instance. Opening consumes it
// exactly once: the row is deleted in the same transaction that inserts
// the issued cards.
type UserPack struct {
	bun.BaseModel `bun:"table:user_packs,alias:up" bson:"-"`

	ID     int64  `bun:"id,pk,autoincrement" bson:"_id"`
	UserID string `bun:"user_id,notnull" bson:"user_id"`
	PackID int64  `bun:"pack_id,notnull" bson:"pack_id"`
	Name   string `bun:"name,notnull" bson:"name"`

	// PricePaid is captured at purchase so sell-back stays stable even
	// if the catalog price moves.
	PricePaid int64 `bun:"price_paid,notnull" bson:"price_paid"`
	Opened    bool  `bun:"opened,notnull,default:false" bson:"opened"`

	Purchased time.Time `bun:"purchased,notnull,default:current_timestamp" bson:"purchased"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" bson:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" bson:"updated_at"`
}
