package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserCard is one owned card instance. Stats and value are stored as
// resolved at issue time (variant applied); the value may be recomputed
// when the catalog changes, everything else is immutable until sale.
type UserCard struct {
	bun.BaseModel `bun:"table:user_cards,alias:uc" bson:"-"`

	ID      int64  `bun:"id,pk,autoincrement" bson:"_id"`
	UserID  string `bun:"user_id,notnull" bson:"user_id"`
	CardID  int64  `bun:"card_id,notnull" bson:"card_id"`
	Name    string `bun:"name,notnull" bson:"name"`
	Rarity  string `bun:"rarity,notnull" bson:"rarity"`
	Variant string `bun:"variant,notnull,default:'normal'" bson:"variant"`

	StatsOff int `bun:"stats_off,notnull" bson:"stats_off"`
	StatsDef int `bun:"stats_def,notnull" bson:"stats_def"`
	StatsAbl int `bun:"stats_abl,notnull" bson:"stats_abl"`
	StatsMch int `bun:"stats_mch,notnull" bson:"stats_mch"`

	Value    int64     `bun:"value,notnull" bson:"value"`
	Obtained time.Time `bun:"obtained,notnull,default:current_timestamp" bson:"obtained"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" bson:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" bson:"updated_at"`
}
