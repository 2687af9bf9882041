package ledger

import (
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// idGen hands out snowflake ids for adapters without server-side id
// assignment. The low bits carry a process-local sequence so ids minted
// within the same millisecond stay distinct.
type idGen struct {
	seq atomic.Uint64
}

func (g *idGen) next() int64 {
	base := uint64(snowflake.New(time.Now()))
	return int64(base | (g.seq.Add(1) & 0x3FFFFF))
}
