package lzp

import (
	"encoding/binary"

	"github.com/cockroachdb/swiss"
)

// maxTableHint caps the initial capacity requested for a context table.
const maxTableHint = 1 << 12

// contextTable maps an order-4 context to the latest position where it was
// seen. Position 0 is never stored (the first Order bytes have no context),
// so a zero value means "never seen".
type contextTable struct {
	m *swiss.Map[uint32, uint32]
}

// reset discards every entry. A table lives for one pass only.
func (t *contextTable) reset(sizeHint int) {
	t.m = swiss.New[uint32, uint32](min(sizeHint, maxTableHint))
}

// swap stores pos as the latest position of ctx and returns the previous one.
func (t *contextTable) swap(ctx uint32, pos int) int {
	prev, _ := t.m.Get(ctx)
	t.m.Put(ctx, uint32(pos))
	return int(prev)
}

// contextAt packs the Order bytes before pos into a big-endian key.
func contextAt(b []byte, pos int) uint32 {
	return binary.BigEndian.Uint32(b[pos-Order:])
}
