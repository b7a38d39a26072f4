package world

import "sync/atomic"

// IDGenerator generates unique player IDs for connected clients and stand-in actors.
//
// ID ranges (convention):
//
//	0:                  invalid
//	1 - 0x3FFFFFFF:     connected players
//	0x40000000 - ...:   server-side stand-in actors
type IDGenerator struct {
	nextPlayerID atomic.Int32
	nextFakeID   atomic.Int32
}

const fakeIDBase int32 = 0x40000000

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	gen := &IDGenerator{}
	gen.nextFakeID.Store(fakeIDBase)
	return gen
}

// NextPlayerID generates the next connected player ID.
func (g *IDGenerator) NextPlayerID() int32 {
	return g.nextPlayerID.Add(1)
}

// NextFakeID generates the next stand-in actor ID.
func (g *IDGenerator) NextFakeID() int32 {
	return g.nextFakeID.Add(1)
}

// IsFakeID reports whether id belongs to the stand-in actor range.
func IsFakeID(id int32) bool {
	return id > fakeIDBase
}
