package canon

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// hasher is a small FNV-1a wrapper for building node colors. FNV matches
// the rest of the codebase's content hashing; colors only need to be
// stable within a process, not cryptographic.
type hasher struct {
	h hash.Hash64
}

func newHash() *hasher {
	return &hasher{h: fnv.New64a()}
}

func (hs *hasher) u64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	hs.h.Write(buf[:])
}

func (hs *hasher) str(s string) {
	hs.h.Write([]byte(s))
	hs.h.Write([]byte{0})
}

func (hs *hasher) sum() uint64 {
	return hs.h.Sum64()
}
