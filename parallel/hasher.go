package parallel

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"sync"
)

// Hasher digests one uint16 outcome per sample. Outcomes may be put in any order,
// the digest only depends on the outcome stored at every position.
// Full blocks of 30 outcomes are streamed into sha256 as soon as they are complete.
type Hasher struct {
	mut  sync.Mutex
	sha  hash.Hash
	ate  int
	fill []uint8
	data [][64]byte
}

// NewUint16Hasher creates a hasher for n outcomes.
func NewUint16Hasher(n int) *Hasher {
	blocks := (29 + n) / 30
	return &Hasher{
		sha:  sha256.New(),
		fill: make([]uint8, blocks),
		data: make([][64]byte, blocks),
	}
}

// MustPutUint16 stores value at position n. Writing a position twice panics.
func (h *Hasher) MustPutUint16(n int, value uint16) {
	h.mut.Lock()
	defer h.mut.Unlock()

	block := n / 30
	if block < h.ate {
		panic("already consumed block")
	}
	position := n % 30

	var mark = binary.BigEndian.Uint32(h.data[block][:4])
	if mark&(1<<uint(position)) != 0 {
		panic("duplicate write")
	}
	binary.BigEndian.PutUint32(h.data[block][:4], mark|1<<uint(position))
	binary.LittleEndian.PutUint16(h.data[block][4+2*position:], value)
	h.fill[block]++

	for h.ready() {
		h.eat()
	}
}

func (h *Hasher) ready() bool {
	if h.ate >= len(h.data) {
		return false
	}
	if h.ate == len(h.data)-1 {
		return false
	}
	return h.fill[h.ate] == 30
}

func (h *Hasher) eat() {
	h.sha.Write(h.data[h.ate][4:])
	h.ate++
}

// Sum flushes the remaining blocks and returns the digest. Only the first call is meaningful.
func (h *Hasher) Sum() (ret [32]byte) {
	h.mut.Lock()
	defer h.mut.Unlock()
	for h.ate < len(h.data) {
		h.eat()
	}
	copy(ret[:], h.sha.Sum(nil))
	return
}
