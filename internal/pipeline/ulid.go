package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so IDs sort by creation time.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a fresh ULID for a processing job.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in the first 6 bytes (big-endian 48-bit).
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// Random tail, with a sequence counter in bytes 6-7 so IDs minted
	// within the same millisecond stay unique and ordered.
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeCrockford(b)
}

// encodeCrockford packs 128 bits into 26 base32 digits. The first digit
// carries only 3 data bits, so the string is left-padded with zero bits.
func encodeCrockford(b [16]byte) string {
	var out [26]byte
	bitPos := -2
	for i := range out {
		v := 0
		for k := 0; k < 5; k++ {
			pos := bitPos + k
			v <<= 1
			if pos >= 0 && b[pos>>3]&(1<<(7-uint(pos&7))) != 0 {
				v |= 1
			}
		}
		out[i] = crockford[v]
		bitPos += 5
	}
	return string(out[:])
}
