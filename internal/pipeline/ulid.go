package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Dependency-free ULID generator: 26-character Crockford Base32 strings
// with a 48-bit millisecond timestamp prefix, monotonic within one ms.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a fresh ULID for job identification.
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
	// 48-bit timestamp, big-endian, in the first 6 bytes.
	for i := 0; i < 6; i++ {
		b[i] = byte(ts >> (40 - 8*i))
	}
	rand.Read(b[6:])
	// The sequence overwrites bytes 6-7 so same-ms IDs stay distinct.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeULID(b)
}

// encodeULID renders 128 bits as 26 Crockford Base32 characters. Groups
// are read most-significant first; the leading group holds only 3 bits.
func encodeULID(b [16]byte) string {
	var out [26]byte
	for i := range out {
		out[i] = crockford[base32Group(b, i)]
	}
	return string(out[:])
}

// base32Group extracts the i-th 5-bit group, counting from the most
// significant end of the value.
func base32Group(b [16]byte, i int) byte {
	low := 5 * (25 - i) // offset of the group's least significant bit
	var v byte
	for j := 0; j < 5; j++ {
		pos := low + j
		if pos > 127 {
			break
		}
		if b[15-pos/8]&(1<<(pos%8)) != 0 {
			v |= 1 << j
		}
	}
	return v
}
