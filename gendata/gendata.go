// Package gendata generates data files in the fixed-record format the sort
// driver consumes: a flat sequence of 4-byte (big-endian int16 key, int16
// value) records, with no header or padding.
package gendata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/natefinch/atomic"

	"github.com/YrnNana1/blocksort/pool"
)

// Generate returns count fixed-format records with keys and values drawn
// uniformly from the signed 16-bit domain, using rnd for randomness.
func Generate(count int, rnd *rand.Rand) []byte {
	buf := make([]byte, count*pool.BytesPerRecord)
	for i := 0; i < count; i++ {
		key := int16(rnd.Intn(1<<16) - 1<<15)
		value := int16(rnd.Intn(1<<16) - 1<<15)

		off := i * pool.BytesPerRecord
		binary.BigEndian.PutUint16(buf[off:], uint16(key))
		binary.BigEndian.PutUint16(buf[off+pool.BytesInKey:], uint16(value))
	}
	return buf
}

// WriteFile generates count records seeded from seed and atomically writes
// them to path. A killed generator can never leave a half-written data file
// behind for the sort driver to choke on.
func WriteFile(path string, count int, seed int64) error {
	if count < 0 {
		return fmt.Errorf("gendata: count must be non-negative, got %d", count)
	}

	data := Generate(count, rand.New(rand.NewSource(seed)))
	return atomic.WriteFile(path, bytes.NewReader(data))
}
