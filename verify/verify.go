// Package verify checks that a sort actually sorted a data file, and,
// given a pre-sort snapshot, that it preserved the exact multiset of
// records.
package verify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/YrnNana1/blocksort/internal/ordermap"
	"github.com/YrnNana1/blocksort/pool"
)

// ErrNotSorted is returned by Check when the file is not in ascending key
// order.
var ErrNotSorted = errors.New("verify: file not sorted correctly")

// ErrNotPreserved is returned by CheckPreserved when the post-sort file does
// not contain exactly the same multiset of records as the pre-sort file.
var ErrNotPreserved = errors.New("verify: record multiset changed during sort")

// Check reads path record by record and confirms key(i) <= key(i+1) for
// every adjacent pair. It does not allocate the whole file in memory.
func Check(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("verify: open %s: %w", path, err)
	}
	defer f.Close()

	var buf [pool.BytesPerRecord]byte
	havePrev := false
	var prevKey int16

	for {
		_, err := io.ReadFull(f, buf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("verify: read %s: %w", path, err)
		}

		key := int16(uint16(buf[0])<<8 | uint16(buf[1]))
		if havePrev && prevKey > key {
			return ErrNotSorted
		}
		prevKey = key
		havePrev = true
	}

	return nil
}

// CheckPreserved confirms that afterPath contains exactly the same multiset
// of (key, value) records as beforePath, in any order.
//
// It first builds a bloom filter over every (key,value) pair in beforePath
// and tests every pair in afterPath against it: any miss there is a
// definitive proof of a changed record, returned immediately without paying
// for the exact check. The bloom filter alone cannot prove preservation
// (false positives), so CheckPreserved always follows up with an exact
// key->count comparison built on an ordermap.Multiset before returning nil.
func CheckPreserved(beforePath, afterPath string) error {
	before, err := readAllPairs(beforePath)
	if err != nil {
		return err
	}
	after, err := readAllPairs(afterPath)
	if err != nil {
		return err
	}

	if len(before) != len(after) {
		return fmt.Errorf("%w: %d records before, %d after", ErrNotPreserved, len(before), len(after))
	}

	filter := bloom.NewWithEstimates(uint(max(len(before), 1)), 0.01)
	for _, p := range before {
		filter.Add(pairBytes(p))
	}
	for _, p := range after {
		if !filter.Test(pairBytes(p)) {
			return fmt.Errorf("%w: record %v present after sort but never seen before", ErrNotPreserved, p)
		}
	}

	beforeCounts := ordermap.NewMultiset()
	for _, p := range before {
		beforeCounts.Inc(encodePair(p))
	}

	afterCounts := ordermap.NewMultiset()
	for _, p := range after {
		afterCounts.Inc(encodePair(p))
	}

	for rec := range beforeCounts.Iterator() {
		got := afterCounts.Count(rec.Key)
		if got != rec.Count {
			p := decodePair(rec.Key)
			return fmt.Errorf("%w: (key=%d,value=%d) appears %d times before, %d after",
				ErrNotPreserved, p.key, p.value, rec.Count, got)
		}
	}
	for rec := range afterCounts.Iterator() {
		if beforeCounts.Count(rec.Key) == 0 {
			p := decodePair(rec.Key)
			return fmt.Errorf("%w: (key=%d,value=%d) appears only after sort",
				ErrNotPreserved, p.key, p.value)
		}
	}

	return nil
}

type pair struct {
	key, value int16
}

// encodePair packs a record into a single int32 so it can key an
// ordermap.Multiset. The packing need only be injective, not numerically
// meaningful: it exists purely to give every distinct (key, value) pair its
// own multiset counter.
func encodePair(p pair) int32 {
	return int32(uint16(p.key))<<16 | int32(uint16(p.value))
}

func decodePair(k int32) pair {
	return pair{
		key:   int16(uint16(k >> 16)),
		value: int16(uint16(k)),
	}
}

func pairBytes(p pair) []byte {
	var b [pool.BytesPerRecord]byte
	b[0] = byte(p.key >> 8)
	b[1] = byte(p.key)
	b[2] = byte(p.value >> 8)
	b[3] = byte(p.value)
	return b[:]
}

func readAllPairs(path string) ([]pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("verify: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("verify: stat %s: %w", path, err)
	}

	n := info.Size() / pool.BytesPerRecord
	out := make([]pair, 0, n)

	var buf [pool.BytesPerRecord]byte
	for {
		_, err := io.ReadFull(f, buf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("verify: read %s: %w", path, err)
		}

		out = append(out, pair{
			key:   int16(uint16(buf[0])<<8 | uint16(buf[1])),
			value: int16(uint16(buf[2])<<8 | uint16(buf[3])),
		})
	}
	return out, nil
}
