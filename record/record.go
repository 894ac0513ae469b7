// Package record translates record indices into block/offset pairs and
// exposes key/value reads, writes, and swaps built on top of pool.Pool.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/YrnNana1/blocksort/pool"
)

// ErrNegativeIndex is returned for any record index r < 0.
var ErrNegativeIndex = fmt.Errorf("record: index must be non-negative")

// Accessor layers record-level operations on top of a block pool.
type Accessor struct {
	p *pool.Pool
}

// New wraps p in a record Accessor.
func New(p *pool.Pool) *Accessor {
	return &Accessor{p: p}
}

// Count returns the number of fixed-size records in the backing file.
func (a *Accessor) Count() int64 {
	return a.p.FileLength() / pool.BytesPerRecord
}

func locate(r int64) (blockID int64, offset int) {
	blockID = r / pool.RecordsPerBlock
	offset = int(r%pool.RecordsPerBlock) * pool.BytesPerRecord
	return blockID, offset
}

// Key returns the signed 16-bit key stored at record index r.
func (a *Accessor) Key(r int64) (int16, error) {
	if r < 0 {
		return 0, ErrNegativeIndex
	}

	blockID, offset := locate(r)
	b, err := a.p.GetBlock(blockID)
	if err != nil {
		return 0, err
	}

	return int16(binary.BigEndian.Uint16(b[offset : offset+pool.BytesInKey])), nil
}

// Value returns the signed 16-bit value stored at record index r.
func (a *Accessor) Value(r int64) (int16, error) {
	if r < 0 {
		return 0, ErrNegativeIndex
	}

	blockID, offset := locate(r)
	b, err := a.p.GetBlock(blockID)
	if err != nil {
		return 0, err
	}

	return int16(binary.BigEndian.Uint16(b[offset+pool.BytesInKey : offset+pool.BytesPerRecord])), nil
}

// SetRecord writes key and value at record index r and marks the block
// dirty.
func (a *Accessor) SetRecord(r int64, key, value int16) error {
	if r < 0 {
		return ErrNegativeIndex
	}

	blockID, offset := locate(r)
	b, err := a.p.GetBlock(blockID)
	if err != nil {
		return err
	}

	binary.BigEndian.PutUint16(b[offset:offset+pool.BytesInKey], uint16(key))
	binary.BigEndian.PutUint16(b[offset+pool.BytesInKey:offset+pool.BytesPerRecord], uint16(value))

	return a.p.MarkDirty(blockID)
}

// SwapRecords exchanges the records at indices i and j. It is a no-op if
// i == j. The same-block path performs exactly one block-level access; the
// cross-block path copies both records to stack-local temporaries before
// re-fetching and writing either block, so an eviction between the two
// fetches cannot corrupt the swap.
func (a *Accessor) SwapRecords(i, j int64) error {
	if i < 0 || j < 0 {
		return ErrNegativeIndex
	}
	if i == j {
		return nil
	}

	iBlock, iOff := locate(i)
	jBlock, jOff := locate(j)

	if iBlock == jBlock {
		b, err := a.p.GetBlock(iBlock)
		if err != nil {
			return err
		}

		var tmp [pool.BytesPerRecord]byte
		copy(tmp[:], b[iOff:iOff+pool.BytesPerRecord])
		copy(b[iOff:iOff+pool.BytesPerRecord], b[jOff:jOff+pool.BytesPerRecord])
		copy(b[jOff:jOff+pool.BytesPerRecord], tmp[:])

		return a.p.MarkDirty(iBlock)
	}

	bi, err := a.p.GetBlock(iBlock)
	if err != nil {
		return err
	}
	var iRec [pool.BytesPerRecord]byte
	copy(iRec[:], bi[iOff:iOff+pool.BytesPerRecord])

	bj, err := a.p.GetBlock(jBlock)
	if err != nil {
		return err
	}
	var jRec [pool.BytesPerRecord]byte
	copy(jRec[:], bj[jOff:jOff+pool.BytesPerRecord])

	// bj may have evicted bi; re-fetch before writing.
	bi, err = a.p.GetBlock(iBlock)
	if err != nil {
		return err
	}
	copy(bi[iOff:iOff+pool.BytesPerRecord], jRec[:])
	if err := a.p.MarkDirty(iBlock); err != nil {
		return err
	}

	bj, err = a.p.GetBlock(jBlock)
	if err != nil {
		return err
	}
	copy(bj[jOff:jOff+pool.BytesPerRecord], iRec[:])
	return a.p.MarkDirty(jBlock)
}
