// Package sortdriver implements the size-adaptive sort: a small in-memory
// sort, a recursive merge sort, and a chunked merge sort for files whose
// working set would thrash the buffer pool, all built on record.Accessor.
package sortdriver

import (
	"sort"

	"github.com/YrnNana1/blocksort/pool"
	"github.com/YrnNana1/blocksort/record"
)

const (
	smallThreshold  = 5000
	mediumThreshold = 50000
	largeChunk      = 10000

	insertionSortThreshold = 32
)

// entry is an in-memory (key, value) pair used by the small strategy and as
// the merge temporaries for the medium/large strategies.
type entry struct {
	key   int16
	value int16
}

// Driver runs the adaptive sort against a pool-backed record file.
type Driver struct {
	acc *record.Accessor
	p   *pool.Pool
}

// New returns a Driver over p.
func New(p *pool.Pool) *Driver {
	return &Driver{acc: record.New(p), p: p}
}

// Sort sorts every record in the file by key, then flushes and closes the
// pool. It is the only entry point external callers need.
func (d *Driver) Sort() error {
	n := d.acc.Count()

	if n > 1 {
		switch {
		case n <= smallThreshold:
			if err := d.sortSmall(n); err != nil {
				return err
			}
		case n <= mediumThreshold:
			if err := d.mergeSort(0, n-1); err != nil {
				return err
			}
		default:
			if err := d.sortLarge(n); err != nil {
				return err
			}
		}
	}

	if err := d.p.FlushAll(); err != nil {
		return err
	}
	return d.p.Close()
}

// sortSmall loads every record into a contiguous array, sorts it with an
// optimal comparison sort, and writes it back in order.
func (d *Driver) sortSmall(n int64) error {
	entries := make([]entry, n)
	for i := int64(0); i < n; i++ {
		k, err := d.acc.Key(i)
		if err != nil {
			return err
		}
		v, err := d.acc.Value(i)
		if err != nil {
			return err
		}
		entries[i] = entry{k, v}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	for i, e := range entries {
		if err := d.acc.SetRecord(int64(i), e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

// mergeSort recursively sorts the closed range [lo, hi] of record indices.
func (d *Driver) mergeSort(lo, hi int64) error {
	if hi-lo <= insertionSortThreshold {
		return d.insertionSort(lo, hi)
	}

	mid := lo + (hi-lo)/2
	if err := d.mergeSort(lo, mid); err != nil {
		return err
	}
	if err := d.mergeSort(mid+1, hi); err != nil {
		return err
	}

	midKey, err := d.acc.Key(mid)
	if err != nil {
		return err
	}
	nextKey, err := d.acc.Key(mid + 1)
	if err != nil {
		return err
	}
	if midKey <= nextKey {
		return nil
	}

	return d.merge(lo, mid, hi)
}

// merge materializes [lo, mid] and [mid+1, hi] into temporary arrays and
// writes the merged output back through the record accessor.
func (d *Driver) merge(lo, mid, hi int64) error {
	left, err := d.loadRange(lo, mid)
	if err != nil {
		return err
	}
	right, err := d.loadRange(mid+1, hi)
	if err != nil {
		return err
	}

	i, j := 0, 0
	out := lo
	for i < len(left) && j < len(right) {
		if left[i].key <= right[j].key {
			if err := d.acc.SetRecord(out, left[i].key, left[i].value); err != nil {
				return err
			}
			i++
		} else {
			if err := d.acc.SetRecord(out, right[j].key, right[j].value); err != nil {
				return err
			}
			j++
		}
		out++
	}
	for ; i < len(left); i++ {
		if err := d.acc.SetRecord(out, left[i].key, left[i].value); err != nil {
			return err
		}
		out++
	}
	for ; j < len(right); j++ {
		if err := d.acc.SetRecord(out, right[j].key, right[j].value); err != nil {
			return err
		}
		out++
	}
	return nil
}

func (d *Driver) loadRange(lo, hi int64) ([]entry, error) {
	out := make([]entry, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		k, err := d.acc.Key(i)
		if err != nil {
			return nil, err
		}
		v, err := d.acc.Value(i)
		if err != nil {
			return nil, err
		}
		out = append(out, entry{k, v})
	}
	return out, nil
}

// insertionSort sorts [lo, hi] in place through the record accessor.
func (d *Driver) insertionSort(lo, hi int64) error {
	for i := lo + 1; i <= hi; i++ {
		heldKey, err := d.acc.Key(i)
		if err != nil {
			return err
		}
		heldValue, err := d.acc.Value(i)
		if err != nil {
			return err
		}

		j := i - 1
		for j >= lo {
			k, err := d.acc.Key(j)
			if err != nil {
				return err
			}
			if k <= heldKey {
				break
			}
			v, err := d.acc.Value(j)
			if err != nil {
				return err
			}
			if err := d.acc.SetRecord(j+1, k, v); err != nil {
				return err
			}
			j--
		}

		if j+1 != i {
			if err := d.acc.SetRecord(j+1, heldKey, heldValue); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortLarge partitions [0, n-1] into ceil(n/largeChunk) chunks, sorts each
// with mergeSort, then repeatedly merges adjacent chunk pairs with a
// geometrically growing effective chunk size until one chunk remains. This
// bounds each merge's working set to the current chunk size instead of the
// whole file.
func (d *Driver) sortLarge(n int64) error {
	numChunks := (n + largeChunk - 1) / largeChunk

	for c := int64(0); c < numChunks; c++ {
		start := c * largeChunk
		end := start + largeChunk - 1
		if end > n-1 {
			end = n - 1
		}
		if start < end {
			if err := d.mergeSort(start, end); err != nil {
				return err
			}
		}
	}

	chunkCount := numChunks
	chunkSize := int64(largeChunk)

	for chunkCount > 1 {
		pairs := chunkCount / 2
		for i := int64(0); i < pairs; i++ {
			start := i * 2 * chunkSize
			mid := start + chunkSize - 1
			if mid > n-1 {
				mid = n - 1
			}
			end := mid + chunkSize
			if end > n-1 {
				end = n - 1
			}
			if mid < end {
				if err := d.merge(start, mid, end); err != nil {
					return err
				}
			}
		}

		chunkCount = (chunkCount + 1) / 2
		chunkSize *= 2
	}

	return nil
}
