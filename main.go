// Command blocksort sorts a fixed-record binary file through a
// block-cached, size-adaptive external sort.
//
// Usage: blocksort <data-file> <buffer-count> <stats-file>
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/YrnNana1/blocksort/pool"
	"github.com/YrnNana1/blocksort/sortdriver"
	"github.com/YrnNana1/blocksort/stats"
	"github.com/YrnNana1/blocksort/verify"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Println("Usage: blocksort <data-file> <buffer-count> <stats-file>")
		return
	}

	dataFile := os.Args[1]
	statsFile := os.Args[3]

	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Println("Error: Invalid number of buffers")
		return
	}
	if n < 1 || n > 20 {
		fmt.Println("Number of buffers must be between 1 and 20")
		return
	}

	if err := run(dataFile, n, statsFile); err != nil {
		fmt.Printf("Error: %s\n", err)
		return
	}
}

func run(dataFile string, buffers int, statsFile string) error {
	p, err := pool.Open(dataFile, buffers)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := sortdriver.New(p).Sort(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	sw, err := stats.Open(statsFile)
	if err != nil {
		return err
	}
	defer sw.Close()

	if err := sw.Write(stats.Entry{
		DataFile:   dataFile,
		CacheHits:  p.CacheHits,
		DiskReads:  p.DiskReads,
		DiskWrites: p.DiskWrites,
		SortTime:   elapsed,
	}); err != nil {
		return err
	}

	if err := verify.Check(dataFile); err != nil {
		fmt.Println("Error: File not sorted correctly")
		return nil
	}

	fmt.Println("File sorted successfully")
	return nil
}
