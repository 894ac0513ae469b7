// Command gen writes a random fixed-record data file for exercising the
// sort driver.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/YrnNana1/blocksort/gendata"
)

func main() {
	records := flag.Int("records", 0, "number of records to generate")
	out := flag.String("out", "", "path to write the data file")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" || *records <= 0 {
		fmt.Fprintln(os.Stderr, "Usage: gen --records N --out path [--seed N]")
		os.Exit(2)
	}

	if err := gendata.WriteFile(*out, *records, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
