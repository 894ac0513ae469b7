// Command verify checks that a data file is sorted in ascending key order.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/YrnNana1/blocksort/verify"
)

func main() {
	data := flag.String("data", "", "path to the data file to verify")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: verify --data path")
		os.Exit(2)
	}

	if err := verify.Check(*data); err != nil {
		fmt.Println("Error: File not sorted correctly")
		os.Exit(1)
	}

	fmt.Println("OK")
}
