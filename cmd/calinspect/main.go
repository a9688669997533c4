// Command calinspect dumps the blocks recognized in a .cal file. Useful to
// check what the parser sees before running the full estimation.
package main

import (
	"flag"
	"fmt"
	"os"

	"cal2gutenprint/internal/calfile"
)

func main() {
	rows := flag.Int("rows", 5, "Number of leading data rows to print per block")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: calinspect [-rows n] <file.cal>")
		os.Exit(1)
	}
	path := flag.Arg(0)

	f, err := calfile.ParseFile(path, calfile.DefaultBlockPatterns())
	if err != nil {
		fmt.Fprintf(os.Stderr, "calinspect: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s ===\n", path)
	if f.SkippedRows > 0 {
		fmt.Printf("Skipped %d malformed row(s)\n", f.SkippedRows)
	}
	dumpTable("Device calibration curves", f.Curves, *rows)
	dumpTable("Expected DE response", f.DEResponse, *rows)
}

func dumpTable(name string, t calfile.Table, rows int) {
	fmt.Printf("\n%s: %d sample(s)\n", name, len(t))
	if t.Empty() {
		return
	}

	fmt.Printf("%8s", "input")
	for _, ch := range calfile.Channels {
		fmt.Printf(" %8s", ch)
	}
	fmt.Println()

	for i, row := range t {
		if i >= rows {
			fmt.Printf("  ... %d more\n", len(t)-rows)
			break
		}
		for _, v := range row {
			fmt.Printf(" %8.5f", v)
		}
		fmt.Println()
	}
}
