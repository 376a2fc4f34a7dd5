// lossylines - lossy UTF-8 line reader
//
// lossylines splits mostly-UTF-8 text into lines, replacing invalid byte
// sequences with U+FFFD instead of failing, and reports how much repair a
// set of files needed.
package main

import (
	"os"

	"github.com/ccollicutt/lossylines/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
