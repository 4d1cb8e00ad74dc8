// Command tiercache is an operator companion for the tiercache library:
// it benchmarks the cache and inspects or purges its on-disk records.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
