// Command reviewctl builds a review snapshot from flat files and prints or
// exports it without running the dashboard server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
