package main

import (
	"os"

	"github.com/bgdnvk/flowctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
