package main

import (
	"os"

	"github.com/watzon/tock/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
