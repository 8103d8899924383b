package main

import (
	"os"

	"github.com/capkit/capkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
