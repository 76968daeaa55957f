package main

import (
	"os"

	"github.com/pledgebook-dev/pledgebook/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
