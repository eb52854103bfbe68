package main

import (
	"os"

	"github.com/salesboard-dev/salesboard/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
