package main

import (
	"os"

	"github.com/gu1p/janela/cmd/janela/commands"
)

func main() {
	if err := commands.Root.Execute(); err != nil {
		os.Exit(1)
	}
}
