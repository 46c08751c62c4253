package main

import (
	"os"

	"github.com/wonny/optlab/backend/cmd/optlab/commands"
)

// main is the entry point for the optlab CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/optlab [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
