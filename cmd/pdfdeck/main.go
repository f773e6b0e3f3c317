package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/blumekt/pdfdeck/internal/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional .env for PDFDECK_* overrides; absence is fine.
	_ = godotenv.Load()

	if err := cmd.Execute(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
