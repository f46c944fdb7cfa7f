// cmd/prefabedit/main.go
//
// Entry point for the prefabedit CLI. The working directory at launch is
// the project: a .prefabedit/ state folder is created there and template
// assets are scanned relative to it.

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// A project-local .env may carry PREFABEDIT_SCRATCH; missing is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
