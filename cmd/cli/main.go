package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/veya/analytics-dashboard/pkg/runtime/terminal"
)

func main() {
	// A missing .env file is fine; the environment may be set already.
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
