package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/fableforge/fable/cmd/cli/commands"
)

func main() {
	// Load .env file if present so FABLE_* env vars can come from it
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
