package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rcliao/day-intake/internal/cli"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
