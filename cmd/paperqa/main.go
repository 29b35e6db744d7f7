package main

import (
	"os"

	"github.com/joho/godotenv"

	"paperqa/internal/cli"
)

func main() {
	_ = godotenv.Load()
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
