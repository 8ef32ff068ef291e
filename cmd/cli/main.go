package main

import (
	"fmt"
	"os"

	"github.com/de-tools/port-atlas/pkg/runtime/terminal"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	loadEnv(logger)

	cli := terminal.NewCLI(terminal.Options{
		Logger: logger,
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadEnv(logger zerolog.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug().Err(err).Msg("no .env file loaded")
	}
}
