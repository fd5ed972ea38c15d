package main

import (
	"context"
	"os"

	"github.com/dukerupert/postmark-transport/internal/cli"
)

func run() error {
	return cli.NewRootCommand().ExecuteContext(context.Background())
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}
