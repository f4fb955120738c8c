package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"thaifolio/internal/logger"
)

func main() {
	logger.Init(envOr("ENV", "cli"))
	defer logger.Sync()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
