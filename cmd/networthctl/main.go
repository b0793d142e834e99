// Command networthctl runs maintenance tasks against the net worth database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/username/networth/backend/src/config"
	"github.com/username/networth/backend/src/logger"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	env := &cliEnv{
		out:            os.Stdout,
		currency:       config.Cfg.DefaultCurrency,
		valuationDelay: config.Cfg.ValuationDelay,
		valuationTTL:   config.Cfg.ValuationCacheTTL,
	}
	flag.StringVar(&env.dbPath, "db", config.Cfg.DatabasePath, "Path to the SQLite database.")

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
