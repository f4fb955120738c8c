package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"thaifolio/internal/analysis"
	"thaifolio/internal/app"
	"thaifolio/internal/config"
	"thaifolio/internal/database"
	"thaifolio/internal/marketdata"
	"thaifolio/internal/services"
)

// register adds the folio subcommands to c.
func register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "portfolio")
	c.Register(&exportCmd{}, "portfolio")
	c.Register(&importCmd{}, "portfolio")
	c.Register(&consolidateCmd{}, "portfolio")

	c.Register(&refreshCmd{}, "market")
	c.Register(&marketStatusCmd{}, "market")

	c.Register(&analyzeCmd{}, "analysis")
}

// as a CLI the process is short lived, so global flags are fine.

var sqlitePath = flag.String("sqlite-path", "", "SQLite database file (overrides SQLITE_PATH)")

// cliActor tags activity log entries written from the terminal.
var cliActor = services.Actor{IPAddress: "cli"}

// session is an open database plus the services built on it.
type session struct {
	db           *database.Manager
	svc          *app.Services
	gateway      marketdata.Gateway
	closeGateway func()
}

// needs selects the optional collaborators a command uses.
type needs struct {
	market   bool
	analysis bool
}

func openSession(ctx context.Context, n needs) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if *sqlitePath != "" {
		cfg.SQLitePath = *sqlitePath
	}
	return openSessionWith(ctx, cfg, n)
}

func openSessionWith(ctx context.Context, cfg *config.Config, n needs) (*session, error) {
	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{db: db, closeGateway: func() {}}

	var (
		gateway  marketdata.Gateway
		analyzer analysis.Analyzer
	)
	if n.market {
		gateway, s.closeGateway = app.MarketGateway(ctx, cfg)
		s.gateway = gateway
	}
	if n.analysis {
		if analyzer, err = app.Analyzer(ctx, cfg); err != nil {
			s.close()
			return nil, err
		}
	}

	s.svc, err = app.NewServices(ctx, cfg, db.DB(), gateway, analyzer, nil)
	if err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// close saves pending changes and releases the database.
func (s *session) close() {
	if s.svc != nil {
		s.svc.Portfolio.Stop()
	}
	s.closeGateway()
	if err := s.db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing database: %v\n", err)
	}
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
