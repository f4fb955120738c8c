package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"thaifolio/internal/marketdata"
	"thaifolio/internal/markethours"
	"thaifolio/internal/report"
)

type refreshCmd struct {
	force      bool
	clearCache bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch live prices for every investment" }
func (*refreshCmd) Usage() string {
	return `folio refresh [-force] [-clear-cache]

  Updates investment prices from the market data backend. Skipped while
  both NYSE and SET are closed unless -force is given. -clear-cache drops
  cached quotes first and needs REDIS_URL.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "refresh even when markets are closed")
	f.BoolVar(&c.clearCache, "clear-cache", false, "drop cached quotes before refreshing")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	marketsOpen := c.force || markethours.IsOpen(time.Now())
	if !marketsOpen && !c.clearCache {
		fmt.Println("Markets are closed; use -force to refresh anyway")
		return subcommands.ExitSuccess
	}

	s, err := openSession(ctx, needs{market: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	if c.clearCache {
		cached, ok := s.gateway.(*marketdata.CachedGateway)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: no quote cache configured (set REDIS_URL)")
			return subcommands.ExitFailure
		}
		if err := cached.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing quote cache: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Quote cache cleared")
	}
	if !marketsOpen {
		fmt.Println("Markets are closed; use -force to refresh anyway")
		return subcommands.ExitSuccess
	}

	res, err := s.svc.Market.RefreshPrices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated %d of %d symbols in %s\n", res.Updated, res.Symbols, res.Duration.Round(time.Millisecond))
	return subcommands.ExitSuccess
}

type marketStatusCmd struct{}

func (*marketStatusCmd) Name() string     { return "market-status" }
func (*marketStatusCmd) Synopsis() string { return "show whether NYSE and SET are open" }
func (*marketStatusCmd) Usage() string {
	return `folio market-status
`
}

func (*marketStatusCmd) SetFlags(*flag.FlagSet) {}

func (*marketStatusCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	printMarkdown(report.MarketStatus(markethours.Check(time.Now())))
	return subcommands.ExitSuccess
}
