package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"thaifolio/internal/analysis"
)

type analyzeCmd struct {
	mode     string
	language string
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "ask the AI analyst to review the portfolio" }
func (*analyzeCmd) Usage() string {
	names := make([]string, 0, len(analysis.Modes()))
	for _, m := range analysis.Modes() {
		names = append(names, string(m))
	}
	return `folio analyze [-mode <strategy>] [-lang <language>]

  Reviews the investments against a strategy: ` + strings.Join(names, ", ") + `.
  Defaults to the last strategy used.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "mode", "", "analysis strategy")
	f.StringVar(&c.language, "lang", "en", "response language")
}

func (c *analyzeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.mode != "" {
		if _, ok := analysis.ParseMode(c.mode); !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown strategy %q\n", c.mode)
			return subcommands.ExitUsageError
		}
	}

	s, err := openSession(ctx, needs{analysis: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.close()

	text, err := s.svc.Analysis.AnalyzePortfolio(ctx, c.mode, c.language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(text)
	return subcommands.ExitSuccess
}
