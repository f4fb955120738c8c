package analysis

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const advisorInstruction = "You are an expert financial advisor using Warren Buffett and Ray Dalio principles. You strictly output Markdown tables for data comparisons."

const newsInstruction = "You are a market analyst. Summarise news concisely in Markdown and flag what matters for a long-term investor."

const chatInstruction = "You are a helpful financial assistant for a Thai investor holding THB and USD assets. Answer in Markdown."

func languageLine(lang string) string {
	if lang == "" || lang == "en" {
		return ""
	}
	return fmt.Sprintf("\nRespond in the language with code %q.", lang)
}

func portfolioPrompt(req PortfolioRequest) string {
	mode := req.Mode
	if _, ok := strategies[mode]; !ok {
		mode = DefaultMode
	}

	var b strings.Builder
	total := decimal.Zero
	for _, item := range req.Portfolio {
		total = total.Add(item.Value)
		fmt.Fprintf(&b, "- %s (%s): %s shares @ $%s (Total: $%s). Sector: %s, Industry: %s\n",
			item.Symbol, item.Name, item.Quantity.String(), item.CurrentPrice.StringFixed(2),
			item.Value.StringFixed(2), orUnknown(item.Sector), orUnknown(item.Industry))
	}

	return fmt.Sprintf("Analyze this investment portfolio (Total Value: $%s) based on the '%s' strategy:\n"+
		"Strategy Goal: %s\n\n%s\n"+
		"Please provide a comprehensive financial analysis covering:\n"+
		"1. **Diversification & Risk Assessment**\n"+
		"2. **Performance Measurement**\n"+
		"3. **Correlation Analysis**\n"+
		"4. **Attribution Analysis**\n"+
		"5. **Stress Testing & Scenario Analysis**\n"+
		"6. **Rebalancing Analysis**\n\n"+
		"Use Markdown tables for any structured data.%s",
		total.StringFixed(2), mode, mode.Strategy(), b.String(), languageLine(req.Language))
}

func newsPrompt(req NewsRequest) string {
	var b strings.Builder
	for i, n := range req.News {
		fmt.Fprintf(&b, "%d. %s (%s)", i+1, n.Title, orUnknown(n.Publisher))
		if n.Summary != "" {
			fmt.Fprintf(&b, ": %s", n.Summary)
		}
		b.WriteString("\n")
	}
	return fmt.Sprintf("Summarise the overall market sentiment from these headlines, "+
		"list the key themes and the sectors most affected:\n\n%s%s", b.String(), languageLine(req.Language))
}

func articlePrompt(req ArticleRequest) string {
	a := req.Article
	return fmt.Sprintf("Analyse this article for an investor.\nTitle: %s\nPublisher: %s\nLink: %s\nSummary: %s\n\n"+
		"Explain what happened, why it matters and which assets could be affected.%s",
		a.Title, orUnknown(a.Publisher), a.Link, a.Summary, languageLine(req.Language))
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
