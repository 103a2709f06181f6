package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeeace/jeeace/internal/llm"
	"github.com/jeeace/jeeace/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		var shown []store.LLMRequestEvent
		for i := len(events) - 1; i >= 0 && len(shown) < limit; i-- {
			if purpose == "" || events[i].Purpose == purpose {
				shown = append(shown, events[i])
			}
		}
		if len(shown) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-12s  %-10s  %-28s  %-7s  %-7s  %-6s  %s\n",
			"ID", "Time", "Purpose", "Provider", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 108))
		for _, e := range shown {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + truncate(e.ErrorMessage, 40)
			}
			fmt.Printf("%-5d  %-19s  %-12s  %-10s  %-28s  %-7d  %-7d  %-6d  %s\n",
				e.ID,
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				e.Provider,
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		u := llm.SummarizeUsage(events)

		rule := strings.Repeat("─", 80)
		fmt.Println("Usage by purpose")
		fmt.Println(rule)
		fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Failed", "Input", "Output", "Avg Ms")
		fmt.Println(rule)
		var calls, in, out int
		for _, r := range u.ByPurpose {
			fmt.Printf("%-16s  %6d  %6d  %10d  %10d  %8d\n",
				r.Key, r.Calls, r.Failures, r.InputTokens, r.OutputTokens, r.AvgLatencyMs())
			calls += r.Calls
			in += r.InputTokens
			out += r.OutputTokens
		}
		fmt.Println(rule)
		fmt.Printf("%-16s  %6d  %6s  %10d  %10d\n", "TOTAL", calls, "", in, out)

		fmt.Println()
		fmt.Println("Estimated cost (USD)")
		fmt.Println(rule)
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
		fmt.Println(rule)
		for _, r := range u.ByModel {
			cost := "?"
			if p, ok := llm.PriceOf(r.Key); ok {
				cost = formatCost(p.Cost(r.InputTokens, r.OutputTokens))
			}
			fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
				truncate(r.Key, 32), r.Calls, r.InputTokens, r.OutputTokens, cost)
		}
		fmt.Println(rule)
		label := "TOTAL"
		if len(u.Unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(u.Cost))
		if len(u.Unpriced) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(u.Unpriced, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (question-gen, mcq-parse)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
