package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pastpapers/internal/llm"
	"github.com/abhisek/pastpapers/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM requests, token usage and cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate token usage per purpose and estimated cost per model",
	RunE:  runLLMStats,
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "",
		"Only show one purpose ("+llm.PurposeQuestionGen+", "+llm.PurposeMarking+" or "+llm.PurposeWarmup+")")
	llmListCmd.Flags().Bool("failed", false, "Only show failed requests")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

func runLLMList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	failedOnly, _ := cmd.Flags().GetBool("failed")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: limit, Purpose: purpose})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	if len(events) == 0 {
		fmt.Println("No LLM requests logged yet.")
		return nil
	}

	const row = "%-6s  %-16s  %-14s  %-28s  %7s  %7s  %7s  %s"
	fmt.Println(headingStyle.Render(fmt.Sprintf(row, "ID", "When", "Purpose", "Model", "In", "Out", "Ms", "OK")))
	fmt.Println(rule(104))
	for _, e := range events {
		if failedOnly && e.Success {
			continue
		}
		fmt.Printf(row+"\n",
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Local().Format("Jan 02 15:04:05"),
			e.Purpose,
			truncate(e.Model, 28),
			strconv.Itoa(e.InputTokens),
			strconv.Itoa(e.OutputTokens),
			strconv.FormatInt(e.LatencyMs, 10),
			outcome(e),
		)
	}
	return nil
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID %q: %w", args[0], err)
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no LLM request with ID %d", id)
	}
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}

	fields := [][2]string{
		{"ID", strconv.FormatInt(e.ID, 10)},
		{"Time", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", mark(e.Success)},
	}
	if e.ErrorKind != "" {
		fields = append(fields, [2]string{"Kind", e.ErrorKind})
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", failStyle.Render(e.ErrorMessage)})
	}
	for _, f := range fields {
		fmt.Printf("%s %s\n", dimStyle.Render(fmt.Sprintf("%-9s", f[0]+":")), f[1])
	}

	printBody("Request", e.RequestBody)
	printBody("Response", e.ResponseBody)
	return nil
}

// printBody prints a captured payload, indenting it when it is JSON.
func printBody(title, body string) {
	fmt.Println()
	fmt.Println(headingStyle.Render(title))
	fmt.Println(rule(60))
	if body == "" {
		fmt.Println(dimStyle.Render("(not captured)"))
		return
	}
	var v any
	if json.Unmarshal([]byte(body), &v) == nil {
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			body = string(pretty)
		}
	}
	fmt.Println(body)
}

func runLLMStats(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(byPurpose) == 0 {
		fmt.Println("No LLM usage recorded yet.")
		return nil
	}

	const purposeRow = "%-16s  %6d  %6d  %10d  %10d  %8d\n"
	fmt.Println(headingStyle.Render("Usage by purpose"))
	fmt.Printf("%-16s  %6s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Failed", "Input", "Output", "Avg ms")
	fmt.Println(rule(64))
	var sum store.LLMUsageStats
	for _, st := range byPurpose {
		fmt.Printf(purposeRow, st.Purpose, st.Calls, st.Failures, st.InputTokens, st.OutputTokens, st.AvgLatencyMs)
		sum.Calls += st.Calls
		sum.Failures += st.Failures
		sum.InputTokens += st.InputTokens
		sum.OutputTokens += st.OutputTokens
	}
	fmt.Println(rule(64))
	fmt.Printf("%-16s  %6d  %6d  %10d  %10d\n", "TOTAL", sum.Calls, sum.Failures, sum.InputTokens, sum.OutputTokens)

	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}

	fmt.Println()
	fmt.Println(headingStyle.Render("Estimated cost (USD)"))
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(rule(75))
	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := "?"
		if price := llm.LookupCost(mu.Model); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n", truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}
	fmt.Println(rule(75))

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (priced models only)"
	}
	fmt.Printf("%-64s  %9s\n", label, formatCost(total))
	if len(unpriced) > 0 {
		fmt.Println(dimStyle.Render("No pricing for: " + strings.Join(unpriced, ", ")))
	}
	return nil
}

// outcome is the OK column: a tick, or a cross with the failure kind.
func outcome(e store.LLMRequestEvent) string {
	if e.Success || e.ErrorKind == "" {
		return mark(e.Success)
	}
	return mark(false) + " " + dimStyle.Render(e.ErrorKind)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
