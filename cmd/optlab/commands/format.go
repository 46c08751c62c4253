package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// RunMetadata describes one run in the report header
type RunMetadata struct {
	Title      string
	RunID      string
	Ticker     string
	Period     *Period // Optional
	ConfigHash string
}

// Period represents a date range
type Period struct {
	StartDate string
	EndDate   string
}

// PrintRunHeader prints a formatted run header
func PrintRunHeader(meta RunMetadata) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", meta.Title)
	PrintSeparator()
	fmt.Printf("  Run ID    : %s\n", meta.RunID)
	fmt.Printf("  Ticker    : %s\n", meta.Ticker)

	// Optional period
	if meta.Period != nil {
		fmt.Printf("  Period    : %s ~ %s\n", meta.Period.StartDate, meta.Period.EndDate)
	}
	if meta.ConfigHash != "" {
		fmt.Printf("  Config    : %s\n", meta.ConfigHash[:12])
	}

	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintSummaries prints one evaluation table
func PrintSummaries(summaries []contracts.EvaluationSummary) {
	if len(summaries) == 0 {
		PrintWarning("No evaluation summaries (empty stage)")
		return
	}

	widths := []int{30, 8, 12, 12}
	fmt.Println()
	PrintTableHeader([]string{"COMPARISON", "N", "MAE", "RMSE"}, widths)
	for _, s := range summaries {
		PrintTableRow(summaryRow(s), widths)
	}
}

func summaryRow(s contracts.EvaluationSummary) []string {
	return []string{
		s.Label,
		fmt.Sprintf("%d", s.SampleCount),
		fmt.Sprintf("%.6f", s.MAE),
		fmt.Sprintf("%.6f", s.RMSE),
	}
}

// tail returns the last n elements' start index
func tail(length, n int) int {
	if n <= 0 || n >= length {
		return 0
	}
	return length - n
}

// PrintStages prints one row per executed pipeline stage
func PrintStages(stages []contracts.StageResult) {
	widths := []int{4, 16, 8, 8, 8, 6}
	fmt.Println()
	PrintTableHeader([]string{"", "STAGE", "IN", "OUT", "MS", "OK"}, widths)
	for _, s := range stages {
		ok := "✓"
		if !s.Success {
			ok = "✗"
		}
		PrintTableRow([]string{
			s.Stage.ShortName(),
			s.Stage.Description(),
			fmt.Sprintf("%d", s.InputCount),
			fmt.Sprintf("%d", s.OutputCount),
			fmt.Sprintf("%d", s.Duration),
			ok,
		}, widths)
	}
}
