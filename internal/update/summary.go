package update

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/repoup/internal/ui"
)

const (
	summaryHeaderTitleConstant             = "Update Summary"
	summaryRepositoryColumnTitleConstant   = "Repository"
	summaryBranchColumnTitleConstant       = "Branch"
	summaryStatusColumnTitleConstant       = "Status"
	summaryMessageColumnTitleConstant      = "Message"
	summarySuccessStatusConstant           = "✓ OK"
	summaryFailureStatusConstant           = "✗ FAIL"
	summaryColumnSeparatorConstant         = "  "
	summarySeparatorCharacterConstant      = "─"
	summaryPaddingCharacterConstant        = " "
	summaryStatusColumnWidthConstant       = 8
	summaryMinimumRepositoryWidthConstant  = 10
	summaryMinimumBranchWidthConstant      = 8
	summaryTotalsTemplateConstant          = "Total: %d | Success: %d | Failed: %d"
	noRepositoriesProcessedMessageConstant = "No repositories were processed"
)

// RunSummary aggregates the ordered outcome records of one run.
type RunSummary struct {
	Outcomes     []BranchOutcome
	SuccessCount int
	FailureCount int
}

// NewRunSummary computes totals over the provided outcomes.
func NewRunSummary(outcomes []BranchOutcome) RunSummary {
	summary := RunSummary{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Succeeded {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
		}
	}
	return summary
}

// Total reports the number of branch update attempts in the run.
func (summary RunSummary) Total() int {
	return len(summary.Outcomes)
}

// SummaryReporter renders a run summary as an aligned console table.
type SummaryReporter struct {
	console *ui.ConsoleLogger
}

// NewSummaryReporter constructs a reporter around the provided console.
func NewSummaryReporter(console *ui.ConsoleLogger) *SummaryReporter {
	if console == nil {
		console = ui.NewConsoleLogger(io.Discard, io.Discard, false)
	}
	return &SummaryReporter{console: console}
}

// Print renders the summary table followed by run totals. Column widths grow
// with the longest repository and branch names, never shrinking below the
// minimum widths.
func (reporter *SummaryReporter) Print(summary RunSummary) {
	if summary.Total() == 0 {
		reporter.console.Warning(noRepositoriesProcessedMessageConstant)
		return
	}

	repositoryWidth := summaryMinimumRepositoryWidthConstant
	branchWidth := summaryMinimumBranchWidthConstant
	for _, outcome := range summary.Outcomes {
		repositoryName := repositoryDisplayName(outcome.RepositoryPath)
		if lipgloss.Width(repositoryName) > repositoryWidth {
			repositoryWidth = lipgloss.Width(repositoryName)
		}
		if lipgloss.Width(outcome.BranchName) > branchWidth {
			branchWidth = lipgloss.Width(outcome.BranchName)
		}
	}

	reporter.console.Header(summaryHeaderTitleConstant)

	headerLine := summaryTableRow(
		summaryRepositoryColumnTitleConstant, repositoryWidth,
		summaryBranchColumnTitleConstant, branchWidth,
		summaryStatusColumnTitleConstant,
		summaryMessageColumnTitleConstant,
	)
	reporter.console.Info(headerLine)
	reporter.console.Dim(strings.Repeat(summarySeparatorCharacterConstant, lipgloss.Width(headerLine)))

	for _, outcome := range summary.Outcomes {
		statusLabel := summaryFailureStatusConstant
		if outcome.Succeeded {
			statusLabel = summarySuccessStatusConstant
		}

		outcomeLine := summaryTableRow(
			repositoryDisplayName(outcome.RepositoryPath), repositoryWidth,
			outcome.BranchName, branchWidth,
			statusLabel,
			outcome.Message,
		)

		if outcome.Succeeded {
			reporter.console.Success(outcomeLine)
		} else {
			reporter.console.Error(outcomeLine)
		}
	}

	reporter.console.Newline()
	reporter.console.Info(fmt.Sprintf(summaryTotalsTemplateConstant, summary.Total(), summary.SuccessCount, summary.FailureCount))
}

func repositoryDisplayName(repositoryPath string) string {
	return filepath.Base(repositoryPath)
}

func summaryTableRow(repositoryCell string, repositoryWidth int, branchCell string, branchWidth int, statusCell string, messageCell string) string {
	return strings.Join([]string{
		padTableCell(repositoryCell, repositoryWidth),
		padTableCell(branchCell, branchWidth),
		padTableCell(statusCell, summaryStatusColumnWidthConstant),
		messageCell,
	}, summaryColumnSeparatorConstant)
}

// padTableCell pads by rendered display width so multibyte status glyphs do
// not shift the columns that follow them.
func padTableCell(cellText string, columnWidth int) string {
	paddingWidth := columnWidth - lipgloss.Width(cellText)
	if paddingWidth <= 0 {
		return cellText
	}
	return cellText + strings.Repeat(summaryPaddingCharacterConstant, paddingWidth)
}
