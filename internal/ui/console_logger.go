package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	successGlyphConstant         = "✓"
	errorGlyphConstant           = "✗"
	infoGlyphConstant            = "→"
	warningGlyphConstant         = "⚠"
	glyphMessageTemplateConstant = "%s %s"
	headerRuleCharacterConstant  = "─"
	headerRuleWidthConstant      = 50
	lineTemplateConstant         = "%s\n"
)

// Color palette shared by all console events.
var (
	successColor = lipgloss.Color("82")
	errorColor   = lipgloss.Color("196")
	infoColor    = lipgloss.Color("39")
	warningColor = lipgloss.Color("220")
	headerColor  = lipgloss.Color("86")
)

var (
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(headerColor).Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// ConsoleLogger emits semantic console events to configured output streams.
// Colorization is a presentation toggle with no effect on what is written.
type ConsoleLogger struct {
	outputWriter  io.Writer
	errorWriter   io.Writer
	colorsEnabled bool
}

// NewConsoleLogger constructs a console logger. Nil writers default to the
// process standard output and standard error streams.
func NewConsoleLogger(outputWriter io.Writer, errorWriter io.Writer, colorsEnabled bool) *ConsoleLogger {
	if outputWriter == nil {
		outputWriter = os.Stdout
	}
	if errorWriter == nil {
		errorWriter = os.Stderr
	}
	return &ConsoleLogger{outputWriter: outputWriter, errorWriter: errorWriter, colorsEnabled: colorsEnabled}
}

// DetectColorSupport reports whether the writer is an interactive terminal.
func DetectColorSupport(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// Header prints a section title framed by horizontal rules.
func (console *ConsoleLogger) Header(text string) {
	headerRule := strings.Repeat(headerRuleCharacterConstant, headerRuleWidthConstant)
	console.Newline()
	console.writeLine(console.outputWriter, headerStyle, headerRule)
	console.writeLine(console.outputWriter, headerStyle, text)
	console.writeLine(console.outputWriter, headerStyle, headerRule)
}

// Info prints an informational message.
func (console *ConsoleLogger) Info(text string) {
	console.writeGlyphLine(console.outputWriter, infoStyle, infoGlyphConstant, text)
}

// Success prints a success message.
func (console *ConsoleLogger) Success(text string) {
	console.writeGlyphLine(console.outputWriter, successStyle, successGlyphConstant, text)
}

// Warning prints a warning message.
func (console *ConsoleLogger) Warning(text string) {
	console.writeGlyphLine(console.outputWriter, warningStyle, warningGlyphConstant, text)
}

// Error prints an error message to the error stream.
func (console *ConsoleLogger) Error(text string) {
	console.writeGlyphLine(console.errorWriter, errorStyle, errorGlyphConstant, text)
}

// Dim prints a secondary message with reduced visual weight.
func (console *ConsoleLogger) Dim(text string) {
	console.writeLine(console.outputWriter, dimStyle, text)
}

// Newline prints an empty line.
func (console *ConsoleLogger) Newline() {
	fmt.Fprintln(console.outputWriter)
}

func (console *ConsoleLogger) writeGlyphLine(writer io.Writer, style lipgloss.Style, glyph string, text string) {
	if console.colorsEnabled {
		fmt.Fprintf(writer, lineTemplateConstant, fmt.Sprintf(glyphMessageTemplateConstant, style.Render(glyph), text))
		return
	}
	fmt.Fprintf(writer, lineTemplateConstant, fmt.Sprintf(glyphMessageTemplateConstant, glyph, text))
}

func (console *ConsoleLogger) writeLine(writer io.Writer, style lipgloss.Style, text string) {
	if console.colorsEnabled {
		fmt.Fprintf(writer, lineTemplateConstant, style.Render(text))
		return
	}
	fmt.Fprintf(writer, lineTemplateConstant, text)
}
