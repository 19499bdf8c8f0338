// Package ui provides styled CLI output for cheddarc using lipgloss.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#F4B56D") // cheddar orange
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#5AF78E")
	colorWarning = lipgloss.Color("#F7DC6F")
	colorError   = lipgloss.Color("#FF6B9D")
	colorText    = lipgloss.Color("#CDD6F4")
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	styleVersion = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	styleSection = lipgloss.NewStyle().Bold(true).Foreground(colorText).MarginTop(1)

	styleFileInput  = lipgloss.NewStyle().Foreground(colorText)
	styleFileOutput = lipgloss.NewStyle().Foreground(colorSuccess)

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	styleStageLabel = lipgloss.NewStyle().Foreground(colorText).Width(10)
	styleStageTime  = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	styleSummary = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			MarginTop(1).
			PaddingTop(1)
)

// BuildOutput drives one build invocation's terminal output.
type BuildOutput struct {
	startTime time.Time
}

func NewBuildOutput() *BuildOutput {
	return &BuildOutput{startTime: time.Now()}
}

func (b *BuildOutput) PrintHeader(version string) {
	fmt.Println(styleHeader.Render("cheddarc") + " " + styleVersion.Render("v"+version))
}

func (b *BuildOutput) PrintModuleStart(key string) {
	fmt.Println(styleSection.Render("compiling " + key))
}

// Stage reports one lowered stage's emitted path and size.
type Stage struct {
	Name string // "vs", "gs", "fs", or "bundle"
	Path string
	Size int
}

func (b *BuildOutput) PrintStage(s Stage) {
	label := styleStageLabel.Render(s.Name)
	out := styleFileOutput.Render(s.Path)
	fmt.Printf("  %s %s %s\n", label, out, styleMuted.Render(fmt.Sprintf("(%d bytes)", s.Size)))
}

func (b *BuildOutput) PrintSummary(success bool, errorMsg string) {
	elapsed := time.Since(b.startTime)
	var line string
	if success {
		line = fmt.Sprintf("%s built in %s", styleSuccess.Render("done"), styleStageTime.Render(elapsed.Round(time.Millisecond).String()))
	} else {
		line = styleError.Render("build failed")
		if errorMsg != "" {
			line += "\n" + errorMsg
		}
	}
	fmt.Println(styleSummary.Render(line))
}

func (b *BuildOutput) PrintError(msg string) {
	fmt.Println(styleError.Render("error: ") + msg)
}

func (b *BuildOutput) PrintWarning(msg string) {
	fmt.Println(styleWarning.Render("warning: ") + msg)
}

// Divider renders a horizontal rule sized to the terminal-agnostic
// default width, used to separate watch-mode build runs.
func Divider() string {
	return styleMuted.Render(strings.Repeat("─", 60))
}
