package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 colors shared by the status lines and the explore view.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// status is the leading marker of a one-line message.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusSuccess = status{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	statusWarning = status{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	statusInfo    = status{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (s status) println(msg string) {
	fmt.Println(s.style.Render(s.icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	statusSuccess.println(fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusInfo.println(fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints e.g. "2 jobs · 4 failures · cached".
func printStats(jobs int, failures float64, cached bool) {
	parts := []string{StyleDim.Render(plural(jobs, "job"))}
	if failures > 0 {
		parts = append(parts, StyleDim.Render(plural(int(failures), "failure")))
	}
	if cached {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
