package status

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

var (
	// Colors and styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	var b strings.Builder

	b.WriteString(renderHeader(data))
	b.WriteString("\n")

	b.WriteString(renderConfig(data))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("🔌 Providers:") + "\n")
	b.WriteString(RenderProviders(data.Providers))

	return b.String()
}

// RenderProviders renders one line per registration.
func RenderProviders(providers []ProviderInfo) string {
	if len(providers) == 0 {
		return "   " + subtleStyle.Render("No providers registered")
	}

	var b strings.Builder
	for i, p := range providers {
		kind := warningStyle.Render("extension")
		if p.Builtin {
			kind = successStyle.Render("builtin")
		}

		triggers := subtleStyle.Render("any")
		if len(p.Triggers) > 0 {
			triggers = valueStyle.Render(strings.Join(lo.Map(p.Triggers, func(t string, _ int) string {
				return strconv.Quote(t)
			}), " "))
		}

		shells := subtleStyle.Render("all")
		if len(p.Shells) > 0 {
			shells = valueStyle.Render(strings.Join(p.Shells, ", "))
		}

		b.WriteString(fmt.Sprintf("   %d. %s [%s]\n", i+1, valueStyle.Render(p.Namespace+"/"+p.ID), kind))
		b.WriteString("      " + keyStyle.Render("Triggers: ") + triggers + "\n")
		b.WriteString("      " + keyStyle.Render("Shells: ") + shells + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// RenderItems renders completion items as aligned label/detail rows.
func RenderItems(items []*completion.Item) string {
	if len(items) == 0 {
		return subtleStyle.Render("No completions")
	}

	width := lo.Max(lo.Map(items, func(it *completion.Item, _ int) int {
		return lipgloss.Width(it.Label)
	}))
	label := valueStyle.Width(width + 2)

	var b strings.Builder
	for _, it := range items {
		b.WriteString(label.Render(it.Label))
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-9s", it.Kind.String())))
		if it.Detail != "" {
			b.WriteString(" " + subtleStyle.Render(it.Detail))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📂 Current directory: ") + valueStyle.Render(data.CurrentDir) + "\n")
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version) + "\n")
	b.WriteString(titleStyle.Render("🐚 Shell: ") + valueStyle.Render(data.Shell) + "\n")

	switch {
	case !data.HookSupported:
		b.WriteString(titleStyle.Render("🪝 Hook: ") + subtleStyle.Render("not available for this shell"))
	case data.HookInstalled:
		b.WriteString(titleStyle.Render("🪝 Hook: ") + successStyle.Render("✓ Installed"))
	default:
		b.WriteString(titleStyle.Render("🪝 Hook: ") + errorStyle.Render("✗ Not installed") + "\n")
		b.WriteString("   " + warningStyle.Render(fmt.Sprintf("Run 'termsuggest setup --shell %s' to install", data.Shell)))
	}
	return b.String()
}

func renderConfig(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Configuration:") + "\n")

	if data.ConfigError != "" {
		b.WriteString("   " + errorStyle.Render("✗ "+data.ConfigError))
		return b.String()
	}

	if data.ConfigPath != "" {
		b.WriteString("   " + keyStyle.Render("File: ") + valueStyle.Render(data.ConfigPath) + " " + successStyle.Render("✓") + "\n")
	} else {
		b.WriteString("   " + keyStyle.Render("File: ") + subtleStyle.Render("none (built-in defaults)") + "\n")
		b.WriteString("   " + warningStyle.Render("Run 'termsuggest init' to create one") + "\n")
	}

	b.WriteString("   " + keyStyle.Render("Log level: ") + valueStyle.Render(data.LogLevel) + "\n")
	b.WriteString("   " + keyStyle.Render("Extension completions: ") + onOff(data.ExtensionCompletions) + "\n")
	b.WriteString("   " + keyStyle.Render("Dev mode: ") + onOff(data.DevMode) + "\n")

	words := subtleStyle.Render("none")
	if len(data.WordCommands) > 0 {
		words = valueStyle.Render(strings.Join(data.WordCommands, ", "))
	}
	b.WriteString("   " + keyStyle.Render("Word lists: ") + words + "\n")
	b.WriteString("   " + keyStyle.Render("Tools: ") + valueStyle.Render(strconv.Itoa(data.ToolCount)))

	return b.String()
}

func onOff(v bool) string {
	if v {
		return successStyle.Render("on")
	}
	return subtleStyle.Render("off")
}
