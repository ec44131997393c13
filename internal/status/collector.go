// Package status collects and renders what termsuggest would do from the
// current directory.
package status

import (
	"sort"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/NikitaCOEUR/termsuggest/pkg/version"
	"github.com/samber/lo"
)

// Collect gathers status information from the loaded settings and the
// registry the providers were installed into.
func Collect(cwd string, sh shell.Type, settings *config.Settings, registry *completion.Registry) *Data {
	data := &Data{
		CurrentDir: cwd,
		Version:    version.Version,
		Shell:      string(sh),
	}

	if settings != nil {
		cfg := settings.Config()
		data.ConfigPath = settings.Path()
		data.LogLevel = cfg.LogLevel
		data.ExtensionCompletions = settings.Bool(completion.SettingEnableExtensionCompletions)
		data.DevMode = settings.Bool(completion.SettingDevMode)
		data.WordCommands = lo.Keys(cfg.Words)
		sort.Strings(data.WordCommands)
		data.ToolCount = len(cfg.Tools)
	}

	if registry != nil {
		data.Providers = ProvidersOf(registry)
	}

	return data
}

// ProvidersOf snapshots the registrations of registry.
func ProvidersOf(registry *completion.Registry) []ProviderInfo {
	return lo.Map(registry.Registrations(), func(r completion.Registration, _ int) ProviderInfo {
		return ProviderInfo{
			Namespace: r.Namespace,
			ID:        r.ID,
			Triggers:  append([]string(nil), r.TriggerCharacters...),
			Shells: lo.Map(r.ShellTypes, func(t shell.Type, _ int) string {
				return string(t)
			}),
			Builtin: r.Builtin,
		}
	})
}
