package completion

import (
	"strconv"
	"strings"
)

// Settings read by the service.
const (
	SettingEnableExtensionCompletions = "suggest.enable_extension_completions"
	SettingDevMode                    = "suggest.dev_mode"
)

// Configuration is the read side of the settings store.
type Configuration interface {
	GetValue(key string) any
}

func boolSetting(cfg Configuration, key string) bool {
	if cfg == nil {
		return false
	}
	switch v := cfg.GetValue(key).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// SelectProviders picks the registrations eligible for a request. In
// trigger mode only providers with a trigger character ending
// value[:cursor] are kept; otherwise every provider is. When extensions are
// disabled only builtin providers survive. The input slice is not modified.
func SelectProviders(regs []Registration, value string, cursor int, triggerCharacter, extensionsEnabled bool) []Registration {
	prefix := value[:clampCursor(value, cursor)]

	var out []Registration
	for _, reg := range regs {
		if triggerCharacter && !endsWithTrigger(prefix, reg.TriggerCharacters) {
			continue
		}
		if !extensionsEnabled && !reg.Builtin {
			continue
		}
		out = append(out, reg)
	}
	return out
}

func endsWithTrigger(prefix string, triggers []string) bool {
	for _, c := range triggers {
		if strings.HasSuffix(prefix, c) {
			return true
		}
	}
	return false
}

func clampCursor(value string, cursor int) int {
	switch {
	case cursor < 0:
		return 0
	case cursor > len(value):
		return len(value)
	default:
		return cursor
	}
}
