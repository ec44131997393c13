package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/metrics"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
	"github.com/NikitaCOEUR/termsuggest/internal/status"
	"github.com/NikitaCOEUR/termsuggest/internal/timing"
	"github.com/NikitaCOEUR/termsuggest/internal/trace"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Output formats of the complete command
const (
	FormatText     = "text"
	FormatPlain    = "plain"
	FormatDescribe = "describe"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the accepted --format values
var Formats = []string{FormatText, FormatPlain, FormatDescribe, FormatJSON, FormatYAML}

// CompleteParams contains parameters for the Complete command
type CompleteParams struct {
	Value string
	// Cursor is a byte offset into Value. Negative means len(Value).
	Cursor      int
	Shell       string
	Trigger     bool
	CWD         string
	Format      string
	ConfigPath  string
	LogLevel    string
	Timing      bool
	MetricsFile string

	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

// Complete runs one completion request and prints the result
func Complete(ctx context.Context, params CompleteParams) error {
	defer trace.Region(ctx, "cli.Complete")()

	if params.Stdout == nil {
		params.Stdout = os.Stdout
	}
	if params.Stderr == nil {
		params.Stderr = os.Stderr
	}
	if params.Format == "" {
		params.Format = FormatText
	}
	if !lo.Contains(Formats, params.Format) {
		return fmt.Errorf("unknown format %q (expected one of %s)", params.Format, strings.Join(Formats, ", "))
	}

	timer := timing.NewTimer()
	sh := shell.Detect(params.Shell)

	recorder := metrics.New()
	c, err := initializeComponents(serviceParams{
		ConfigPath: params.ConfigPath,
		LogLevel:   params.LogLevel,
		Shell:      sh,
		CWD:        params.CWD,
		Fs:         params.Fs,
		LogOutput:  params.Stderr,
		Options:    []completion.Option{completion.WithObserver(recorder)},
	})
	if err != nil {
		return err
	}
	defer c.close()
	timer.Mark("setup")

	cursor := params.Cursor
	if cursor < 0 {
		cursor = len(params.Value)
	}

	items, err := c.service.ProvideCompletions(ctx, completion.Request{
		Value:            params.Value,
		Cursor:           cursor,
		Shell:            sh,
		TriggerCharacter: params.Trigger,
	})
	if err != nil {
		return err
	}
	timer.Mark("providers")

	if err := writeItems(params.Stdout, params.Format, items, params.Value, cursor); err != nil {
		return err
	}
	timer.Mark("output")

	if params.MetricsFile != "" {
		if err := recorder.WriteFile(params.MetricsFile); err != nil {
			c.log.Warn().Err(err).Str("path", params.MetricsFile).Msg("Failed to write metrics")
		}
	}

	if params.Timing {
		_, _ = fmt.Fprintln(params.Stderr, timer.Summary())
	}

	c.log.Debug().
		Int("items", len(items)).
		Dur("elapsed", timer.Elapsed()).
		Msg("Completion done")

	return nil
}

func writeItems(w io.Writer, format string, items []*completion.Item, value string, cursor int) error {
	switch format {
	case FormatJSON:
		if items == nil {
			items = []*completion.Item{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case FormatYAML:
		if items == nil {
			items = []*completion.Item{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	case FormatPlain:
		for _, it := range completion.FilterPrefix(items, value, cursor) {
			if _, err := fmt.Fprintln(w, it.Label); err != nil {
				return err
			}
		}
		return nil
	case FormatDescribe:
		for _, it := range completion.FilterPrefix(items, value, cursor) {
			line := strings.ReplaceAll(it.Label, ":", `\:`)
			if it.Detail != "" {
				line += ":" + it.Detail
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, status.RenderItems(items))
		return err
	}
}
