package providers

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/config"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/fsys"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

func workDir() (string, error) { return "/home/u", nil }

func regIDs(svc *completion.Service) []string {
	var out []string
	for _, r := range svc.Registry().Registrations() {
		out = append(out, r.Namespace+"/"+r.ID)
	}
	return out
}

func sampleConfig() *config.Config {
	return &config.Config{
		Suggest: config.Suggest{EnableExtensionCompletions: true},
		Paths:   config.Paths{Enabled: true, Triggers: []string{"/"}},
		Words:   map[string][]config.Word{"git": {{Value: "checkout"}, {Value: "status"}}},
		Tools: []config.Tool{
			{Command: "kubectl", Protocol: "cobra", Triggers: []string{"-"}},
			{Command: "terraform", Protocol: "env", Timeout: "2s"},
			{Command: "mytool", Protocol: "urfave", Shells: []string{"fish"}},
		},
	}
}

func TestRegister(t *testing.T) {
	svc := completion.NewService(nil, nil)
	handles, err := Register(svc, sampleConfig(), Options{Shell: shell.Bash, WorkingDir: workDir})
	require.NoError(t, err)
	require.Len(t, handles, 5)

	assert.Equal(t, []string{
		"builtin/paths",
		"builtin/words",
		"tools/kubectl",
		"tools/terraform",
		"tools/mytool",
	}, regIDs(svc))

	regs := svc.Registry().Registrations()
	assert.True(t, regs[0].Builtin)
	assert.Equal(t, []string{"/"}, regs[0].TriggerCharacters)
	assert.Equal(t, []string{WordTrigger}, regs[1].TriggerCharacters)
	assert.False(t, regs[2].Builtin)
	assert.Nil(t, regs[2].ShellTypes)
	assert.Equal(t, []shell.Type{shell.Bash, shell.Zsh}, regs[3].ShellTypes)
	assert.Equal(t, []shell.Type{shell.Fish}, regs[4].ShellTypes)

	for _, h := range handles {
		h.Dispose()
	}
	assert.Equal(t, 0, svc.Registry().Len())
}

func TestRegister_PathsDisabledNoWords(t *testing.T) {
	svc := completion.NewService(nil, nil)
	handles, err := Register(svc, &config.Config{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, handles)
	assert.Equal(t, 0, svc.Registry().Len())
}

func TestRegister_RollsBackOnError(t *testing.T) {
	cfg := sampleConfig()
	cfg.Tools = append(cfg.Tools, config.Tool{Command: "bad", Protocol: "smoke-signals"})

	svc := completion.NewService(nil, nil)
	_, err := Register(svc, cfg, Options{WorkingDir: workDir})
	assert.Equal(t, derrors.CodeValidation, derrors.CodeOf(err))
	assert.Contains(t, err.Error(), "tools[3]")
	assert.Equal(t, 0, svc.Registry().Len())
}

func TestRegister_InvalidShellAndTimeout(t *testing.T) {
	for _, tc := range []config.Tool{
		{Command: "x", Protocol: "cobra", Shells: []string{"csh"}},
		{Command: "x", Protocol: "cobra", Timeout: "later"},
		{Command: "", Protocol: "cobra"},
		{Command: "x", Protocol: "cobra", When: &config.When{}},
	} {
		svc := completion.NewService(nil, nil)
		_, err := Register(svc, &config.Config{Tools: []config.Tool{tc}}, Options{WorkingDir: workDir})
		assert.Error(t, err)
	}
}

func TestEndToEnd_BuiltinProviders(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/u/proj", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/home/u/a.txt", nil, 0o644))

	settings, err := config.LoadBytes([]byte("words:\n  git:\n    - value: checkout\n"), ".yml")
	require.NoError(t, err)

	svc := completion.NewService(settings, fsys.NewLocal(fs))
	_, err = Register(svc, settings.Config(), Options{Shell: shell.Bash, WorkingDir: workDir})
	require.NoError(t, err)

	items, err := svc.ProvideCompletions(context.Background(), completion.Request{Value: "git ", Cursor: 4, Shell: shell.Bash})
	require.NoError(t, err)

	var got []string
	for _, item := range items {
		got = append(got, item.Label)
	}
	assert.Equal(t, []string{"./a.txt", "./proj", "..", "checkout"}, got)

	items, err = svc.ProvideCompletions(context.Background(), completion.Request{Value: "git ", Cursor: 4, Shell: shell.Bash, TriggerCharacter: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "checkout", items[0].Label)
}

func TestEndToEnd_WordConditions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/u/Makefile", nil, 0o644))

	cfg := &config.Config{Words: map[string][]config.Word{"make": {
		{Value: "test", When: &config.When{File: "Makefile"}},
		{Value: "init", When: &config.When{Dir: ".terraform"}},
	}}}

	svc := completion.NewService(nil, fsys.NewLocal(fs))
	_, err := Register(svc, cfg, Options{Shell: shell.Bash, WorkingDir: workDir, Fs: fs})
	require.NoError(t, err)

	items, err := svc.ProvideCompletions(context.Background(), completion.Request{Value: "make ", Cursor: 5, Shell: shell.Bash})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "test", items[0].Label)
}
