package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/termsuggest/internal/completion"
	"github.com/NikitaCOEUR/termsuggest/internal/condition"
	"github.com/NikitaCOEUR/termsuggest/internal/derrors"
	"github.com/NikitaCOEUR/termsuggest/internal/shell"
)

type call struct {
	env  []string
	name string
	args []string
}

func fakeRun(output string, err error, calls *[]call) runFunc {
	return func(_ context.Context, env []string, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{env: env, name: name, args: args})
		return []byte(output), err
	}
}

func newTool(t *testing.T, protocol Protocol, output string, calls *[]call) *Tool {
	t.Helper()
	tool, err := New("kubectl", protocol, WithWorkingDir(func() (string, error) { return "/work", nil }))
	require.NoError(t, err)
	tool.run = fakeRun(output, nil, calls)
	return tool
}

func itemsOf(t *testing.T, b completion.Batch) []*completion.Item {
	t.Helper()
	switch v := b.(type) {
	case completion.Items:
		return v
	case *completion.ItemsWithResources:
		return v.Items
	}
	t.Fatalf("unexpected batch %T", b)
	return nil
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", ProtocolCobra)
	assert.Equal(t, derrors.CodeValidation, derrors.CodeOf(err))

	_, err = New("kubectl", Protocol("bash-script"))
	assert.Equal(t, derrors.CodeValidation, derrors.CodeOf(err))

	tool, err := New("kubectl", ProtocolEnv, WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, "kubectl", tool.Command())
	assert.Equal(t, ProtocolEnv, tool.Protocol())
	assert.Equal(t, time.Second, tool.timeout)
}

func TestParseProtocol(t *testing.T) {
	p, err := ParseProtocol("Cobra")
	require.NoError(t, err)
	assert.Equal(t, ProtocolCobra, p)

	_, err = ParseProtocol("script")
	assert.Error(t, err)
}

func TestDefaultShells(t *testing.T) {
	assert.Equal(t, []shell.Type{shell.Bash, shell.Zsh}, DefaultShells(ProtocolEnv))
	assert.Nil(t, DefaultShells(ProtocolCobra))
}

func TestComplete_OtherCommandIgnored(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolCobra, "", &calls)

	b, err := tool.Complete(context.Background(), "helm get ", 9)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = tool.Complete(context.Background(), "kubect", 6)
	require.NoError(t, err)
	assert.Nil(t, b, "command still being typed")
	assert.Empty(t, calls)
}

func TestComplete_Cobra(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolCobra, "get\tDisplay resources\n--help\n:4\nCompletion ended with directive: ShellCompDirectiveNoFileComp\n", &calls)

	b, err := tool.Complete(context.Background(), "kubectl ge", 10)
	require.NoError(t, err)
	require.IsType(t, completion.Items{}, b)

	items := itemsOf(t, b)
	require.Len(t, items, 2)
	assert.Equal(t, "get", items[0].Label)
	assert.Equal(t, "Display resources", items[0].Detail)
	assert.Equal(t, completion.KindMethod, items[0].Kind)
	assert.Equal(t, 8, items[0].ReplacementIndex)
	assert.Equal(t, 2, items[0].ReplacementLength)
	assert.Equal(t, completion.KindFlag, items[1].Kind)

	require.Len(t, calls, 1)
	assert.Equal(t, "kubectl", calls[0].name)
	assert.Equal(t, []string{"__complete", "ge"}, calls[0].args)
}

func TestComplete_CobraDirectives(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		files   bool
		folders bool
		items   int
	}{
		{name: "filter dirs", output: "templates\n:16\n", folders: true},
		{name: "filter file ext", output: "yaml\njson\n:8\n", files: true, folders: true},
		{name: "default with no items", output: ":0\n", files: true, folders: true},
		{name: "default with items", output: "pods\n:0\n", items: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []call
			tool := newTool(t, ProtocolCobra, tt.output, &calls)

			b, err := tool.Complete(context.Background(), "kubectl apply -f ", 17)
			require.NoError(t, err)

			withRes, ok := b.(*completion.ItemsWithResources)
			if !tt.files && !tt.folders {
				require.False(t, ok)
				assert.Len(t, itemsOf(t, b), tt.items)
				return
			}
			require.True(t, ok)
			assert.Empty(t, withRes.Items)
			require.NotNil(t, withRes.Resources.CWD)
			assert.Equal(t, "/work", withRes.Resources.CWD.Path)
			assert.Equal(t, tt.files, withRes.Resources.FilesRequested)
			assert.Equal(t, tt.folders, withRes.Resources.FoldersRequested)
		})
	}
}

func TestComplete_CobraErrorDirective(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolCobra, ":1\n", &calls)

	_, err := tool.Complete(context.Background(), "kubectl get ", 12)
	assert.Equal(t, derrors.CodeExecution, derrors.CodeOf(err))
}

func TestComplete_Urfave(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolUrfave, "init\nstatus\n--help\n", &calls)

	b, err := tool.Complete(context.Background(), "kubectl ", 8)
	require.NoError(t, err)
	items := itemsOf(t, b)
	require.Len(t, items, 3)
	assert.Equal(t, completion.KindMethod, items[0].Kind)
	assert.Equal(t, completion.KindFlag, items[2].Kind)
	assert.Equal(t, []string{"", "--generate-shell-completion"}, calls[0].args)
}

func TestComplete_Env(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolEnv, "plan\napply\n", &calls)

	b, err := tool.Complete(context.Background(), "kubectl pl", 10)
	require.NoError(t, err)
	items := itemsOf(t, b)
	require.Len(t, items, 2)
	assert.Equal(t, completion.KindArgument, items[0].Kind)

	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].args)
	assert.Contains(t, calls[0].env, "COMP_LINE=kubectl pl")
	assert.Contains(t, calls[0].env, "COMP_POINT=10")
}

func TestComplete_RunError(t *testing.T) {
	tool, err := New("kubectl", ProtocolCobra)
	require.NoError(t, err)
	tool.run = fakeRun("", errors.New("exit status 2"), new([]call))

	_, err = tool.Complete(context.Background(), "kubectl get ", 12)
	assert.Error(t, err)
}

func TestComplete_AbsoluteCommandPath(t *testing.T) {
	var calls []call
	tool := newTool(t, ProtocolUrfave, "x\n", &calls)

	_, err := tool.Complete(context.Background(), "/usr/bin/kubectl ", 17)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "/usr/bin/kubectl", calls[0].name)
}

func TestParseLines(t *testing.T) {
	got := parseLines([]byte("a\tfirst\n\n  b  \nc\t\n"), true)
	assert.Equal(t, []suggestion{{value: "a", description: "first"}, {value: "b"}, {value: "c"}}, got)

	plain := parseLines([]byte("a\tfirst\n"), false)
	assert.Equal(t, []suggestion{{value: "a\tfirst"}}, plain)
}

func TestRunCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-cobra")
	body := "#!/bin/sh\nprintf 'get\\tDisplay\\n:4\\n'\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	out, err := runCommand(context.Background(), nil, script, "__complete", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "get\tDisplay"))

	_, err = runCommand(context.Background(), nil, filepath.Join(dir, "missing"))
	var ee *derrors.ExecutionError
	assert.ErrorAs(t, err, &ee)
}

func TestRunCommand_OutputCapped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "chatty")
	body := "#!/bin/sh\nhead -c 3000000 /dev/zero | tr '\\0' 'a'\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	out, err := runCommand(context.Background(), nil, script)
	require.NoError(t, err)
	assert.Len(t, out, MaxOutputSize)
}

func TestRunCommand_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "slow")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := runCommand(ctx, nil, script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestComplete_WhenCondition(t *testing.T) {
	fs := afero.NewMemMapFs()
	var calls []call

	tool, err := New("kubectl", ProtocolCobra,
		WithWorkingDir(func() (string, error) { return "/work", nil }),
		WithCondition(condition.FileCondition{Path: "kubeconfig"}, fs),
	)
	require.NoError(t, err)
	tool.run = fakeRun("get\n:4\n", nil, &calls)

	b, err := tool.Complete(context.Background(), "kubectl ", 8)
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.Empty(t, calls)

	require.NoError(t, afero.WriteFile(fs, "/work/kubeconfig", nil, 0o644))
	b, err = tool.Complete(context.Background(), "kubectl ", 8)
	require.NoError(t, err)
	require.Len(t, itemsOf(t, b), 1)
	assert.Len(t, calls, 1)
}
