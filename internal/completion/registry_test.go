package completion

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticProvider(items ...*Item) *Provider {
	return &Provider{Completer: CompleterFunc(func(context.Context, string, int) (Batch, error) {
		return Items(items), nil
	})}
}

func ids(regs []Registration) []string {
	var out []string
	for _, r := range regs {
		out = append(out, r.Namespace+"/"+r.ID)
	}
	return out
}

func TestRegistry_RegisterAndDispose(t *testing.T) {
	r := NewRegistry()
	r.Register("builtin", "a", staticProvider())
	r.Register("builtin", "b", staticProvider())
	n := r.Len()
	require.Equal(t, 2, n)

	d := r.Register("ext", "git", staticProvider())
	assert.Equal(t, n+1, r.Len())

	d.Dispose()
	assert.Equal(t, n, r.Len())

	d.Dispose()
	assert.Equal(t, n, r.Len(), "second dispose is a no-op")
	assert.NotContains(t, ids(r.Registrations()), "ext/git")
}

func TestRegistry_ReplaceSameKey(t *testing.T) {
	r := NewRegistry()
	first := staticProvider()
	second := staticProvider()

	r.Register("ns", "x", first)
	r.Register("ns", "y", staticProvider())
	r.Register("ns", "x", second, "-")

	providers := r.Providers()
	require.Len(t, providers, 2)
	assert.Same(t, second, providers[0], "replacement keeps the original slot")
	assert.Equal(t, "x", providers[0].ID)
	assert.Equal(t, []string{"-"}, providers[0].TriggerCharacters)
}

func TestRegistry_DisposeRemovesCurrentHolder(t *testing.T) {
	r := NewRegistry()
	old := r.Register("ns", "x", staticProvider())
	r.Register("ns", "x", staticProvider())

	old.Dispose()
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NamespaceRemovedWhenEmpty(t *testing.T) {
	r := NewRegistry()
	a := r.Register("ns", "a", staticProvider())
	r.Register("other", "b", staticProvider())
	a.Dispose()

	r.Register("ns", "c", staticProvider())
	assert.Equal(t, []string{"other/b", "ns/c"}, ids(r.Registrations()))
}

func TestRegistry_StampsIdentity(t *testing.T) {
	r := NewRegistry()
	triggers := []string{"-", "/"}
	p := staticProvider()
	r.Register("ns", "git", p, triggers...)
	triggers[0] = "x"

	assert.Equal(t, "git", p.ID)
	assert.Equal(t, []string{"-", "/"}, p.TriggerCharacters)
}

func TestRegistry_EnumerationIsRestartable(t *testing.T) {
	r := NewRegistry()
	r.Register("ns", "a", staticProvider())

	first := r.Providers()
	r.Register("ns", "b", staticProvider())
	second := r.Providers()

	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	d := r.Register("ns", "a", staticProvider())
	r.Close()

	assert.Equal(t, 0, r.Len())
	assert.NotPanics(t, d.Dispose)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			d := r.Register("ns", string(rune('a'+i%26)), staticProvider())
			d.Dispose()
		}()
		go func() {
			defer wg.Done()
			_ = r.Providers()
		}()
	}
	wg.Wait()
}
