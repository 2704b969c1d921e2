package watch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/donaldgifford/fmtrc/internal/config"
	"github.com/donaldgifford/fmtrc/internal/testutil"
)

func TestNewInitialLoadError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, ".prettierrc.yaml", "tabWidth: wide\n")

	_, err := New(path, nil, zaptest.NewLogger(t))
	var se *config.SchemaError
	assert.ErrorAs(t, err, &se)
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, ".prettierrc.yaml", "tabWidth: 2\n")

	w, err := New(path, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	first := w.Current()

	testutil.WriteFile(t, dir, ".prettierrc.yaml", "tabWidth: [\n")
	w.reload()
	assert.Same(t, first, w.Current())

	testutil.WriteFile(t, dir, ".prettierrc.yaml", "tabWidth: 4\n")
	w.reload()
	assert.NotSame(t, first, w.Current())
	assert.Equal(t, "tabWidth=4", w.Current().Base().String())

	// The old resolver is untouched.
	assert.Equal(t, "tabWidth=2", first.Base().String())
}

func TestRunReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, ".prettierrc.json", `{"semi": true}`)

	logger := zaptest.NewLogger(t)
	w, err := New(path, config.NewLoader(logger), logger)
	require.NoError(t, err)

	reloaded := make(chan *config.Resolver, 16)
	w.OnReload = func(r *config.Resolver) { reloaded <- r }

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Run may not have registered the watch yet; keep rewriting until a
	// reload is observed.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	var got *config.Resolver
wait:
	for {
		select {
		case got = <-reloaded:
			break wait
		case <-tick.C:
			testutil.WriteFile(t, dir, ".prettierrc.json", `{"semi": false}`)
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}

	assert.Equal(t, "semi=false", got.Base().String())
	assert.Equal(t, "semi=false", w.Current().Base().String())
	assert.Equal(t, path, filepath.Clean(got.Path()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, ".prettierrc.yaml", "useTabs: true\n")

	w, err := New(path, nil, zaptest.NewLogger(t))
	require.NoError(t, err)

	reloaded := make(chan struct{}, 16)
	w.OnReload = func(*config.Resolver) { reloaded <- struct{}{} }

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for range 5 {
		testutil.WriteFile(t, dir, "README.md", "# hi\n")
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-reloaded:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(300 * time.Millisecond):
	}
}
