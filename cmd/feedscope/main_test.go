package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "invalid-config-*.yml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err = run(ctx, Opts{Config: tmpFile.Name()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_ServerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DB_PATH", tmpDir)

	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)

	go func() {
		serverErr <- run(ctx, Opts{
			Config: "testdata/test_config.yml",
			Listen: "127.0.0.1:0",
		})
	}()

	// give the server a moment to come up, then stop it
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-serverErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop in time")
	}
}

func TestSetupLog(t *testing.T) {
	// exercises both branches, failure shows up as a panic
	setupLog(false)
	setupLog(true, "secret-value")
	setupLog(true, "")
}
