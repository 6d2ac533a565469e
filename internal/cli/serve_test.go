package cli_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/cli"
	"github.com/rshade/carbonfocus/internal/config"
)

func TestServe_StopsOnCancel(t *testing.T) {
	setupCLITest(t)
	config.ResetGlobalConfigForTest()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := cli.NewRootCmd("test")
	cmd.SetArgs([]string{"serve", "--listen", "127.0.0.1:0"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}

func TestServe_FailsBeforeBinding(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		args    []string
		wantErr string
	}{
		{
			name:    "invalid factor table",
			args:    []string{"--factors", "/nonexistent/factors.yaml"},
			wantErr: "loading emission factors",
		},
		{
			name:    "invalid server config",
			config:  "server:\n  rate_limit: 5\n  burst: 0\n",
			wantErr: "invalid configuration",
		},
		{
			name:    "unusable address",
			args:    []string{"--listen", "256.256.256.256:99999"},
			wantErr: "listening on",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := setupCLITest(t)
			if tt.config != "" {
				require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(tt.config), 0o600))
			}

			_, _, err := execute(t, "", append([]string{"serve"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
