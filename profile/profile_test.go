package profile_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vivadoc/profile"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	assert.Empty(t, cfg.Dir)
	assert.Empty(t, cfg.CPUProfile)
	assert.Empty(t, cfg.HeapProfile)
	assert.Zero(t, cfg.BlockProfileRate)
	assert.Equal(t, "cpu-profile", cfg.Flags.CPUProfile)
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want func(*testing.T, *profile.Config)
		args []string
	}{
		"defaults": {
			want: func(t *testing.T, cfg *profile.Config) {
				t.Helper()

				assert.Empty(t, cfg.CPUProfile)
				assert.Equal(t, 1, cfg.BlockProfileRate)
				assert.Equal(t, 1, cfg.MutexProfileFraction)
			},
		},
		"paths and rates": {
			args: []string{
				"--profile-dir=/tmp/prof",
				"--cpu-profile=cpu.prof",
				"--heap-profile=heap.prof",
				"--goroutine-profile=goroutine.prof",
				"--block-profile=block.prof",
				"--mutex-profile=mutex.prof",
				"--block-profile-rate=100",
				"--mutex-profile-fraction=10",
			},
			want: func(t *testing.T, cfg *profile.Config) {
				t.Helper()

				assert.Equal(t, "/tmp/prof", cfg.Dir)
				assert.Equal(t, "cpu.prof", cfg.CPUProfile)
				assert.Equal(t, "heap.prof", cfg.HeapProfile)
				assert.Equal(t, "goroutine.prof", cfg.GoroutineProfile)
				assert.Equal(t, "block.prof", cfg.BlockProfile)
				assert.Equal(t, "mutex.prof", cfg.MutexProfile)
				assert.Equal(t, 100, cfg.BlockProfileRate)
				assert.Equal(t, 10, cfg.MutexProfileFraction)
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := profile.NewConfig()
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			cfg.RegisterFlags(flags)

			require.NoError(t, flags.Parse(tc.args))
			tc.want(t, cfg)

			f := flags.Lookup("cpu-profile")
			require.NotNil(t, f)
			assert.True(t, f.Hidden)
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
		want cobra.ShellCompDirective
	}{
		"block rate":     {flag: "block-profile-rate", want: cobra.ShellCompDirectiveNoFileComp},
		"mutex fraction": {flag: "mutex-profile-fraction", want: cobra.ShellCompDirectiveNoFileComp},
		"directory":      {flag: "profile-dir", want: cobra.ShellCompDirectiveFilterDirs},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Nil(t, values)
			assert.Equal(t, tc.want, directive)
		})
	}
}

func TestProfilerSnapshots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := profile.NewConfig()
	cfg.Dir = dir
	cfg.HeapProfile = "heap.prof"
	cfg.GoroutineProfile = filepath.Join(dir, "goroutine.prof")

	p := cfg.NewProfiler(slog.New(slog.DiscardHandler))
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())

	for _, name := range []string{"heap.prof", "goroutine.prof"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestProfilerStopErrors(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cfg.Dir = filepath.Join(t.TempDir(), "missing")
	cfg.HeapProfile = "heap.prof"
	cfg.GoroutineProfile = "goroutine.prof"

	p := cfg.NewProfiler(nil)
	require.NoError(t, p.Start())

	err := p.Stop()
	require.Error(t, err)
	assert.ErrorContains(t, err, "create heap profile")
	assert.ErrorContains(t, err, "create goroutine profile")
}
