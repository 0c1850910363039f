package scan_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/vivadoc/scan"
	"go.jacobcolvin.com/vivadoc/stringtest"
)

func TestConfigLoad(t *testing.T) {
	t.Parallel()

	dir := stringtest.WriteFiles(t, map[string]string{
		"vivadoc.yaml": stringtest.Input(`
			marker: "@OWN"
			format: yaml
			concurrency: 3
			exclude:
			  - vendor
			languages: [go]
		`),
		"bad.yaml": "marker: x\nunknown: true\n",
	})

	tcs := map[string]struct {
		check   func(*testing.T, *scan.Config)
		file    string
		args    []string
		wantErr error
	}{
		"file values apply": {
			file: "vivadoc.yaml",
			check: func(t *testing.T, cfg *scan.Config) {
				t.Helper()

				assert.Equal(t, "@OWN", cfg.Marker)
				assert.Equal(t, "yaml", cfg.Format)
				assert.Equal(t, 3, cfg.Concurrency)
				assert.Equal(t, []string{"vendor"}, cfg.Exclude)
				assert.Equal(t, []string{"go"}, cfg.Languages)
			},
		},
		"flags override the file": {
			file: "vivadoc.yaml",
			args: []string{"--marker=@VD", "-j", "8", "--languages=javascript,python"},
			check: func(t *testing.T, cfg *scan.Config) {
				t.Helper()

				assert.Equal(t, "@VD", cfg.Marker)
				assert.Equal(t, "yaml", cfg.Format)
				assert.Equal(t, 8, cfg.Concurrency)
				assert.Equal(t, []string{"javascript", "python"}, cfg.Languages)
			},
		},
		"unknown keys are rejected": {
			file:    "bad.yaml",
			wantErr: scan.ErrConfigFile,
		},
		"missing explicit file": {
			file:    "missing.yaml",
			wantErr: scan.ErrConfigFile,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := scan.NewConfig()
			cmd := &cobra.Command{Use: "scan"}
			cfg.RegisterFlags(cmd.Flags())

			args := append([]string{"--config", filepath.Join(dir, tc.file)}, tc.args...)
			require.NoError(t, cmd.Flags().Parse(args))

			err := cfg.Load(cmd.Flags())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestConfigNewScanner(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     func(*scan.Config)
		wantErr error
	}{
		"defaults": {
			cfg: func(*scan.Config) {},
		},
		"known languages": {
			cfg: func(c *scan.Config) { c.Languages = []string{"go", "tsx"} },
		},
		"unknown language": {
			cfg:     func(c *scan.Config) { c.Languages = []string{"cobol"} },
			wantErr: scan.ErrInvalidOption,
		},
		"negative concurrency": {
			cfg:     func(c *scan.Config) { c.Concurrency = -1 },
			wantErr: scan.ErrInvalidOption,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := scan.NewConfig()
			tc.cfg(cfg)

			s, err := cfg.NewScanner(discard)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := scan.NewConfig()
	cmd := &cobra.Command{Use: "scan"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	completion, ok := cmd.GetFlagCompletionFunc("format")
	require.True(t, ok)

	values, directive := completion(cmd, nil, "")
	assert.Equal(t, []string{"json", "yaml"}, values)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
