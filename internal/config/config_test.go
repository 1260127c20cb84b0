package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into dir for the duration of the test so no bcd-config.yaml is found.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, uint64(30), cfg.Timeout)
	assert.Equal(t, "Windows 10", cfg.LoaderDescription)
	assert.False(t, cfg.DistinctLoaderType)
	assert.Empty(t, cfg.DiskID)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bcd.yaml")
	content := `destination: /tmp/BCD
disk_id: f470029f-14da-41dc-a2ac-f14b055d4a92
efi_partition_id: e9cc797b-4481-4f8d-910c-a7295adc39f1
windows_partition_id: 7d6ef3a1-0f52-4c8b-9a1e-54b0f6b2d3c4
timeout: 10
distinct_loader_type: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/BCD", cfg.Destination)
	assert.Equal(t, "f470029f-14da-41dc-a2ac-f14b055d4a92", cfg.DiskID)
	assert.Equal(t, uint64(10), cfg.Timeout)
	assert.True(t, cfg.DistinctLoaderType)
	assert.Equal(t, "en-US", cfg.Locale)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BCD_DISK_ID", "533fc85c-e6b6-4bd4-b5cd-4badc4b98d06")
	t.Setenv("BCD_LOCALE", "fr-FR")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "533fc85c-e6b6-4bd4-b5cd-4badc4b98d06", cfg.DiskID)
	assert.Equal(t, "fr-FR", cfg.Locale)
}

func TestBindFlagsOverrideEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BCD_LOCALE", "fr-FR")

	flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
	flags.String("locale", "", "")
	flags.String("out", "", "")
	require.NoError(t, flags.Parse([]string{"--locale", "de-DE", "--out", "/tmp/BCD"}))

	v := New()
	require.NoError(t, BindFlags(v, flags, map[string]string{
		KeyLocale:      "locale",
		KeyDestination: "out",
		KeyManifest:    "not-a-flag",
	}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Locale)
	assert.Equal(t, "/tmp/BCD", cfg.Destination)
}
