package btsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFillsDefaultsForUnsetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 3002, cfg.OmlPort)
	require.Equal(t, "/tmp/pcu_bts", cfg.PcuSocket)
}

func TestLoadParsesTrxList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bts.yaml")
	doc := `
bts:
  - name: bts0
    trx:
      - arfcn: 42
        max_power_dbm: 43
        band: GSM900
      - arfcn: 43
        max_power_dbm: 43
        band: GSM900
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Bts, 1)
	require.Len(t, cfg.Bts[0].Trx, 2)
	require.Equal(t, 42, cfg.Bts[0].Trx[0].Arfcn)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestParseFlagsDefaultsAndOverrides(t *testing.T) {
	f := ParseFlags([]string{"--bind", "10.0.0.1", "-l", "warn"})
	require.Equal(t, "10.0.0.1", f.BindAddr)
	require.Equal(t, "warn", f.LogLevel)
	require.False(t, f.Help)
}

func TestApplyOnlyOverridesNonEmptyFlags(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "info"
	applied := Apply(cfg, Flags{BindAddr: "192.168.1.1"})
	require.Equal(t, "192.168.1.1", applied.OmlBindAddr)
	require.Equal(t, "info", applied.LogLevel)
}
