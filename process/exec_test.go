package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := fileExists(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, ok)

	path := filepath.Join(dir, DefaultCfgFilename)
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	ok, err = fileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultCfgFilename),
		[]byte("report:\n  font-size: 14\nsource:\n  kind: yaml\n"), 0o644))

	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().String("config-dir", dir, "")
	vip := viper.New()
	require.NoError(t, loadConfigFile(cmd, vip))
	assert.Equal(t, 14, vip.GetInt("report.font-size"))
	assert.Equal(t, "yaml", vip.GetString("source.kind"))

	empty := &cobra.Command{Use: "run"}
	empty.Flags().String("config-dir", t.TempDir(), "")
	vip = viper.New()
	require.NoError(t, loadConfigFile(empty, vip))
	assert.Empty(t, vip.ConfigFileUsed())
}

type decodeTestConfig struct {
	Report struct {
		FontSize float64 `help:"字号" default:"12"`
	}
}

func TestDecodeConfig(t *testing.T) {
	var cfg decodeTestConfig
	cmd := &cobra.Command{Use: "export"}
	Bind(cmd, &cfg)
	cmd.Flags().String("log-level", "info", "")

	vip := viper.New()
	require.NoError(t, vip.BindPFlags(cmd.Flags()))
	vip.Set("report.font-size", "14")
	vip.Set("log-level", "debug")
	vip.Set("unknown", "x")

	missing, broken := decodeConfig(cmd, vip)
	assert.Equal(t, 14.0, cfg.Report.FontSize)
	assert.Equal(t, "debug", cmd.Flags().Lookup("log-level").Value.String())
	assert.True(t, cmd.Flags().Lookup("log-level").Changed)
	assert.Equal(t, []string{"unknown"}, missing)
	assert.Empty(t, broken)

	vip.Set("report.font-size", "large")
	_, broken = decodeConfig(cmd, vip)
	assert.Equal(t, []string{"report.font-size"}, broken)
}

func TestCtx(t *testing.T) {
	cmd := &cobra.Command{Use: "run"}
	ctx, cancel := Ctx(cmd)
	again, _ := Ctx(cmd)
	assert.Equal(t, ctx, again)

	cancel()
	assert.Error(t, ctx.Err())
	releaseCtx(cmd)

	fresh, cancel := Ctx(cmd)
	defer cancel()
	assert.NoError(t, fresh.Err())
}
