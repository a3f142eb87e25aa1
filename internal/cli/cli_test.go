package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/rustyeddy/tradegym/config"
	"github.com/rustyeddy/tradegym/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// writeSmallConfig writes a config with a short synthetic series so runs
// finish quickly.
func writeSmallConfig(t *testing.T, dir string) string {
	t.Helper()

	cfg := config.Default()
	cfg.Env.WindowSize = 8
	cfg.Data.Synthetic.Candles = 120
	cfg.Data.ValidationSplit = 0.25
	cfg.Run.Episodes = 2
	cfg.Journal.DBPath = filepath.Join(dir, "gym.db")
	cfg.Log.Level = "error"

	path := filepath.Join(dir, "gym.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tradegym version dev\n", out)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "window 64")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env:\n  window_size: -3\n"), 0644))

	_, err := execute(t, "config", "validate", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRunJournalsToSQLite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSmallConfig(t, dir)
	xlsx := filepath.Join(dir, "last.xlsx")

	out, err := execute(t, "--config", cfgPath, "run", "--policy", "threshold", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, `Running 2 episode(s) of "threshold"`)
	assert.Contains(t, out, "EPISODE STATISTICS")
	assert.Contains(t, out, "Validation on")
	assert.FileExists(t, xlsx)

	j, err := journal.NewSQLite(filepath.Join(dir, "gym.db"))
	require.NoError(t, err)
	defer j.Close()

	eps, err := j.ListEpisodes(0)
	require.NoError(t, err)
	require.Len(t, eps, 3)
	for _, e := range eps {
		assert.Equal(t, "threshold", e.Policy)
	}

	out, err = execute(t, "--config", cfgPath, "journal", "episodes")
	require.NoError(t, err)
	assert.Contains(t, out, eps[0].ID)

	out, err = execute(t, "--config", cfgPath, "journal", "trades", "no-such-episode")
	require.NoError(t, err)
	assert.Contains(t, out, "No trades")
}

func TestRunUnknownPolicy(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSmallConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "run", "--policy", "ppo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown policy")
}

func TestRunWithCSVData(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSmallConfig(t, dir)

	rows := []string{"timestamp,open,high,low,close,volume"}
	price := 100.0
	for i := 0; i < 40; i++ {
		if i%3 == 0 {
			price *= 0.98
		} else {
			price *= 1.011
		}
		p := strconv.FormatFloat(price, 'f', 4, 64)
		ts := strconv.FormatInt(1704067200000+int64(i)*3600000, 10)
		rows = append(rows, strings.Join([]string{ts, p, p, p, p, "10"}, ","))
	}
	csvPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(strings.Join(rows, "\n")+"\n"), 0644))

	out, err := execute(t, "--config", cfgPath, "run", "--data", csvPath, "--episodes", "1", "--policy", "hold")
	require.NoError(t, err)
	assert.Contains(t, out, "prices.csv train")
}

func TestJournalWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Journal = config.JournalConfig{Type: "none"}
	path := filepath.Join(dir, "gym.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	_, err := execute(t, "--config", path, "journal", "episodes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no journal database")
}
