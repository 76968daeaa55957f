package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, File)

	cfg := Default("Effective Altruism Australia")
	cfg.Statement.AccountID = "acct-123"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Effective Altruism Australia", loaded.Organization.Name)
	assert.Equal(t, BackendCSV, loaded.Store.Backend)
	assert.Equal(t, 32, loaded.Statement.DaysToImport)
	assert.Equal(t, "acct-123", loaded.Statement.AccountID)
	assert.True(t, loaded.Git.AutoCommit)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), File))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, File)
	require.NoError(t, os.WriteFile(path, []byte("organization: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestBalanceStartDate(t *testing.T) {
	cfg := Default("org")
	d, err := cfg.BalanceStartDate()
	require.NoError(t, err)
	assert.Equal(t, 2016, d.Year())
	assert.Equal(t, 31, d.Day())

	cfg.Fiscal.BalanceStart = "not-a-date"
	_, err = cfg.BalanceStartDate()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte(EnvDatabaseDSN+"=postgres://localhost/pledgebook\n"), 0o644))
	t.Setenv(EnvDatabaseDSN, "")
	os.Unsetenv(EnvDatabaseDSN)

	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "postgres://localhost/pledgebook", DatabaseDSN())
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadEnv(t.TempDir()))
}
