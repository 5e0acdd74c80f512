// Package testutil holds fixtures shared by tests across packages.
package testutil

import (
	"os"
	"testing"
)

// EnvKeys lists every environment variable the bot reads.
var EnvKeys = []string{
	"APP_ENV",
	"BOT_TOKEN",
	"GUILD_ID",
	"LEDGER_BACKEND",
	"LEDGER_PATH",
	"CURRENCY_SYMBOL",
	"LOCALE",
}

// IsolateEnv moves the test into a fresh temporary directory and unsets
// every variable in EnvKeys. Both are restored when the test ends.
//
// Variables are unset rather than emptied so that godotenv, which never
// overrides a variable already present, can still load them from a .env
// file the test writes. Returns the directory.
func IsolateEnv(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range EnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}
