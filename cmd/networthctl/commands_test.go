package main

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/networth/backend/src/services"
)

func newEnv(t *testing.T) (*cliEnv, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &cliEnv{dbPath: filepath.Join(t.TempDir(), "cli.db"), currency: "USD", out: &out}, &out
}

// run parses args the way the commander would and executes cmd.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

func seedUser(t *testing.T, env *cliEnv) int64 {
	t.Helper()
	db, err := env.open()
	require.NoError(t, err)
	defer db.Close()
	u, err := services.NewUserService(db).CreateUser(context.Background(), "cli")
	require.NoError(t, err)
	return u.ID
}

func TestMigrateCommand(t *testing.T) {
	env, out := newEnv(t)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &migrateCmd{env: env}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &migrateCmd{env: env}))
	assert.Contains(t, out.String(), "is up to date")
}

func TestAddAccountAndOverview(t *testing.T) {
	env, out := newEnv(t)
	userID := seedUser(t, env)
	user := strconv.FormatInt(userID, 10)

	assert.Equal(t, subcommands.ExitSuccess, run(t, &addAccountCmd{env: env}, "-user", user, "-name", "Checking", "-initial", "1234.50"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &addAccountCmd{env: env}, "-user", user, "-name", "Visa", "-type", "credit_card", "-initial", "234.50"))
	assert.Contains(t, out.String(), "$1,234.50")

	assert.Equal(t, subcommands.ExitFailure, run(t, &addAccountCmd{env: env}, "-user", user, "-name", "Bad", "-initial", "1.001"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &addAccountCmd{env: env}, "-user", user, "-name", "Bad", "-type", "PIGGY"))

	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, run(t, &overviewCmd{env: env}, "-user", user))
	report := out.String()
	assert.Contains(t, report, "Checking")
	assert.Contains(t, report, "Credit Card")
	assert.Regexp(t, `Net worth\s+\$1,000\.00`, report)

	assert.Equal(t, subcommands.ExitFailure, run(t, &overviewCmd{env: env}, "-user", "999"))
	assert.Equal(t, subcommands.ExitFailure, run(t, &overviewCmd{env: env}, "-user", user, "-date", "tomorrow"))
}

func TestRevalueCommand(t *testing.T) {
	env, out := newEnv(t)
	userID := seedUser(t, env)
	assert.Equal(t, subcommands.ExitSuccess, run(t, &addAccountCmd{env: env}, "-user", strconv.FormatInt(userID, 10), "-name", "Cabin", "-type", "REAL_ESTATE", "-initial", "100000"))

	out.Reset()
	assert.Equal(t, subcommands.ExitSuccess, run(t, &revalueCmd{env: env}))
	assert.Contains(t, out.String(), "Address to be updated")
	assert.Contains(t, out.String(), "processed 1, succeeded 1, failed 0")

	assert.Equal(t, subcommands.ExitFailure, run(t, &revalueCmd{env: env}, "-account", "999"))
}
