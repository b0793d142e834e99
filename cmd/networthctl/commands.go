package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/models"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
	"github.com/username/networth/backend/src/utils"
)

// cliEnv is shared by every subcommand.
type cliEnv struct {
	dbPath         string
	currency       string
	valuationDelay time.Duration
	valuationTTL   time.Duration
	out            io.Writer
}

// open connects to the database and brings the schema up to date.
func (e *cliEnv) open() (*sql.DB, error) {
	db, err := database.Open(e.dbPath)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (e *cliEnv) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

func commands(env *cliEnv) []subcommands.Command {
	return []subcommands.Command{
		&migrateCmd{env: env},
		&addAccountCmd{env: env},
		&overviewCmd{env: env},
		&revalueCmd{env: env},
	}
}

type migrateCmd struct {
	env *cliEnv
}

func (*migrateCmd) Name() string             { return "migrate" }
func (*migrateCmd) Synopsis() string         { return "apply pending schema migrations" }
func (*migrateCmd) Usage() string            { return "networthctl [-db <path>] migrate\n" }
func (*migrateCmd) SetFlags(_ *flag.FlagSet) {}

func (c *migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.env.open()
	if err != nil {
		return c.env.fail(err)
	}
	defer db.Close()
	fmt.Fprintf(c.env.out, "database %s is up to date\n", c.env.dbPath)
	return subcommands.ExitSuccess
}

type addAccountCmd struct {
	env     *cliEnv
	userID  int64
	name    string
	typ     string
	initial string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "open an account with an initial balance" }
func (*addAccountCmd) Usage() string {
	return `networthctl add-account -user <id> -name <name> -type <TYPE> [-initial <amount>]

  Creates the account and, for a non-zero initial balance, its seed
  transaction in one step.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.userID, "user", 0, "Owner of the account.")
	f.StringVar(&c.name, "name", "", "Account name.")
	f.StringVar(&c.typ, "type", "CHECKING", "Account type, e.g. CHECKING or CREDIT_CARD.")
	f.StringVar(&c.initial, "initial", "0", "Initial balance; positive means owned for assets and owed for liabilities.")
}

func (c *addAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	accountType, err := models.ParseAccountType(c.typ)
	if err != nil {
		return c.env.fail(err)
	}
	initial, err := validation.ParseAmount(c.initial, "initial", validation.AnySign)
	if err != nil {
		return c.env.fail(err)
	}
	db, err := c.env.open()
	if err != nil {
		return c.env.fail(err)
	}
	defer db.Close()

	account, err := services.NewAccountService(db).CreateAccountWithInitialBalance(ctx, c.userID, c.name, accountType, initial)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.out, "created account %d (%s) with balance %s\n",
		account.ID, account.TypeName, utils.FormatCurrency(account.Balance, c.env.currency))
	return subcommands.ExitSuccess
}

type overviewCmd struct {
	env    *cliEnv
	userID int64
	asOf   string
}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "print a user's net worth and account balances" }
func (*overviewCmd) Usage() string {
	return "networthctl overview -user <id> [-date YYYY-MM-DD]\n"
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.userID, "user", 0, "User to report on.")
	f.StringVar(&c.asOf, "date", "", "Month for income and expenses (defaults to today).")
}

func (c *overviewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := models.Today()
	if c.asOf != "" {
		d, err := validation.ValidateDateString(c.asOf, "date")
		if err != nil {
			return c.env.fail(err)
		}
		asOf = d
	}
	db, err := c.env.open()
	if err != nil {
		return c.env.fail(err)
	}
	defer db.Close()

	overview, err := services.NewReportService(db).GetOverview(ctx, c.userID, asOf)
	if err != nil {
		return c.env.fail(err)
	}
	accounts, err := services.NewAccountService(db).ListAccounts(ctx, c.userID)
	if err != nil {
		return c.env.fail(err)
	}

	tw := tabwriter.NewWriter(c.env.out, 0, 4, 2, ' ', 0)
	for _, a := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Name, a.TypeName, utils.FormatCurrency(a.Balance, c.env.currency))
	}
	fmt.Fprintln(tw)
	for _, row := range []struct {
		label string
		value string
	}{
		{"Total assets", utils.FormatCurrency(overview.TotalAssets, c.env.currency)},
		{"Total liabilities", utils.FormatCurrency(overview.TotalLiabilities, c.env.currency)},
		{"Net worth", utils.FormatCurrency(overview.NetWorth, c.env.currency)},
		{"Cash", utils.FormatCurrency(overview.TotalCashBalance, c.env.currency)},
		{fmt.Sprintf("Income %d-%02d", asOf.Year(), int(asOf.Month())), utils.FormatCurrency(overview.MonthlyIncome, c.env.currency)},
		{fmt.Sprintf("Expenses %d-%02d", asOf.Year(), int(asOf.Month())), utils.FormatCurrency(overview.MonthlyExpenses, c.env.currency)},
	} {
		fmt.Fprintf(tw, "%s\t\t%s\n", row.label, row.value)
	}
	if err := tw.Flush(); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

type revalueCmd struct {
	env       *cliEnv
	accountID int64
}

func (*revalueCmd) Name() string     { return "revalue" }
func (*revalueCmd) Synopsis() string { return "refresh automated property valuations" }
func (*revalueCmd) Usage() string {
	return `networthctl revalue [-account <id>]

  Without -account every property with auto-valuation enabled is revalued.
`
}

func (c *revalueCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.accountID, "account", 0, "Only revalue this REAL_ESTATE account.")
}

func (c *revalueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := c.env.open()
	if err != nil {
		return c.env.fail(err)
	}
	defer db.Close()

	job := services.NewValuationJob(db, services.DefaultValuationProviders(), c.env.valuationDelay, c.env.valuationTTL, c.env.currency)
	var results []models.ValuationResult
	if c.accountID > 0 {
		result, err := job.ProcessSingleProperty(ctx, c.accountID)
		if err != nil {
			return c.env.fail(err)
		}
		results = append(results, *result)
	} else {
		summary, err := job.ProcessAllProperties(ctx)
		if err != nil {
			return c.env.fail(err)
		}
		results = summary.Results
		defer fmt.Fprintf(c.env.out, "processed %d, succeeded %d, failed %d\n",
			summary.TotalProcessed, summary.SuccessCount, summary.ErrorCount)
	}

	for _, r := range results {
		status := utils.FormatCurrency(r.NewValue, c.env.currency)
		if !r.Success {
			status = r.Error
		}
		fmt.Fprintf(c.env.out, "%d\t%s\t%s\n", r.AccountID, r.Address, status)
	}
	return subcommands.ExitSuccess
}
