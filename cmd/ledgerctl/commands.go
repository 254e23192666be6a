package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/core/services"
	"github.com/SscSPs/fintech_ledger/internal/events"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/SscSPs/fintech_ledger/internal/platform/storage"
	"github.com/SscSPs/fintech_ledger/internal/utils"
	pkgredis "github.com/SscSPs/fintech_ledger/pkg/redis"
	"github.com/google/subcommands"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// opener builds the service container and returns a function releasing it.
type opener func(ctx context.Context) (*portssvc.ServiceContainer, func(), error)

var (
	open     opener    = openConfigured
	stdout   io.Writer = os.Stdout
	commands           = []subcommands.Command{
		&reconcileCmd{},
		&reconcileAccountCmd{},
		&anomaliesCmd{},
		&rangeReportCmd{},
	}
)

// openConfigured wires services exactly like the server does.
func openConfigured(ctx context.Context) (*portssvc.ServiceContainer, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{repos.Close}

	var rdb redis.UniversalClient
	if cfg.EventsDriver == config.EventsRedis {
		client, err := pkgredis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = repos.Close()
			return nil, nil, err
		}
		rdb = client
		closers = append(closers, client.Close)
	}
	publisher, err := events.NewPublisher(cfg, rdb)
	if err != nil {
		for _, c := range closers {
			_ = c()
		}
		return nil, nil, err
	}
	closers = append(closers, publisher.Close)

	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}
	return services.NewServiceContainer(cfg, repos, publisher), release, nil
}

// run opens the services, calls fn and maps its error to an exit status.
func run(ctx context.Context, fn func(*portssvc.ServiceContainer) error) subcommands.ExitStatus {
	svc, release, err := open(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer release()
	if err := fn(svc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errUsage = errors.New("missing required flag")

func requireFlags(f *flag.FlagSet, names ...string) error {
	for _, n := range names {
		if f.Lookup(n).Value.String() == "" {
			return fmt.Errorf("%w -%s", errUsage, n)
		}
	}
	return nil
}

type reconcileCmd struct {
	owner string
	tx    string
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "apply a transaction's pending balance effect" }
func (*reconcileCmd) Usage() string {
	return `ledgerctl reconcile -owner <owner_id> -tx <transaction_id>

  Brings the account balance in line with the transaction's current revision,
  or finishes a delete that was interrupted. Running it twice is harmless.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner of the transaction.")
	f.StringVar(&c.tx, "tx", "", "Transaction ID.")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := requireFlags(f, "owner", "tx"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(svc *portssvc.ServiceContainer) error {
		res, err := svc.Ledger.ReconcileTransaction(ctx, c.owner, c.tx)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("transaction %s not found for owner %s", c.tx, c.owner)
		}
		fmt.Fprintf(stdout, "transaction=%s account=%s applied=%t removed=%t balance=%s version=%d\n",
			res.TransactionID, res.AccountID, res.Applied, res.Removed, res.Balance, res.Version)
		return nil
	})
}

type reconcileAccountCmd struct {
	owner   string
	account string
}

func (*reconcileAccountCmd) Name() string     { return "reconcile-account" }
func (*reconcileAccountCmd) Synopsis() string { return "recompute an account balance from its transactions" }
func (*reconcileAccountCmd) Usage() string {
	return `ledgerctl reconcile-account -owner <owner_id> -account <account_id>
`
}

func (c *reconcileAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.owner, "owner", "", "Owner of the account.")
	f.StringVar(&c.account, "account", "", "Account ID.")
}

func (c *reconcileAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := requireFlags(f, "owner", "account"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(svc *portssvc.ServiceContainer) error {
		acc, err := svc.Ledger.ReconcileAccount(ctx, c.owner, c.account)
		if err != nil {
			return err
		}
		if acc == nil {
			return fmt.Errorf("account %s not found for owner %s", c.account, c.owner)
		}
		fmt.Fprintf(stdout, "account=%s balance=%s %s version=%d\n",
			acc.AccountID, utils.FormatWithCurrencyPrecision(acc.Balance, acc.Currency), acc.Currency, acc.Version)
		return nil
	})
}

type anomaliesCmd struct {
	threshold string
}

func (*anomaliesCmd) Name() string     { return "anomalies" }
func (*anomaliesCmd) Synopsis() string { return "list transactions above a threshold across all owners" }
func (*anomaliesCmd) Usage() string {
	return `ledgerctl anomalies -threshold <amount>
`
}

func (c *anomaliesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.threshold, "threshold", "", "Amounts strictly greater than this are flagged.")
}

func (c *anomaliesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	threshold, err := decimal.NewFromString(c.threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing threshold: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(svc *portssvc.ServiceContainer) error {
		txs, err := svc.Anomaly.DetectAnomalies(ctx, threshold)
		if err != nil {
			return err
		}
		return printTransactions(stdout, txs, svc.Reporting.CalculateTotalAmount(txs))
	})
}

type rangeReportCmd struct {
	start string
	end   string
}

func (*rangeReportCmd) Name() string     { return "range-report" }
func (*rangeReportCmd) Synopsis() string { return "list transactions of all owners within a date range" }
func (*rangeReportCmd) Usage() string {
	return `ledgerctl range-report -start <date> -end <date>

  Dates are RFC 3339 timestamps or YYYY-MM-DD. A bare end date covers the
  whole day. Both bounds are inclusive.
`
}

func (c *rangeReportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "First instant of the range.")
	f.StringVar(&c.end, "end", "", "Last instant of the range.")
}

func (c *rangeReportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := parseBound(c.start, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := parseBound(c.end, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	return run(ctx, func(svc *portssvc.ServiceContainer) error {
		txs, err := svc.Reporting.GetTransactionsByDateRange(ctx, start, end)
		if err != nil {
			return err
		}
		return printTransactions(stdout, txs, svc.Reporting.CalculateTotalAmount(txs))
	})
}

// parseBound accepts RFC 3339 or a plain date. A plain end date means the
// last nanosecond of that day.
func parseBound(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}

func printTransactions(w io.Writer, txs []domain.Transaction, total decimal.Decimal) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(tw, "DATE\tOWNER\tACCOUNT\tTYPE\tAMOUNT\tTRANSACTION\t")
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s %s\t%s\t\n",
			t.TransactionDate.Format(time.DateOnly), t.OwnerID, t.AccountID, t.Type,
			utils.FormatWithCurrencyPrecision(t.Amount, t.Currency), t.Currency, t.TransactionID)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d transactions, raw total %s\n", len(txs), total)
	return err
}

type adminKeyCmd struct {
	bytes int
}

func (*adminKeyCmd) Name() string     { return "admin-key" }
func (*adminKeyCmd) Synopsis() string { return "generate an operator key and its bcrypt hash" }
func (*adminKeyCmd) Usage() string {
	return `ledgerctl admin-key [-bytes <n>]

  Prints a new key for the X-Admin-Key header and the value to put in
  ADMIN_API_KEY_HASH. Only the hash belongs in the server's environment.
`
}

func (c *adminKeyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.bytes, "bytes", 32, "Random bytes in the key.")
}

func (c *adminKeyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, hash, err := utils.GenerateAdminKey(c.bytes)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "key:  %s\nhash: %s\n", key, hash)
	return subcommands.ExitSuccess
}
