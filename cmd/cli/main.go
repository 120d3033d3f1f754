// Command cli is a terminal client for the Strides API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/amirasaad/strides/pkg/config"
	accountweb "github.com/amirasaad/strides/webapi/account"
	transactionweb "github.com/amirasaad/strides/webapi/transaction"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

const usage = `Usage: cli [-api URL] [-email EMAIL] <command> [arguments]

Commands:
  accounts                     list accounts and balances
  transactions [account-id]    list recent transactions
  analysis <account-id>        credit card analysis
`

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

func main() {
	api := flag.String("api", config.GetEnv("STRIDES_API", "http://localhost:3000"), "base URL of the API")
	email := flag.String("email", os.Getenv("STRIDES_EMAIL"), "login email")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := newClient(strings.TrimRight(*api, "/"), nil)
	if err := login(ctx, c, *email, os.Stdin, os.Stdout); err != nil {
		_, _ = errColor.Fprintln(os.Stderr, "Login failed:", err)
		os.Exit(1)
	}
	if err := run(ctx, c, args, os.Stdout); err != nil {
		_, _ = errColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// login prompts for whatever credentials are missing. The password is read
// without echo when stdin is a terminal.
func login(ctx context.Context, c *client, email string, in *os.File, out io.Writer) error {
	reader := bufio.NewReader(in)
	if email == "" {
		fmt.Fprint(out, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return err
		}
		email = strings.TrimSpace(line)
	}

	password := os.Getenv("STRIDES_PASSWORD")
	if password == "" {
		fmt.Fprint(out, "Password: ")
		if term.IsTerminal(int(in.Fd())) {
			raw, err := term.ReadPassword(int(in.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return err
			}
			password = string(raw)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return err
			}
			password = strings.TrimSpace(line)
		}
	}

	if err := c.login(ctx, email, password); err != nil {
		return err
	}
	_, _ = okColor.Fprintln(out, "Logged in as", email)
	return nil
}

func run(ctx context.Context, c *client, args []string, out io.Writer) error {
	switch args[0] {
	case "accounts":
		accounts, err := c.accounts(ctx)
		if err != nil {
			return err
		}
		renderAccounts(out, accounts)
	case "transactions":
		accountID := ""
		if len(args) > 1 {
			accountID = args[1]
		}
		txs, err := c.transactions(ctx, accountID)
		if err != nil {
			return err
		}
		renderTransactions(out, txs)
	case "analysis":
		if len(args) < 2 {
			return fmt.Errorf("usage: analysis <account-id>")
		}
		a, err := c.analysis(ctx, args[1])
		if err != nil {
			return err
		}
		renderAnalysis(out, a)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func renderAccounts(out io.Writer, accounts []accountweb.AccountDTO) {
	if len(accounts) == 0 {
		_, _ = warnColor.Fprintln(out, "No accounts")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Name", "Provider", "Type", "Currency", "Balance", "Limit"})
	for _, a := range accounts {
		limit := "-"
		if a.CreditLimit != nil {
			limit = money(*a.CreditLimit)
		}
		table.Append([]string{
			a.ID.String(), a.AccountName, a.Provider, a.AccountType, a.Currency, money(a.Balance), limit,
		})
	}
	table.Render()
}

func renderTransactions(out io.Writer, txs []transactionweb.TransactionDTO) {
	if len(txs) == 0 {
		_, _ = warnColor.Fprintln(out, "No transactions")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Date", "Type", "Amount", "Account", "Notes"})
	for _, t := range txs {
		kind := t.Type
		if t.TransferDirection != nil {
			kind += " " + *t.TransferDirection
		}
		notes := ""
		if t.Notes != nil {
			notes = *t.Notes
		}
		table.Append([]string{
			t.Date.Format("2006-01-02"), kind, money(t.Amount), t.AccountID.String(), notes,
		})
	}
	table.Render()
}

func renderAnalysis(out io.Writer, a *accountweb.CreditAnalysisDTO) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Balance", money(a.CurrentBalance)})
	table.Append([]string{"Credit limit", money(a.CreditLimit)})
	table.Append([]string{"Available credit", money(a.AvailableCredit)})
	table.Append([]string{"Utilization", fmt.Sprintf("%.1f%%", a.CreditUtilization)})
	if a.MinimumPaymentDue != nil {
		table.Append([]string{"Minimum due", money(*a.MinimumPaymentDue)})
	}
	if a.DaysUntilDue != nil {
		table.Append([]string{"Days until due", fmt.Sprint(*a.DaysUntilDue)})
	}
	table.Append([]string{"Recommended payment", money(a.RecommendedPayment)})
	table.Render()

	if a.IsOverdue {
		_, _ = errColor.Fprintln(out, "Payment is overdue")
	}
	for _, o := range a.PaymentOptions {
		fmt.Fprintf(out, "  %-8s %10s  %s (%s)\n", o.Type, money(o.Amount), o.Description, o.Impact)
	}
}
