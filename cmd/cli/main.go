package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/fincontrol/internal/adapter/http/dto"
)

const tokenEnv = "FINCONTROL_TOKEN"

type options struct {
	baseURL string
	token   string
	timeout time.Duration
	rawJSON bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "fincontrol-cli",
		Short:         "FinControl CLI tool",
		Long:          `A command line interface for the FinControl personal finance API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the FinControl API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv(tokenEnv), "Bearer token (defaults to $"+tokenEnv+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&opts.rawJSON, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(healthCmd(opts), loginCmd(opts), dashboardCmd(opts))
	return rootCmd
}

func (o *options) client() *apiClient {
	return newAPIClient(o.baseURL, o.token, o.timeout)
}

func (o *options) authedClient() (*apiClient, error) {
	if o.token == "" {
		return nil, errors.New("no token: pass --token or set " + tokenEnv)
	}
	return o.client(), nil
}

func healthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result map[string]string
			if err := opts.client().get(cmd.Context(), "/ready", nil, &result); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", result["status"])
			return nil
		},
	}
}

func loginCmd(opts *options) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.AuthResponse
			req := dto.LoginRequest{Email: email, Password: password}
			if err := opts.client().post(cmd.Context(), "/api/v1/auth/login", req, &resp); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func dashboardCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard views",
	}
	cmd.AddCommand(balanceCmd(opts), summaryCmd(opts), indicatorsCmd(opts), recentCmd(opts))
	return cmd
}

func balanceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the consolidated balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.BalanceResponse
			if err := fetch(cmd.Context(), opts, "/api/v1/dashboard/balance", nil, &resp); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total\t%s\n", resp.TotalBalance.StringFixed(2))
			for _, kind := range resp.Kinds() {
				fmt.Fprintf(tw, "  %s\t%s\n", kind, resp.BalanceByKind[kind].StringFixed(2))
			}
			for _, acc := range resp.Accounts {
				marker := ""
				if acc.IsPrimary {
					marker = " *"
				}
				fmt.Fprintf(tw, "%s%s\t%s\n", acc.Name, marker, acc.Balance.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func summaryCmd(opts *options) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income and expenses for a period (current month by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (start == "") != (end == "") {
				return errors.New("--start and --end must be given together")
			}
			query := url.Values{}
			if start != "" {
				query.Set("start_date", start)
				query.Set("end_date", end)
			}

			var resp dto.SummaryResponse
			if err := fetch(cmd.Context(), opts, "/api/v1/dashboard/summary", query, &resp); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Period\t%s .. %s\n", resp.StartDate.Format("2006-01-02"), resp.EndDate.Format("2006-01-02"))
			fmt.Fprintf(tw, "Income\t%s\t(%d)\n", resp.TotalIncome.StringFixed(2), resp.IncomeTransactions)
			fmt.Fprintf(tw, "Expenses\t%s\t(%d)\n", resp.TotalExpenses.StringFixed(2), resp.ExpenseTransactions)
			fmt.Fprintf(tw, "Net\t%s\n", resp.NetBalance.StringFixed(2))
			if c := resp.ExpensesComparison; c != nil {
				fmt.Fprintf(tw, "Expenses vs previous\t%s%%\n", c.VariationPct.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Period end (YYYY-MM-DD)")
	return cmd
}

func indicatorsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "indicators",
		Short: "Show the health score, indicators and alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.IndicatorsResponse
			if err := fetch(cmd.Context(), opts, "/api/v1/dashboard/indicators", nil, &resp); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Health score: %d/100\n", resp.HealthScore)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, ind := range resp.Indicators {
				fmt.Fprintf(tw, "%s\t%s %s\t%s\n", ind.Name, ind.Value.StringFixed(2), ind.Unit, ind.Status)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, alert := range resp.Alerts {
				fmt.Fprintf(out, "[%s] %s: %s\n", alert.Severity, alert.Title, alert.Message)
			}
			for _, s := range resp.Suggestions {
				fmt.Fprintf(out, "Tip: %s\n", s.Title)
			}
			return nil
		},
	}
}

func recentCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RecentActivityResponse
			if err := fetch(cmd.Context(), opts, "/api/v1/dashboard/recent-transactions", nil, &resp); err != nil {
				return err
			}
			if opts.rawJSON {
				return printJSON(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, tx := range resp.Transactions {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					tx.Date.Format("2006-01-02"), tx.Kind, tx.Amount.StringFixed(2),
					tx.CategoryName, truncate(tx.Description, 40))
			}
			return tw.Flush()
		},
	}
}

func fetch(ctx context.Context, opts *options, path string, query url.Values, out any) error {
	client, err := opts.authedClient()
	if err != nil {
		return err
	}
	return client.get(ctx, path, query, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
