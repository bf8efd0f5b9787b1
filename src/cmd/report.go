package cmd

import (
	"budgee-analytics/src/engine"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var flagUser int64

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the analytics for one household",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Int64VarP(&flagUser, "user", "u", 0, "Household user id")
	_ = reportCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := cmd.OutOrStdout()

	cycle, err := a.svc.Cycle(ctx, flagUser, time.Time{})
	if err != nil {
		return err
	}
	printCycle(w, cycle.Current, cycle.Days)

	streak, err := a.svc.Streak(ctx, flagUser)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  streak unavailable: %v\n", err)
	} else {
		fmt.Fprintf(w, "  Streak           %d days\n", streak.Days)
	}

	burn, err := a.svc.BurnRate(ctx, flagUser, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  burn rate unavailable: %v\n", err)
	} else {
		fmt.Fprintf(w, "  Burn rate        %s (balance %.2f from %s, %s)\n",
			burn.Status, burn.Balance, burn.BalanceSource, formatDaysLeft(burn.DaysUntilZero))
	}

	candidate, err := a.svc.Recurring(ctx, flagUser)
	if err != nil {
		return err
	}
	if candidate != nil {
		fmt.Fprintf(w, "  Recurring        %s, %.2f x%d\n", candidate.RepresentativeName, candidate.Amount, candidate.Occurrences)
	} else {
		fmt.Fprintf(w, "  Recurring        none\n")
	}

	wealth, err := a.svc.NetWorth(ctx, flagUser)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  Net worth        %.2f (investments %.2f, cash %.2f)\n",
		wealth.NetWorth, wealth.InvestmentsValue, wealth.CashValue)
	return nil
}

func printCycle(w io.Writer, p engine.BillingPeriod, days int) {
	fmt.Fprintf(w, "  Cycle            %s to %s (%d days)\n",
		p.Start.Format("2006-01-02"), p.End.AddDate(0, 0, -1).Format("2006-01-02"), days)
}

func formatDaysLeft(d float64) string {
	if math.IsInf(d, 1) {
		return "not spending down"
	}
	return fmt.Sprintf("%.1f days to zero", d)
}
