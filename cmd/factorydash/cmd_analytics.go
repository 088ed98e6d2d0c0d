package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keerthikaa27/factory-order-dashboard/report"
	"github.com/keerthikaa27/factory-order-dashboard/views"
)

var analyticsYear string

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show sales totals by product and customer for a financial year",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := openCLI()
		if err != nil {
			return err
		}
		defer env.close()
		return runAnalytics(cmd, env, analyticsYear)
	},
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsYear, "fy", "", "financial year, e.g. 2024-2025 (config default when empty)")
}

func runAnalytics(cmd *cobra.Command, env *cliEnv, fy string) error {
	ctx := cmd.Context()
	if err := env.requireLogin(ctx); err != nil {
		return err
	}
	if fy == "" {
		fy = env.cfg.Analytics.DefaultFinancialYear
	}
	out := cmd.OutOrStdout()
	if !views.ValidFinancialYear(fy) {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("%q does not look like YYYY-YYYY; asking anyway", fy)))
	}

	a := views.NewAnalytics(env.client, fy, env.logger.Named("analytics"))
	res := a.Load(ctx)
	if !res.OK() && env.shell.Guard(ctx, res) != "" {
		return fmt.Errorf("session expired, token cleared: run `factorydash login` again")
	}
	st := res.Value

	if st.Summary != nil {
		fmt.Fprintln(out, titleStyle.Render("Financial year "+st.Summary.FinancialYear))
		fmt.Fprintf(out, "Total sales:    %s\n", report.Money(st.Summary.TotalSalesAmount))
		fmt.Fprintf(out, "Total quantity: %s\n\n", report.Count(st.Summary.TotalQuantity))
	}
	if len(st.Products) > 0 {
		fmt.Fprintln(out, titleStyle.Render("Sales by product"))
		fmt.Fprintln(out, productBars(st.Products))
	}
	if len(st.Customers) > 0 {
		fmt.Fprintln(out, titleStyle.Render("Sales by customer"))
		fmt.Fprintln(out, customerBars(st.Customers))
	}
	if !res.OK() {
		fmt.Fprintln(out, warnStyle.Render("Some figures could not be loaded: "+res.Err.Error()))
	}
	return nil
}
