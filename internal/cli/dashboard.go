package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/dashboard"
	"github.com/mithrel/freightdesk/internal/health"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/wire"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Overview of API health, shipments, estimates and quotes",
		RunE: runE(nav.Dashboard, func(cmd *cobra.Command, app *wire.App, args []string) error {
			s, err := dashboard.Load(cmd.Context(), dashboard.Sources{
				API:       app.API,
				Shipments: app.Shipments,
				Estimates: app.Estimates,
				Quotes:    app.Quotes,
			})
			if err != nil {
				return err
			}
			return show(cmd, app, s, present.DashboardTable(s))
		}),
	}
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API health endpoint",
		RunE: runE("", func(cmd *cobra.Command, app *wire.App, args []string) error {
			st, err := health.Check(cmd.Context(), app.API)
			if err != nil {
				return err
			}
			if !st.OK {
				return fmt.Errorf("api reports unhealthy")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}),
	}
}
