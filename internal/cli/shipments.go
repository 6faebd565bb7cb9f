package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/wire"
)

func newShipmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "shipments",
		Aliases: []string{"shipment"},
		Short:   "Recent shipments and tracking",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "recent",
		Short: "List recent shipments",
		RunE: runE(nav.Dashboard, func(cmd *cobra.Command, app *wire.App, args []string) error {
			list, err := app.Shipments.Recent(cmd.Context())
			if err != nil {
				return err
			}
			return show(cmd, app, list, present.ShipmentsTable("Recent shipments", list))
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "track <tracking-number>",
		Short: "Track a shipment",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(nav.ShipmentTracker, func(cmd *cobra.Command, app *wire.App, args []string) error {
			number := ""
			if len(args) == 1 {
				number = args[0]
			}
			list, err := app.Shipments.Track(cmd.Context(), number)
			if err != nil {
				return err
			}
			return show(cmd, app, list, present.ShipmentsTable("Tracking "+number, list))
		}),
	})
	return cmd
}
