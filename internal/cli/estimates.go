package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/estimates"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/wire"
	"github.com/mithrel/freightdesk/pkg/api"
)

func newEstimatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "estimates",
		Aliases: []string{"estimate"},
		Short:   "Quick freight estimates",
	}
	cmd.AddCommand(newEstimatesListCmd())
	cmd.AddCommand(newEstimatesCreateCmd())
	return cmd
}

func newEstimatesListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List estimates",
		RunE: runE(nav.QuickEstimate, func(cmd *cobra.Command, app *wire.App, args []string) error {
			p, err := app.Estimates.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return show(cmd, app, p, present.EstimatesTable(p))
		}),
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newEstimatesCreateCmd() *cobra.Command {
	var in estimates.Input
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request a quick estimate",
		RunE: runE(nav.QuickEstimate, func(cmd *cobra.Command, app *wire.App, args []string) error {
			est, err := app.Estimates.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			if est.Invalid() {
				return fmt.Errorf("estimate rejected: %s", est.Text())
			}
			p := api.Paged[estimates.Estimate]{Data: []estimates.Estimate{est}, Meta: api.Meta{Page: 1, TotalPages: 1, Total: 1}}
			return show(cmd, app, est, present.EstimatesTable(p))
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.Origin, "origin", "", "pickup city")
	f.StringVar(&in.Destination, "destination", "", "delivery city")
	f.Float64Var(&in.Weight, "weight", 0, "weight in kg")
	f.StringVar(&in.Dimensions, "dimensions", "", "LxWxH")
	f.StringVar(&in.Type, "type", "", "package type")
	f.IntVar(&in.Items, "items", 1, "number of items")
	return cmd
}
