package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/freightdesk/internal/config"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

type globalFlags struct {
	cfgPath   string
	output    string
	noHeaders bool
	indent    bool
}

// NewRootCmd constructs the cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:           "freightdesk",
		Short:         "freightdesk: quotes, estimates, shipments and inbox from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if g.cfgPath != "" {
				v.SetConfigFile(g.cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				v.Set("output.mode", g.output)
			}
			app, err := wire.BuildApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&g.cfgPath, "config", "", "path to config file (toml|yaml)")
	pf.StringVarP(&g.output, "output", "o", "auto", "output mode: "+strings.Join(present.ModeNames(), "|"))
	pf.BoolVar(&g.noHeaders, "noheaders", false, "hide column headers (plain)")
	pf.BoolVar(&g.indent, "indent", false, "indent json output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return present.ModeNames(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newEstimatesCmd())
	cmd.AddCommand(newQuotesCmd())
	cmd.AddCommand(newShipmentsCmd())
	cmd.AddCommand(newInboxCmd())
	cmd.AddCommand(newDashboardCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newNotificationsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) (*wire.App, error) {
	app, ok := cmd.Context().Value(appKey).(*wire.App)
	if !ok {
		return nil, fmt.Errorf("internal error: app not initialized")
	}
	return app, nil
}

// runE adapts a command body that needs the App. Whatever the body returns,
// notifications raised and redirects requested during the call are reported
// on stderr and the session cookie is saved.
func runE(route string, body func(cmd *cobra.Command, app *wire.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := getApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()
		if route != "" {
			app.Nav.Visit(route)
		}
		seen := app.Notes.Len()

		runErr := body(cmd, app, args)

		errOut := cmd.ErrOrStderr()
		if list := app.Notes.List(); len(list) > seen {
			present.WriteNotices(errOut, list[seen:])
		}
		for _, href := range app.Nav.Redirects() {
			_, _ = fmt.Fprintf(errOut, "-> %s\n", href)
		}
		if err := app.SaveSession(); err != nil {
			app.Log.Warn("session not saved", zap.Error(err))
		}
		return runErr
	}
}

func renderOpts(cmd *cobra.Command, app *wire.App) (present.Options, error) {
	mode, ok := present.ParseMode(strings.ToLower(app.Cfg.GetString("output.mode")))
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", app.Cfg.GetString("output.mode"))
	}
	noHeaders, _ := cmd.Flags().GetBool("noheaders")
	indent, _ := cmd.Flags().GetBool("indent")
	return present.Options{Mode: mode, Headers: !noHeaders, JSONIndent: indent}, nil
}
