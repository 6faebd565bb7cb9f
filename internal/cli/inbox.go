package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/inbox"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/wire"
)

func newInboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Read the linked mailbox",
	}
	cmd.AddCommand(newInboxLoginCmd())
	cmd.AddCommand(newInboxLogoutCmd())
	cmd.AddCommand(newInboxListCmd())
	return cmd
}

func newInboxLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Link a mailbox with an app password",
		RunE: runE(nav.Inbox, func(cmd *cobra.Command, app *wire.App, args []string) error {
			pw, err := passwordFlag(cmd, password)
			if err != nil {
				return err
			}
			if err := app.Inbox.Login(cmd.Context(), email, pw); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Mailbox linked")
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "mailbox address")
	cmd.Flags().StringVar(&password, "password", "", "app password (prompted when empty)")
	return cmd
}

func newInboxLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Unlink the mailbox",
		RunE: runE(nav.Inbox, func(cmd *cobra.Command, app *wire.App, args []string) error {
			if err := app.Inbox.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Mailbox unlinked")
			return nil
		}),
	}
}

func newInboxListCmd() *cobra.Command {
	var opts inbox.ListOptions
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		RunE: runE(nav.Inbox, func(cmd *cobra.Command, app *wire.App, args []string) error {
			if opts.PageSize <= 0 {
				opts.PageSize = app.Cfg.GetInt("inbox.page_size")
			}
			p, err := app.Inbox.List(cmd.Context(), opts)
			if err != nil {
				if errors.Is(err, inbox.ErrNotSignedIn) {
					return fmt.Errorf("%w: run `freightdesk inbox login` first", err)
				}
				return err
			}
			p.Emails = inbox.Filter(p.Emails, filter)
			return show(cmd, app, p, present.EmailsTable(p))
		}),
	}
	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "messages per page (0 uses config)")
	cmd.Flags().StringVar(&opts.SortOrder, "sort", "desc", "asc or desc")
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy match on sender and subject")
	return cmd
}
