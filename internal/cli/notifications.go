package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/db"
	"github.com/mithrel/freightdesk/internal/notify"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/present/format"
	"github.com/mithrel/freightdesk/internal/util"
	"github.com/mithrel/freightdesk/internal/wire"
)

var errNoJournal = errors.New("notification journal disabled (notifications.persist = false)")

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notes"},
		Short:   "Notifications raised by earlier commands",
	}
	cmd.AddCommand(newNotificationsListCmd())
	cmd.AddCommand(newNotificationsClearCmd())
	return cmd
}

type window struct{ from, to time.Time }

// streamJournal pages through the journal, handing each batch inside w to fn.
func streamJournal(cmd *cobra.Command, j db.Journal, pageSize int, w window, fn func([]notify.Notification) error) error {
	cur := db.Cursor{}
	for {
		batch, next, err := j.List(cmd.Context(), cur, pageSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		kept := batch[:0]
		for _, n := range batch {
			if util.Within(n.Time, w.from, w.to) {
				kept = append(kept, n)
			}
		}
		if len(kept) > 0 {
			if err := fn(kept); err != nil {
				return err
			}
		}
		if next == cur {
			return nil
		}
		cur = next
	}
}

func newNotificationsListCmd() *cobra.Command {
	var pageSize int
	var since, until string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled notifications, oldest first",
		RunE: runE("", func(cmd *cobra.Command, app *wire.App, args []string) error {
			if app.Journal == nil {
				return errNoJournal
			}
			opts, err := renderOpts(cmd, app)
			if err != nil {
				return err
			}
			var win window
			if win.from, win.to, err = util.TimeRange(since, until, time.Now()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch present.Resolve(opts.Mode, out) {
			case present.ModeNDJSON:
				w := format.NewNDJSONStreamWriter(out)
				return streamJournal(cmd, app.Journal, pageSize, win, func(b []notify.Notification) error {
					for _, n := range b {
						if err := w.Write(n); err != nil {
							return err
						}
					}
					return nil
				})
			case present.ModePlain:
				headers := present.NotificationHeaders
				if !opts.Headers {
					headers = nil
				}
				w := format.NewPlainStreamWriter(out, headers)
				if err := streamJournal(cmd, app.Journal, pageSize, win, func(b []notify.Notification) error {
					return w.WriteRows(present.NotificationRows(b))
				}); err != nil {
					return err
				}
				return w.Close()
			}
			var all []notify.Notification
			if err := streamJournal(cmd, app.Journal, pageSize, win, func(b []notify.Notification) error {
				all = append(all, b...)
				return nil
			}); err != nil {
				return err
			}
			t := format.Table{Title: "Notifications", Headers: present.NotificationHeaders, Rows: present.NotificationRows(all)}
			return show(cmd, app, all, t)
		}),
	}
	cmd.Flags().IntVar(&pageSize, "page-size", 200, "journal rows read per batch")
	cmd.Flags().StringVar(&since, "since", "", "only newer than (e.g. 2h, 3d, 2025-05-01)")
	cmd.Flags().StringVar(&until, "until", "", "only older than")
	return cmd
}

func newNotificationsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every journaled notification",
		RunE: runE("", func(cmd *cobra.Command, app *wire.App, args []string) error {
			if app.Journal == nil {
				return errNoJournal
			}
			n, err := app.Journal.Clear(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d notifications\n", n)
			return nil
		}),
	}
}
