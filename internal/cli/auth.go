package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/freightdesk/internal/auth"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/util"
	"github.com/mithrel/freightdesk/internal/wire"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, register and manage the API session",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthMeCmd())
	cmd.AddCommand(newAuthVerifyCmd())
	return cmd
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func passwordFlag(cmd *cobra.Command, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	return readSecret(cmd, "Password: ")
}

func newAuthLoginCmd() *cobra.Command {
	var in auth.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: runE(nav.Login, func(cmd *cobra.Command, app *wire.App, args []string) error {
			pw, err := passwordFlag(cmd, in.Password)
			if err != nil {
				return err
			}
			in.Password = pw
			u, err := app.Auth.Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			if !u.OTPVerified() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "verification pending: %s\n", auth.VerifyHref(u, nav.Dashboard))
			}
			return show(cmd, app, u, present.UserTable(u))
		}),
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when empty)")
	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var in auth.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: runE(nav.Register, func(cmd *cobra.Command, app *wire.App, args []string) error {
			pw, err := passwordFlag(cmd, in.Password)
			if err != nil {
				return err
			}
			in.Password = pw
			u, err := app.Auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return show(cmd, app, u, present.UserTable(u))
		}),
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when empty)")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the API session",
		RunE: runE(nav.Dashboard, func(cmd *cobra.Command, app *wire.App, args []string) error {
			if err := app.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		}),
	}
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		RunE: runE(nav.Dashboard, func(cmd *cobra.Command, app *wire.App, args []string) error {
			u, err := app.Auth.Me(cmd.Context())
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("not signed in")
			}
			return show(cmd, app, u, present.UserTable(u))
		}),
	}
}

func newAuthVerifyCmd() *cobra.Command {
	var redirectTo string
	cmd := &cobra.Command{
		Use:   "verify-otp <code>",
		Short: "Submit the one-time password sent to your email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(nav.Href(nav.VerifyOTP, redirectTo), func(cmd *cobra.Command, app *wire.App, args []string) error {
				msg, err := app.Auth.VerifyOTP(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if msg != "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
				}
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&redirectTo, "redirect-to", "", "route to continue to after verification")
	_ = cmd.RegisterFlagCompletionFunc("redirect-to", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return util.ScoreCompletions(toComplete, nav.AppPaths, 10), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
