package cli

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/present/format"
	"github.com/mithrel/freightdesk/internal/wire"
)

const defaultPager = "less -FRSX"

// show renders a result, through $PAGER when a human mode goes to a terminal.
func show(cmd *cobra.Command, app *wire.App, v any, t format.Table) error {
	opts, err := renderOpts(cmd, app)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts.Mode = present.Resolve(opts.Mode, out)
	switch opts.Mode {
	case present.ModePlain, present.ModePretty:
		if len(t.Rows) > 20 {
			return withPager(cmd.Context(), out, cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.Render(w, v, t, opts)
			})
		}
	}
	return present.Render(out, v, t, opts)
}

func withPager(ctx context.Context, out, errOut io.Writer, write func(io.Writer) error) error {
	outFile, ok := out.(*os.File)
	if !ok || !present.IsTerminal(out) {
		return write(out)
	}
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = outFile
	if errFile, ok := errOut.(*os.File); ok {
		cmd.Stderr = errFile
	} else {
		cmd.Stderr = os.Stderr
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	waitErr := cmd.Wait()
	if writeErr != nil {
		return writeErr
	}
	return waitErr
}
