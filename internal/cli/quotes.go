package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mithrel/freightdesk/internal/editor"
	"github.com/mithrel/freightdesk/internal/nav"
	"github.com/mithrel/freightdesk/internal/present"
	"github.com/mithrel/freightdesk/internal/quotes"
	"github.com/mithrel/freightdesk/internal/wire"
)

func newQuotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quotes",
		Aliases: []string{"quote"},
		Short:   "Detailed freight quotes",
	}
	cmd.AddCommand(newQuotesListCmd())
	cmd.AddCommand(newQuotesShowCmd())
	cmd.AddCommand(newQuotesCreateCmd())
	cmd.AddCommand(newQuotesDeleteCmd())
	return cmd
}

func newQuotesListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List detailed quotes",
		RunE: runE(nav.DetailedQuote, func(cmd *cobra.Command, app *wire.App, args []string) error {
			list, err := app.Quotes.List(cmd.Context(), page)
			if err != nil {
				return err
			}
			return show(cmd, app, list, present.QuotesTable(list))
		}),
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newQuotesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(nav.DetailedQuoteHref(args[0]), func(cmd *cobra.Command, app *wire.App, args []string) error {
				q, err := app.Quotes.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return show(cmd, app, q, present.QuoteTable(q))
			})(cmd, args)
		},
	}
}

const quoteForm = `pickupLocation: {city: "", state: "", zip: ""}
deliveryLocation: {city: "", state: "", zip: ""}
pickupDate: ""        # YYYY-MM-DD
deliveryDate: ""
numberOfPieces: 1
weight: 0             # at least 0.1
dimensions: []        # - {length: 10, width: 20, height: 30}
freightClass: ""
commodityDescription: ""
hazardousMaterials: false
serviceLevel: Standard  # Standard, Expedited or Guaranteed
accessorialServices: [] # Liftgate
insurance: 0
companyName: ""
contactPerson: ""
phoneNumber: ""
emailAddress: ""
`

// decodeQuoteForm reads YAML, which also accepts JSON, through the JSON tags
// of quotes.Input.
func decodeQuoteForm(data []byte) (quotes.Input, error) {
	var in quotes.Input
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return in, err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return in, err
	}
	err = json.Unmarshal(b, &in)
	return in, err
}

// readQuoteInput loads the form from path, "-" for stdin.
func readQuoteInput(cmd *cobra.Command, path string) (quotes.Input, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return quotes.Input{}, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return quotes.Input{}, err
	}
	in, err := decodeQuoteForm(data)
	if err != nil {
		return in, fmt.Errorf("decode %s: %w", path, err)
	}
	return in, nil
}

func editQuoteInput() (quotes.Input, error) {
	path, err := editor.TempPath("quote.yaml")
	if err != nil {
		return quotes.Input{}, err
	}
	defer os.Remove(path)
	initial := editor.Compose([]string{
		"New detailed quote. Lines starting with '#' are ignored.",
		"Save and quit to submit; leave it unchanged to cancel.",
	}, quoteForm)
	out, changed, err := editor.OpenAt(path, []byte(initial))
	if err != nil {
		return quotes.Input{}, err
	}
	body, ok := editor.StripComments(string(out))
	if !changed || !ok {
		return quotes.Input{}, errors.New("quote form unchanged; nothing submitted")
	}
	return decodeQuoteForm([]byte(body))
}

func newQuotesCreateCmd() *cobra.Command {
	var file string
	var edit bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a detailed quote request from a YAML or JSON form",
		Example: `  freightdesk quotes create -f quote.yaml
  cat quote.json | freightdesk quotes create -f -
  freightdesk quotes create --edit`,
		RunE: runE(nav.DetailedQuote, func(cmd *cobra.Command, app *wire.App, args []string) error {
			var in quotes.Input
			var err error
			switch {
			case file != "":
				in, err = readQuoteInput(cmd, file)
			case edit:
				in, err = editQuoteInput()
			default:
				return errors.New("pass --file or --edit")
			}
			if err != nil {
				return err
			}
			q, err := app.Quotes.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			if q.Invalid() {
				return fmt.Errorf("quote rejected: %s", q.Text())
			}
			return show(cmd, app, q, present.QuoteTable(q))
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "form file (.yaml, .yml, .json or - for stdin)")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "fill the form in $EDITOR")
	return cmd
}

func newQuotesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a quote",
		Args:  cobra.ExactArgs(1),
		RunE: runE(nav.DetailedQuote, func(cmd *cobra.Command, app *wire.App, args []string) error {
			if err := app.Quotes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted quote %s\n", args[0])
			return nil
		}),
	}
}
