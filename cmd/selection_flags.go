package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris/gdpdash/internal/session"
)

// selectionFlags are the flags that pick the initial countries and years.
// Unset flags keep the default selection.
type selectionFlags struct {
	countries   []string
	from        int
	to          int
	noCountries bool
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.countries, "country", "c", nil, "Country to include (repeatable, default: all)")
	cmd.Flags().IntVar(&f.from, "from", 0, "First year to include (default: first year in the data)")
	cmd.Flags().IntVar(&f.to, "to", 0, "Last year to include (default: last year in the data)")
	cmd.Flags().BoolVar(&f.noCountries, "no-countries", false, "Start with no countries selected")
}

// apply replaces the parts of the session's selection that were given on
// the command line. Unknown countries are reported on stderr and dropped.
func (f *selectionFlags) apply(cmd *cobra.Command, sess *session.Session) error {
	sel := sess.Selection()
	table := sess.Table()

	switch {
	case f.noCountries:
		sel.Countries = nil
	case cmd.Flags().Changed("country"):
		sel.Countries = nil
		for _, c := range f.countries {
			if !table.Has(c) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: unknown country %q\n", c)
				continue
			}
			sel.Countries = append(sel.Countries, c)
		}
	}

	if cmd.Flags().Changed("from") {
		sel.Range.Min = f.from
	}
	if cmd.Flags().Changed("to") {
		sel.Range.Max = f.to
	}

	_, err := sess.Apply(sel)
	return err
}
