package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/meinhoongagan/roadside-assist/pricing"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the active price tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		return printCatalog(cmd.OutOrStdout(), e.catalog)
	},
}

func printCatalog(out io.Writer, c *pricing.Catalog) error {
	l := c.Listing()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "MAIN SERVICES")
	for _, s := range l.Main {
		fmt.Fprintf(w, "  %v\t%s\t%.2f\n", s.ID, s.Name, s.Price)
	}
	fmt.Fprintln(w, "ADDITIONAL SERVICES")
	for _, s := range l.Additional {
		fmt.Fprintf(w, "  %v\t%s\t%.2f\n", s.ID, s.Name, s.Price)
	}

	fmt.Fprintln(w, "REQUEST TYPES")
	types := make([]string, 0, len(l.RequestTypes))
	for t := range l.RequestTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s\t%.2f\n", t, l.RequestTypes[t])
	}
	fmt.Fprintf(w, "  (default)\t%.2f\n", l.DefaultRequestAmount)
	return w.Flush()
}
