package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-applyform"
)

func catalogCmd(a *app) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "catalog [NAME]",
		Short: "List option catalogs or the options of one catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := applyform.LoadCatalogs(a.cfg.CatalogDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, name := range store.Names() {
					cat, _ := store.Catalog(name)
					label := cat.Label
					if label == "" {
						label = name
					}
					count := len(cat.Options())
					suffix := ""
					if cat.AllowOther {
						count--
						suffix = ", free text allowed"
					}
					fmt.Fprintf(out, "%-16s %s (%d options%s)\n", name, label, count, suffix)
				}
				return nil
			}

			cat, ok := store.Catalog(args[0])
			if !ok {
				return fmt.Errorf("unknown catalog %q (available: %s)", args[0], strings.Join(store.Names(), ", "))
			}
			for _, opt := range cat.Search(search) {
				fmt.Fprintln(out, opt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive substring filter")

	return cmd
}
