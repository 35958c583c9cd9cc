package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"storevisit/internal/session"
)

func newTaxonomyCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Show the observation categories and their keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tax, err := session.LoadTaxonomy(cfg)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, tax.Categories())
			}
			rows := make([][]string, 0, tax.Len())
			for _, cat := range tax.Categories() {
				rows = append(rows, []string{cat.Name, cat.Description, strings.Join(cat.Keywords, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Category", "Description", "Keywords"},
				rows,
				nil,
				40,
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print categories as JSON")
	return cmd
}
