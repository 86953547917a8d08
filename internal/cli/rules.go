package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the loaded rule catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			for _, r := range cat.AllRules() {
				fmt.Printf("%-10s %-28s tier=%-6s indicators=%d\n", r.ID, r.Category, r.Tier, len(r.Indicators))
				fmt.Printf("           %s\n", r.Summary)
				for _, in := range r.Indicators {
					fmt.Printf("           - %s (%s, confidence %.2f)\n", in.ID, in.Kind, in.Confidence)
				}
			}
			return nil
		},
	}
}
