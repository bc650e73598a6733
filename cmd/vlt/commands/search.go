package commands

import (
	"github.com/spf13/cobra"
)

var searchLimitFlag int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over indexed note content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Scan(cmd.Context()); err != nil {
			return err
		}
		results, err := m.Search(cmd.Context(), args[0], searchLimitFlag)
		if err != nil {
			return err
		}
		return printJSON(results)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
