package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rebuild the parsed-file index and Link Graph from disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Scan(context.Background()); err != nil {
			return err
		}
		return printJSON(m.Stats())
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
