package commands

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report Link Graph connectivity statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Scan(cmd.Context()); err != nil {
			return err
		}
		if csvOutput {
			return report.WriteStatsCSV(cmd.OutOrStdout(), m.Stats())
		}
		return report.WriteStatsJSON(cmd.OutOrStdout(), m.Stats())
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
