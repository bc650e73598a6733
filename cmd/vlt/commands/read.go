package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Print a note's raw content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		content, err := m.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(string(content))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
