package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var copyFlag bool

var moveCmd = &cobra.Command{
	Use:   "move <source> <target>",
	Short: "Move or rename a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if copyFlag {
			if err := m.CopyFile(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("copied %s to %s\n", args[0], args[1])
			return nil
		}

		if err := m.MoveFile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("moved %s to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	moveCmd.Flags().BoolVar(&copyFlag, "copy", false, "copy instead of move, leaving the source in place")
	rootCmd.AddCommand(moveCmd)
}
