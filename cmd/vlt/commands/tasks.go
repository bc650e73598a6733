package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List every checkbox task in the vault",
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
		return printJSON(m.Tasks())
	},
}

var tasksToggleCmd = &cobra.Command{
	Use:   "tasks:toggle <path> <line>",
	Short: "Flip a checkbox task between done and not done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var line int
		if _, err := fmt.Sscanf(args[1], "%d", &line); err != nil {
			return fmt.Errorf("line must be a number: %w", err)
		}

		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Scan(cmd.Context()); err != nil {
			return err
		}
		result, err := m.ToggleTask(args[0], line)
		if err != nil {
			return err
		}
		fmt.Printf("toggled %s:%d (%s -> %s)\n", args[0], line, result.OldHash[:12], result.NewHash[:12])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd, tasksToggleCmd)
}
