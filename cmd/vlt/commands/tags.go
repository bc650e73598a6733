package commands

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/vaultquery"
)

var tagsSortFlag string

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in the vault, with note counts",
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

		sortBy := vaultquery.SortAlpha
		if tagsSortFlag == "count" {
			sortBy = vaultquery.SortCount
		}
		return printJSON(m.Tags(sortBy))
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <name>",
	Short: "List notes carrying the given tag or one of its subtags",
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
		printPaths(m.NotesWithTag(args[0]))
		return nil
	},
}

func init() {
	tagsCmd.Flags().StringVar(&tagsSortFlag, "sort", "alpha", "sort order: alpha or count")
	rootCmd.AddCommand(tagsCmd, tagCmd)
}
