package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/bookmarks"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked notes (.obsidian/bookmarks.json)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := vaultRoot()
		if err != nil {
			return err
		}
		bm, err := bookmarks.Load(root)
		if err != nil {
			return err
		}
		printPaths(bookmarks.Flatten(bm.Items))
		return nil
	},
}

var bookmarksAddCmd = &cobra.Command{
	Use:   "bookmarks:add <path>",
	Short: "Bookmark a note by its vault-relative path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := vaultRoot()
		if err != nil {
			return err
		}
		bm, err := bookmarks.Load(root)
		if err != nil {
			return err
		}
		if !bookmarks.Add(&bm, args[0]) {
			fmt.Printf("already bookmarked: %s\n", args[0])
			return nil
		}
		if err := bookmarks.Save(root, &bm); err != nil {
			return err
		}
		fmt.Printf("bookmarked: %s\n", args[0])
		return nil
	},
}

var bookmarksRemoveCmd = &cobra.Command{
	Use:   "bookmarks:remove <path>",
	Short: "Remove a bookmark by its vault-relative path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := vaultRoot()
		if err != nil {
			return err
		}
		bm, err := bookmarks.Load(root)
		if err != nil {
			return err
		}
		if !bookmarks.Remove(&bm, args[0]) {
			return fmt.Errorf("bookmark not found for %q", args[0])
		}
		if err := bookmarks.Save(root, &bm); err != nil {
			return err
		}
		fmt.Printf("unbookmarked: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd, bookmarksAddCmd, bookmarksRemoveCmd)
}
