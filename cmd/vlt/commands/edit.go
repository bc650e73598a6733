package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/editengine"
)

var (
	editPayloadFlag string
	editHashFlag    string
	editDryRunFlag  bool
)

var editCmd = &cobra.Command{
	Use:   "edit <path>",
	Short: "Apply a SEARCH/REPLACE edit payload to a note",
	Long: `Edit applies one or more

<<<<<<< SEARCH
old text
=======
new text
>>>>>>> REPLACE

blocks to a note, all-or-nothing. --hash optionally guards against a
concurrent modification since the content was last read.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := resolveContent(editPayloadFlag)
		if err != nil {
			return err
		}
		blocks := editengine.ParseBlocks(string(content))
		if len(blocks) == 0 {
			return fmt.Errorf("payload contains no valid SEARCH/REPLACE blocks")
		}

		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		result, err := m.EditFile(args[0], blocks, editHashFlag, editDryRunFlag)
		if err != nil {
			return err
		}
		if editDryRunFlag {
			fmt.Print(result.Diff)
			return nil
		}
		fmt.Printf("edited %s (%s -> %s)\n", args[0], result.OldHash[:12], result.NewHash[:12])
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editPayloadFlag, "payload", "", "SEARCH/REPLACE payload (reads stdin if omitted)")
	editCmd.Flags().StringVar(&editHashFlag, "hash", "", "expected SHA-256 content hash; rejects a stale edit")
	editCmd.Flags().BoolVar(&editDryRunFlag, "dry-run", false, "compute and print the diff without writing")
	rootCmd.AddCommand(editCmd)
}
