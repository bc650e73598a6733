package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var writeContentFlag string

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Create or overwrite a note's content",
	Long:  "Write replaces a note's entire content. If --content is omitted, content is read from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := resolveContent(writeContentFlag)
		if err != nil {
			return err
		}

		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.WriteFile(args[0], content); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", args[0], len(content))
		return nil
	},
}

func resolveContent(flagValue string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

func init() {
	writeCmd.Flags().StringVar(&writeContentFlag, "content", "", "note content (reads stdin if omitted)")
	rootCmd.AddCommand(writeCmd)
}
