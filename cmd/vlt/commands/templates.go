package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/templates"
)

var (
	templateApplyName string
	templateApplyPath string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List Markdown templates in the vault's configured template folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := vaultRoot()
		if err != nil {
			return err
		}
		names, err := templates.List(root)
		if err != nil {
			return err
		}
		printPaths(names)
		return nil
	},
}

var templatesApplyCmd = &cobra.Command{
	Use:   "templates:apply <template>",
	Short: "Create a new note from a template, substituting {{title}}/{{date}}/{{time}}",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if templateApplyName == "" || templateApplyPath == "" {
			return fmt.Errorf("templates:apply requires --name and --path")
		}

		root, err := vaultRoot()
		if err != nil {
			return err
		}

		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		if err := templates.Apply(m, root, args[0], templateApplyName, templateApplyPath); err != nil {
			return err
		}
		fmt.Printf("created %s from template %q\n", templateApplyPath, args[0])
		return nil
	},
}

func init() {
	templatesApplyCmd.Flags().StringVar(&templateApplyName, "name", "", "note title substituted for {{title}}")
	templatesApplyCmd.Flags().StringVar(&templateApplyPath, "path", "", "vault-relative path for the new note")
	rootCmd.AddCommand(templatesCmd, templatesApplyCmd)
}
