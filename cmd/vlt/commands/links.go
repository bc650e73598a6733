package commands

import (
	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/report"
)

var relatedHopsFlag int

var backlinksCmd = &cobra.Command{
	Use:   "backlinks <path>",
	Short: "List notes linking to the given note",
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
		printPaths(m.Backlinks(args[0]))
		return nil
	},
}

var forwardLinksCmd = &cobra.Command{
	Use:   "links <path>",
	Short: "List notes the given note links to",
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
		printPaths(m.ForwardLinks(args[0]))
		return nil
	},
}

var relatedCmd = &cobra.Command{
	Use:   "related <path>",
	Short: "List notes reachable within a bounded hop count, undirected",
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
		return printJSON(m.Related(args[0], relatedHopsFlag))
	},
}

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List notes with no incoming or outgoing links",
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
		printPaths(m.Orphans())
		return nil
	},
}

var unresolvedCmd = &cobra.Command{
	Use:   "unresolved",
	Short: "List links whose target note does not exist",
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
			return report.WriteBrokenLinksCSV(cmd.OutOrStdout(), m.BrokenLinks())
		}
		return printJSON(m.BrokenLinks())
	},
}

func init() {
	relatedCmd.Flags().IntVar(&relatedHopsFlag, "hops", 2, "maximum hop count")
	rootCmd.AddCommand(backlinksCmd, forwardLinksCmd, relatedCmd, orphansCmd, unresolvedCmd)
}
