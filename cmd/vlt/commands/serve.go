package commands

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/mcptools"
)

var serveReadWriteFlag bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server exposing this vault's tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		s := server.NewMCPServer("vlt", "0.1.0")
		mcptools.Register(s, mcptools.Config{Manager: m, ReadWrite: serveReadWriteFlag})

		return server.ServeStdio(s)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveReadWriteFlag, "read-write", false, "allow mutating tools (write/edit/delete/move/batch)")
	rootCmd.AddCommand(serveCmd)
}
