// Command vlt is the vault management CLI: a cobra command tree over the
// Vault Manager, replacing the teacher's flat argv dispatch table.
package main

import (
	"fmt"
	"os"

	"github.com/RamXX/vlt/cmd/vlt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vlt: %v\n", err)
		os.Exit(1)
	}
}
