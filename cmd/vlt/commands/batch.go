package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RamXX/vlt/internal/batch"
	"github.com/RamXX/vlt/internal/editengine"
)

var batchFileFlag string

// batchOpJSON mirrors batch.Op with a JSON-friendly edit payload instead
// of pre-parsed editengine.Block values.
type batchOpJSON struct {
	Kind         string `json:"kind"`
	Path         string `json:"path"`
	Dest         string `json:"dest,omitempty"`
	Content      string `json:"content,omitempty"`
	EditPayload  string `json:"editPayload,omitempty"`
	ExpectedHash string `json:"expectedHash,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a sequence of file operations as one all-or-nothing transaction",
	Long:  "Reads a JSON array of operations from --file (or stdin) and executes them transactionally via the batch executor.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readBatchFile()
		if err != nil {
			return err
		}

		var jsonOps []batchOpJSON
		if err := json.Unmarshal(raw, &jsonOps); err != nil {
			return fmt.Errorf("parse batch file: %w", err)
		}

		ops := make([]batch.Op, len(jsonOps))
		for i, o := range jsonOps {
			op := batch.Op{
				Kind:         batch.Kind(o.Kind),
				Path:         o.Path,
				Dest:         o.Dest,
				Content:      []byte(o.Content),
				ExpectedHash: o.ExpectedHash,
			}
			if o.EditPayload != "" {
				op.EditBlocks = editengine.ParseBlocks(o.EditPayload)
			}
			ops[i] = op
		}

		m, err := openVault()
		if err != nil {
			return err
		}
		defer m.Close()

		result := m.ExecuteBatch(ops)
		if !result.Success {
			return fmt.Errorf("batch failed at operation %d: %w", result.FailingIndex, result.Error)
		}
		fmt.Printf("executed %d operations\n", result.ExecutedCount)
		return nil
	},
}

func readBatchFile() ([]byte, error) {
	if batchFileFlag == "" || batchFileFlag == "-" {
		return resolveContent("")
	}
	return os.ReadFile(batchFileFlag)
}

func init() {
	batchCmd.Flags().StringVar(&batchFileFlag, "file", "", "path to a JSON batch file (reads stdin if omitted or '-')")
	rootCmd.AddCommand(batchCmd)
}
