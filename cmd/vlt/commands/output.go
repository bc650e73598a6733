package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
)

// printPaths renders a list of vault-relative paths honoring the
// --json/--csv persistent flags, falling back to one path per line.
func printPaths(paths []string) {
	switch {
	case jsonOutput:
		data, _ := json.MarshalIndent(paths, "", "  ")
		fmt.Fprintln(rootCmd.OutOrStdout(), string(data))
	case csvOutput:
		w := csv.NewWriter(rootCmd.OutOrStdout())
		w.Write([]string{"path"})
		for _, p := range paths {
			w.Write([]string{p})
		}
		w.Flush()
	default:
		for _, p := range paths {
			fmt.Fprintln(rootCmd.OutOrStdout(), p)
		}
	}
}

// printJSON renders any value as JSON, used for the commands whose
// output has no plain-text equivalent worth maintaining separately.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(rootCmd.OutOrStdout(), string(data))
	return nil
}
