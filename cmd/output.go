package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// addFormatFlag registers --format on cmd, bound to dst.
func addFormatFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVarP(dst, "format", "o", formatTable, "Output format: table, json or yaml")
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

// writeStructured prints v as JSON or YAML. It reports false for the
// table format so the caller can render its own view.
func writeStructured(format string, v any) (bool, error) {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return true, enc.Encode(v)
	}
	return false, checkFormat(format)
}
