// Package output provides machine-readable output for pakeforge list
// commands (history, builds, doctor) when --json is given.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PrintJSON writes the value as pretty-printed JSON to stdout.
func PrintJSON(v any) error {
	return FprintJSON(os.Stdout, v)
}

// FprintJSON writes the value as pretty-printed JSON to w.
func FprintJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
