package cmd

import (
	"encoding/json"
	"fmt"
	"io"
)

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
