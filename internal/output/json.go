package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the paths as a JSON array.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
