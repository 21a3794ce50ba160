package output

import (
	"fmt"
	"io"
	"os"
)

// Writer writes a list of paths in a specific format.
type Writer interface {
	Write(w io.Writer, paths []string) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "null":
		return &NullWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WritePaths writes paths to outPath, or to stdout when outPath is empty.
func WritePaths(paths []string, format, outPath string) error {
	return WritePathsTo(os.Stdout, paths, format, outPath)
}

// WritePathsTo is WritePaths with an explicit stdout.
func WritePathsTo(stdout io.Writer, paths []string, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	if outPath == "" {
		return writer.Write(stdout, paths)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writer.Write(f, paths); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
