package output

import (
	"io"
	"strings"
)

// TextWriter prints one path per line. An empty list prints nothing.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(paths, "\n")+"\n")
	return err
}

// NullWriter terminates every path with a NUL byte.
type NullWriter struct{}

func (n *NullWriter) Write(w io.Writer, paths []string) error {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte(0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
