package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, []string{"a.go", "pkg/b.go"}); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var got []string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0] != "a.go" || got[1] != "pkg/b.go" {
		t.Errorf("decoded = %v, want [a.go pkg/b.go]", got)
	}
}

func TestJSONWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty output = %q, want %q", buf.String(), "[]\n")
	}
}
