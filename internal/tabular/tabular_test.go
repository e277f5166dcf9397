package tabular

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestImport_CSV(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "members.csv", "name,email,memberNumber\nA,a@x.com,1\nB,b@x.com,2\nC,c@x.com,3\n")

	records, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if got := records[1].Get("email"); got != "b@x.com" {
		t.Fatalf("record value mismatch: %q", got)
	}
	if len(records[0].Headers) != 3 || records[0].Headers[2] != "memberNumber" {
		t.Fatalf("headers mismatch: %v", records[0].Headers)
	}
}

func TestImport_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "members.txt", "not tabular")

	if _, err := Import(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRoundTrip_CSV(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Headers: []string{"name", "email"}, Values: map[string]string{"name": "A", "email": "a@x.com"}},
		{Headers: []string{"name", "email"}, Values: map[string]string{"name": "B", "email": "b@x.com"}},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, records); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		for _, h := range records[i].Headers {
			if got[i].Get(h) != records[i].Get(h) {
				t.Fatalf("record %d field %q: got %q want %q",
					i, h, got[i].Get(h), records[i].Get(h))
			}
		}
	}
}

func TestRoundTrip_Excel(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Headers: []string{"name", "city"}, Values: map[string]string{"name": "A", "city": "Riga"}},
		{Headers: []string{"name", "city"}, Values: map[string]string{"name": "B", "city": "Oslo"}},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteExcel(path, records); err != nil {
		t.Fatalf("WriteExcel error: %v", err)
	}

	got, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Get("city") != "Riga" || got[1].Get("city") != "Oslo" {
		t.Fatalf("values mismatch: %v / %v", got[0].Values, got[1].Values)
	}
}

func TestRecord_JSON(t *testing.T) {
	t.Parallel()

	rec := Record{
		Headers: []string{"b", "a"},
		Values:  map[string]string{"b": "2", "a": "1"},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	// column order preserved on marshal
	if string(data) != `{"b":"2","a":"1"}` {
		t.Fatalf("unexpected JSON: %s", data)
	}

	var back Record
	if err := json.Unmarshal([]byte(`{"n": 3, "s": "x", "empty": null}`), &back); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if back.Get("n") != "3" || back.Get("s") != "x" || back.Get("empty") != "" {
		t.Fatalf("values mismatch: %v", back.Values)
	}
	// key order of the submitted object is kept
	if len(back.Headers) != 3 || back.Headers[0] != "n" || back.Headers[1] != "s" || back.Headers[2] != "empty" {
		t.Fatalf("headers mismatch: %v", back.Headers)
	}
}
