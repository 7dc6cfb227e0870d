package calibration

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleResult = `{"success": true,
	"parameters": {"max_accel_x": 3000, "max_accel_y": 2800},
	"resonance_peaks": [{"axis": "x", "frequency": 42.5, "amplitude": 0.8}],
	"backlash_measurements": {"x": 0.02, "y": 0.03},
	"motor_currents": {"x": 0.9, "y": 0.9},
	"timestamp": 1769881410.5,
	"duration": 183.2,
	"vendor_extension": {"yes": "kept"}}`

func TestParseResult(t *testing.T) {
	r, err := ParseResult([]byte(sampleResult))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if r.IsZero() {
		t.Error("parsed result should not be zero")
	}
}

func TestParseResult_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"invalid json", `{"success": tru`},
		{"array", `[1,2,3]`},
		{"string", `"hello"`},
		{"number", `42`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseResult([]byte(tt.in)); err == nil {
				t.Errorf("ParseResult(%q) should fail", tt.in)
			}
		})
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	held, err := ParseResult([]byte(sampleResult))
	if err != nil {
		t.Fatal(err)
	}

	path, err := WriteExport(dir, held, now)
	if err != nil {
		t.Fatalf("WriteExport: %v", err)
	}
	if filepath.Base(path) != ExportFileName(now) {
		t.Errorf("export written to %q, want name %q", path, ExportFileName(now))
	}

	imported, err := LoadResult(path)
	if err != nil {
		t.Fatalf("LoadResult: %v", err)
	}

	// Deep equality through the canonical form.
	wantCanon, err := held.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	gotCanon, err := imported.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(wantCanon, gotCanon) {
		t.Errorf("round trip not canonical-equal:\nwant %s\ngot  %s", wantCanon, gotCanon)
	}

	// Unknown fields survive the trip.
	if !strings.Contains(string(gotCanon), "vendor_extension") {
		t.Error("unknown fields must survive export → import")
	}

	// A second export of the imported result is byte-identical to the file.
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	reExported, err := imported.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fileBytes, reExported) {
		t.Error("export(import(x)) should be byte-identical to the exported file")
	}
}

func TestExportFileName(t *testing.T) {
	now := time.UnixMilli(1769881410500)
	if got := ExportFileName(now); got != "nova_calibration_1769881410500.json" {
		t.Errorf("ExportFileName = %q", got)
	}
}

func TestWriteExport_NoResult(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteExport(dir, Result{}, time.Now()); err == nil {
		t.Fatal("exporting an empty result should fail")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be produced, found %d entries", len(entries))
	}
}

func TestWriteExport_CreatesDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "exports", "nested")
	held, _ := ParseResult([]byte(`{"success":true}`))

	if _, err := WriteExport(dir, held, time.Now()); err != nil {
		t.Fatalf("WriteExport into missing dir: %v", err)
	}
}

func TestWriteExport_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	held, _ := ParseResult([]byte(`{"success":true}`))
	if _, err := WriteExport(dir, held, time.Now()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly the export file, found %d entries", len(entries))
	}
}

func TestSummary(t *testing.T) {
	r, err := ParseResult([]byte(sampleResult))
	if err != nil {
		t.Fatal(err)
	}

	got := r.Summary()
	if !got.Success {
		t.Error("Summary.Success should be true")
	}
	if got.Parameters != 2 {
		t.Errorf("Summary.Parameters = %d, want 2", got.Parameters)
	}
	if got.ResonancePeaks != 1 {
		t.Errorf("Summary.ResonancePeaks = %d, want 1", got.ResonancePeaks)
	}
	if got.Duration != 183.2 {
		t.Errorf("Summary.Duration = %v, want 183.2", got.Duration)
	}
}

func TestSummary_EmptyResult(t *testing.T) {
	if got := (Result{}).Summary(); got != (Summary{}) {
		t.Errorf("zero result summary = %+v, want zero", got)
	}
}

func TestResultJSONPassthrough(t *testing.T) {
	r, err := ParseResult([]byte(`{"a":1,"b":{"c":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	out, err := r.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"a":1,"b":{"c":2}}` {
		t.Errorf("MarshalJSON altered the document: %s", out)
	}

	var back Result
	if err := back.UnmarshalJSON(out); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back.IsZero() {
		t.Error("unmarshalled result should hold the document")
	}

	if err := back.UnmarshalJSON([]byte(`not json`)); err == nil {
		t.Error("UnmarshalJSON should reject invalid input")
	}
}
