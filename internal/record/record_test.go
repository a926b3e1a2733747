package record

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFormatVolume(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.345, "12.345"},
		{0, "0.000"},
		{1.5, "1.500"},
		{2.0004, "2.000"},
		{1234567.8912, "1234567.891"},
	}
	for _, tc := range cases {
		if got := FormatVolume(tc.in); got != tc.want {
			t.Fatalf("FormatVolume(%v)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecordRow(t *testing.T) {
	r := Record{Date: "2024-01-01", Name: "Alice", Contact: "1234567890", Address: "12 Main St", TotalVolume: 12.345}
	want := []string{"2024-01-01", "Alice", "1234567890", "12 Main St", "12.345"}
	if got := r.Row(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Row()=%v, want %v", got, want)
	}
}

func TestRecordValidate(t *testing.T) {
	if err := (Record{TotalVolume: 0}).Validate(); err != nil {
		t.Fatalf("zero volume: %v", err)
	}
	for _, v := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := (Record{TotalVolume: v}).Validate(); !errors.Is(err, ErrInvalid) {
			t.Fatalf("Validate(%v) err=%v, want ErrInvalid", v, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	// "e" + combining acute folds to the precomposed form.
	r := Normalize(Record{Name: "  Jose\u0301 ", Address: "\tMain St\n", TotalVolume: math.Copysign(0, -1)})
	if r.Name != "Jos\u00e9" {
		t.Fatalf("Name=%q, want NFC form", r.Name)
	}
	if r.Address != "Main St" {
		t.Fatalf("Address=%q", r.Address)
	}
	if got := FormatVolume(r.TotalVolume); got != "0.000" {
		t.Fatalf("negative zero rendered as %q", got)
	}
}

func TestParseBatch_YAML(t *testing.T) {
	data := []byte(`
- date: 2024-01-01
  name: Alice
  contact: 1234567890
  address: 12 Main St
  total_volume: 12.345
- date: "2024-01-02"
  name: Bob
  contact: "555"
  address: 9 Elm Rd
  total_volume: 3
`)
	recs, err := ParseBatch(data)
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len=%d, want 2", len(recs))
	}
	if recs[0].Date != "2024-01-01" || recs[0].Contact != "1234567890" {
		t.Fatalf("recs[0]=%+v", recs[0])
	}
	if recs[1].TotalVolume != 3 {
		t.Fatalf("recs[1].TotalVolume=%v", recs[1].TotalVolume)
	}
}

func TestParseBatch_JSON(t *testing.T) {
	data := []byte(`[{"date":"2024-03-04","name":"Carol","contact":"1","address":"x","total_volume":0.5}]`)
	recs, err := ParseBatch(data)
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	if len(recs) != 1 || recs[0].Name != "Carol" {
		t.Fatalf("recs=%+v", recs)
	}
}

func TestParseBatch_Errors(t *testing.T) {
	if _, err := ParseBatch([]byte("- name: A\n  total_volume: -2\n")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("negative volume err=%v, want ErrInvalid", err)
	}
	if _, err := ParseBatch([]byte("- name: A\n  colour: red\n")); err == nil {
		t.Fatal("expected error for unknown field")
	}
	recs, err := ParseBatch([]byte("   \n"))
	if err != nil || len(recs) != 0 {
		t.Fatalf("empty batch: recs=%v err=%v", recs, err)
	}
}

func TestLoadBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")
	if err := os.WriteFile(path, []byte("- name: A\n  total_volume: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	recs, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len=%d, want 1", len(recs))
	}
	if _, err := LoadBatch(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
