package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cal2gutenprint/internal/accumulate"
)

func TestWriteTableDefaults(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, accumulate.DefaultParams())
	out := buf.String()

	for _, want := range []string{
		"CALCULATED GUTENPRINT PARAMETERS",
		"--- Cyan Channel ---",
		"--- Black Channel ---",
		"--- Global ---",
		"LightCyanValue              0.3500  Lower=Uses More Light Ink",
		"CompositeGamma              1.0000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	// All fifteen parameters appear.
	for _, name := range accumulate.DefaultParams().Names() {
		if !strings.Contains(out, name) {
			t.Fatalf("table output missing parameter %s", name)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")

	params := accumulate.DefaultParams()
	params.Set(accumulate.CyanGamma, 0.82)
	params.Set(accumulate.LightMagentaTrans, 0.55)

	if err := WriteJSON(path, params); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON() error: %v", err)
	}
	if got := loaded.Get(accumulate.CyanGamma); got != 0.82 {
		t.Fatalf("expected CyanGamma 0.82, got %v", got)
	}
	if got := loaded.Get(accumulate.LightMagentaTrans); got != 0.55 {
		t.Fatalf("expected LightMagentaTrans 0.55, got %v", got)
	}
	// Untouched parameters come back as defaults.
	if got := loaded.Get(accumulate.BlackGamma); got != 1.0 {
		t.Fatalf("expected BlackGamma 1.0, got %v", got)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
