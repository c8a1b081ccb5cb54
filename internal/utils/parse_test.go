package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	content := `
[match]
min_len = 3
bare_acronyms = false
markers = ["()", "[]"]

[theme]
card_width = 300
offset_dy = 4.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := ParseTOMLWithRecovery(path)
	if err != nil {
		t.Fatal(err)
	}

	match, ok := ExtractSection(data, "match")
	if !ok {
		t.Fatal("missing [match] section")
	}
	if v, ok := ExtractInt64(match, "min_len"); !ok || v != 3 {
		t.Errorf("min_len = %d, %v", v, ok)
	}
	if v, ok := ExtractBool(match, "bare_acronyms"); !ok || v {
		t.Errorf("bare_acronyms = %v, %v", v, ok)
	}
	if v, ok := ExtractStringSlice(match, "markers"); !ok || !reflect.DeepEqual(v, []string{"()", "[]"}) {
		t.Errorf("markers = %v, %v", v, ok)
	}

	theme, _ := ExtractSection(data, "theme")
	if v, ok := ExtractFloat(theme, "card_width"); !ok || v != 300 {
		t.Errorf("card_width = %v, %v", v, ok)
	}
	if v, ok := ExtractFloat(theme, "offset_dy"); !ok || v != 4.5 {
		t.Errorf("offset_dy = %v, %v", v, ok)
	}
	if _, ok := ExtractString(theme, "card_width"); ok {
		t.Error("ExtractString accepted a number")
	}
}

func TestExtractStringSliceRejectsMixedTypes(t *testing.T) {
	data := map[string]any{"markers": []any{"()", int64(3)}}
	if _, ok := ExtractStringSlice(data, "markers"); ok {
		t.Error("mixed array accepted")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	if FileExists(dir) {
		t.Error("directory reported as file")
	}
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("existing file not found")
	}
}
