// Package glossary loads acronym tables from disk into registry entries.
//
// Three formats are understood: TOML, line-oriented text, and a compact
// msgpack binary produced by WriteBinary.
package glossary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/glosstip/pkg/registry"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	binaryMagic      = "GLTP"
	binaryVersion    = 1
	binaryHeaderSize = len(binaryMagic) + 1
)

type tomlGlossary struct {
	Acronyms map[string]string `toml:"acronyms"`
	Entries  []registry.Entry  `toml:"entry"`
}

type binaryGlossary struct {
	Entries []registry.Entry `msgpack:"e"`
}

// Load reads a glossary file, choosing the parser by extension.
func Load(path string) ([]registry.Entry, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary %s: %w", path, err)
	}

	var entries []registry.Entry
	switch format {
	case FormatTOML:
		entries, err = ParseTOML(data)
	case FormatText:
		entries, err = ParseText(bytes.NewReader(data))
	case FormatBinary:
		entries, err = ParseBinary(data)
	default:
		err = fmt.Errorf("unsupported glossary format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse glossary %s: %w", path, err)
	}

	log.Debugf("Loaded %d glossary entries from %s (%s)", len(entries), path, format)
	return entries, nil
}

// LoadRegistry loads path into a registry. An empty path yields the builtin glossary.
func LoadRegistry(path string, caseInsensitive bool) (*registry.Registry, error) {
	if path == "" {
		log.Debug("No glossary path set, using builtin glossary")
		return registry.New(Builtin(), caseInsensitive), nil
	}
	entries, err := Load(path)
	if err != nil {
		return nil, err
	}
	return registry.New(entries, caseInsensitive), nil
}

// ParseTOML reads an [acronyms] table and/or [[entry]] items.
// Table keys are emitted in sorted order, followed by entries as written.
func ParseTOML(data []byte) ([]registry.Entry, error) {
	var g tomlGlossary
	if _, err := toml.Decode(string(data), &g); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(g.Acronyms))
	for k := range g.Acronyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]registry.Entry, 0, len(keys)+len(g.Entries))
	for _, k := range keys {
		entries = append(entries, registry.Entry{Key: k, Description: g.Acronyms[k]})
	}
	return append(entries, g.Entries...), nil
}

// ParseText reads one entry per line as "KEY<TAB>description" or
// "KEY = description". Blank lines and lines starting with # are skipped.
func ParseText(r io.Reader) ([]registry.Entry, error) {
	var entries []registry.Entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, desc, ok := strings.Cut(line, "\t")
		if !ok {
			key, desc, ok = strings.Cut(line, "=")
		}
		key, desc = strings.TrimSpace(key), strings.TrimSpace(desc)
		if !ok || key == "" {
			return nil, fmt.Errorf("line %d: expected KEY<TAB>description or KEY = description", lineNo)
		}
		entries = append(entries, registry.Entry{Key: key, Description: desc})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseBinary decodes a glossary written by WriteBinary.
func ParseBinary(data []byte) ([]registry.Entry, error) {
	if len(data) < binaryHeaderSize || string(data[:len(binaryMagic)]) != binaryMagic {
		return nil, fmt.Errorf("missing %s header", binaryMagic)
	}
	if v := data[len(binaryMagic)]; v != binaryVersion {
		return nil, fmt.Errorf("unsupported binary glossary version %d", v)
	}
	var g binaryGlossary
	if err := msgpack.Unmarshal(data[binaryHeaderSize:], &g); err != nil {
		return nil, err
	}
	return g.Entries, nil
}

// WriteBinary compiles entries into the msgpack binary format.
func WriteBinary(w io.Writer, entries []registry.Entry) error {
	if _, err := io.WriteString(w, binaryMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{binaryVersion}); err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(binaryGlossary{Entries: entries})
}

// Compile converts any supported glossary file into the binary format at dst.
func Compile(src, dst string) (int, error) {
	entries, err := Load(src)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteBinary(w, entries); err != nil {
		return 0, err
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return len(entries), nil
}
