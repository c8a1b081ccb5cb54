package glossary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the supported glossary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // [acronyms] table and/or [[entry]] array
	FormatText               // KEY<TAB>description or KEY = description per line
	FormatBinary             // msgpack-compiled glossary
)

// FormatInfo contains metadata about a glossary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Glossary",
		Extensions:  []string{".toml"},
		MinSize:     0,
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Glossary",
		Extensions:  []string{".txt", ".tsv"},
		MinSize:     0,
	},
	FormatBinary: {
		Format:      FormatBinary,
		Description: "Compiled Binary Glossary",
		Extensions:  []string{".bin", ".msgpack"},
		MinSize:     int64(binaryHeaderSize),
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			log.Debugf("Glossary file %s validated as %s", filename, formatInfo.Description)
			return nil
		}
	}
	return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
		filename, ext, formatInfo.Description, formatInfo.Extensions)
}

// DetectFileFormat picks a format from the file extension and validates it
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateFileFormat(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}
