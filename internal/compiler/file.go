package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/holical/internal/ir"
)

// ErrUnsupportedFormat is returned by ReadTable for an unknown file extension.
var ErrUnsupportedFormat = errors.New("unsupported rule table format")

// Extensions lists the rule table file extensions ReadTable accepts.
var Extensions = []string{".cue", ".yaml", ".yml", ".xml"}

// ReadTable reads a rule table file, choosing the decoder by extension.
func ReadTable(path string) (*ir.RuleTable, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var decode func([]byte, string) (*ir.RuleTable, error)
	switch ext {
	case ".cue":
		decode = DecodeCUE
	case ".yaml", ".yml":
		decode = DecodeYAML
	case ".xml":
		decode = DecodeXML
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnsupportedFormat, ext, strings.Join(Extensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data, filepath.Base(path))
}
