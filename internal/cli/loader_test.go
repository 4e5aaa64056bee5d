package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable_AllFormats(t *testing.T) {
	for _, path := range []string{holidaysYAML, holidaysCUE, holidaysXML} {
		table, err := LoadTable(path)
		require.NoError(t, err, path)
		assert.Len(t, table.Countries, 2)
	}
}

func TestLoadTable_Errors(t *testing.T) {
	dir := t.TempDir()
	badCUE := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(badCUE, []byte("countries: [{name: 1, dates: []}]\n"), 0644))
	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("countries: [{name: X, colour: red}]\n"), 0644))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "missing.yaml"), ErrCodeNotFound},
		{"unsupported", filepath.Join(dir, "rules.json"), ErrCodeUnsupported},
		{"bad cue", badCUE, ErrCodeLoadFailed},
		{"bad yaml", badYAML, ErrCodeLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTable(tt.path)
			require.Error(t, err)
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeNotFound, Message: "rules file not found: x"}
	assert.Equal(t, "E005: rules file not found: x", err.Error())
}
