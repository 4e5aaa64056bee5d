package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadReportConfig(t *testing.T) {
	path := writeConfig(t, `rules: holidays.xml
country: Canada
year: 2026
events_db: family.db
birthdays: false
text: [One, Two, Three]
on_error: abort
`)
	cfg, err := LoadReportConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "holidays.xml", cfg.Rules)
	assert.Equal(t, 2026, cfg.Year)
	assert.Equal(t, "family.db", cfg.EventsDB)
	require.NotNil(t, cfg.Birthdays)
	assert.False(t, *cfg.Birthdays)
	assert.Nil(t, cfg.Anniversaries)
	assert.Equal(t, []string{"One", "Two", "Three"}, cfg.Text)
}

func TestLoadReportConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "colour: red\n", "colour"},
		{"year too early", "year: 999\n", "out of range"},
		{"year too late", "year: 3001\n", "out of range"},
		{"too many text lines", "text: [a, b, c, d]\n", "at most 3"},
		{"bad policy", "on_error: retry\n", "invalid error policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReportConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadReportConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReportConfig_Merge(t *testing.T) {
	no := false
	cfg := DefaultReportConfig()
	cfg.merge(&ReportConfig{Country: "Canada", AliveOnly: &no, Text: []string{}})

	assert.Equal(t, "Canada", cfg.Country)
	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.True(t, *cfg.Birthdays)
	assert.False(t, *cfg.AliveOnly)
	assert.Empty(t, cfg.Text, "an explicit empty text list clears the footer")
	assert.Equal(t, "collect", cfg.OnError)
}
