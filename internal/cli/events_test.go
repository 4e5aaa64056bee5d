package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/holical/internal/ir"
)

func TestEvents_AddAndList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "family.db")

	out, _, err := execute(NewEventsCommand(&RootOptions{Format: "text"}),
		"add", "--db", db, "--kind", "birth", "--name", "Ada", "--date", "1988-12-10")
	require.NoError(t, err)
	assert.Equal(t, "✓ Added 1988-12-10 birth Ada\n", out)

	out, _, err = execute(NewEventsCommand(&RootOptions{Format: "text"}),
		"add", "--db", db, "--kind", "marriage", "--name", "Charles", "--spouse", "Mary",
		"--date", "1990-06-02", "--spouse-death", "2020-01-05")
	require.NoError(t, err)
	assert.Equal(t, "✓ Added 1990-06-02 marriage Charles & Mary (spouse died 2020-01-05)\n", out)

	out, _, err = execute(NewEventsCommand(&RootOptions{Format: "text"}), "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t,
		"   1  1988-12-10 birth Ada\n"+
			"   2  1990-06-02 marriage Charles & Mary (spouse died 2020-01-05)\n", out)
}

func TestEvents_AddJSONWithID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "family.db")

	out, _, err := execute(NewEventsCommand(&RootOptions{Format: "json"}),
		"add", "--db", db, "--id", "ada", "--kind", "birth", "--name", "Ada",
		"--date", "1988-12-10", "--death", "2060-01-01")
	require.NoError(t, err)

	var resp struct {
		Status string             `json:"status"`
		Data   ir.LifeEventRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ada", resp.Data.ID)
	assert.Equal(t, int64(1), resp.Data.Seq)
	assert.Equal(t, "1988-12-10", resp.Data.Date.String())
	require.NotNil(t, resp.Data.Death)
	assert.Equal(t, "2060-01-01", resp.Data.Death.String())
}

func TestEvents_ListJSON(t *testing.T) {
	db := seedEvents(t)

	out, _, err := execute(NewEventsCommand(&RootOptions{Format: "json"}), "list", "--db", db)
	require.NoError(t, err)

	var resp struct {
		Data EventsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Events, 3)
	assert.Equal(t, "Ada", resp.Data.Events[0].Name)
	assert.Equal(t, ir.KindMarriage, resp.Data.Events[1].Kind)
	assert.Equal(t, "Mary", resp.Data.Events[1].Spouse)
	assert.NotEmpty(t, resp.Data.Events[2].ID)
}

func TestEvents_ListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "empty.db")

	out, _, err := execute(NewEventsCommand(&RootOptions{Format: "text"}), "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No events.\n", out)
}

func TestEvents_AddRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"bad kind", []string{"--kind", "funeral", "--name", "Ada", "--date", "1988-12-10"}, ErrCodeBadFlag},
		{"bad date", []string{"--kind", "birth", "--name", "Ada", "--date", "1988-13-10"}, ErrCodeBadFlag},
		{"bad death", []string{"--kind", "birth", "--name", "Ada", "--date", "1988-12-10", "--death", "soon"}, ErrCodeBadFlag},
		{"marriage without spouse", []string{"--kind", "marriage", "--name", "Ada", "--date", "1988-12-10"}, ErrCodeStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := filepath.Join(t.TempDir(), "family.db")
			args := append([]string{"add", "--db", db}, tt.args...)

			_, _, err := execute(NewEventsCommand(&RootOptions{Format: "text"}), args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}

func TestEvents_RequiresDB(t *testing.T) {
	_, _, err := execute(NewEventsCommand(&RootOptions{Format: "text"}), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestDescribeEvent(t *testing.T) {
	death := ir.NewDate(2001, 1, 1)
	rec := ir.LifeEventRecord{
		Kind:  ir.KindBirth,
		Name:  "Grandpa",
		Date:  ir.NewDate(1920, 3, 3),
		Death: &death,
	}
	assert.Equal(t, "1920-03-03 birth Grandpa (died 2001-01-01)", describeEvent(rec))
}
