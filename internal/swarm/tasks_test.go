package swarm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTasksValid(t *testing.T) {
	data := []byte(`[
		{"target": "serviceA", "instructions": "run the checks"},
		{"target": "serviceB", "instructions": "rebuild"}
	]`)

	tasks, err := ParseTasks(data)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 0, tasks[0].Index)
	assert.Equal(t, "serviceA", tasks[0].Target)
	assert.Equal(t, "rebuild", tasks[1].Instructions)
}

func TestParseTasksRejectsEmptyArray(t *testing.T) {
	_, err := ParseTasks([]byte(`[]`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseTasksRejectsMissingFields(t *testing.T) {
	_, err := ParseTasks([]byte(`[{"target": "x"}]`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseTasks([]byte(`[{"target": "", "instructions": "y"}]`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseTasksRejectsUnknownFields(t *testing.T) {
	_, err := ParseTasks([]byte(`[{"target": "x", "instructions": "y", "priority": 5}]`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseTasksRejectsNonJSON(t *testing.T) {
	_, err := ParseTasks([]byte(`not json at all`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"target": ".", "instructions": "echo hi"}]`), 0o644))

	tasks, err := LoadTasks(path)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = LoadTasks(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
