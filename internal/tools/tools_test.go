package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/swarm"
)

func newTestExecutor(t *testing.T) (*proc.Executor, *proc.Registry) {
	t.Helper()
	reg := proc.NewRegistry()
	return proc.NewExecutor(reg, proc.ExecSpawner{}, t.TempDir(), time.Minute, 64*1024), reg
}

func newTestControl(t *testing.T) *proc.Control {
	t.Helper()
	return proc.NewControl(proc.NewRegistry(), time.Second)
}

func TestRunToolSyncSuccess(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tool := &RunTool{Exec: exec}

	res, err := tool.Execute(context.Background(), `{"command": "echo hello"}`)
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Contains(t, res.Output, "hello")
}

func TestRunToolFailureCarriesExitCode(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tool := &RunTool{Exec: exec}

	res, err := tool.Execute(context.Background(), `{"command": "echo oops; exit 3"}`)
	require.NoError(t, err)
	assert.Contains(t, res.Error, "code 3")
	assert.Contains(t, res.Output, "oops")
}

func TestRunToolBackgroundsSlowCommands(t *testing.T) {
	exec, reg := newTestExecutor(t)
	tool := &RunTool{Exec: exec}

	res, err := tool.Execute(context.Background(), `{"command": "sleep 2", "timeout_seconds": 1}`)
	require.NoError(t, err)
	assert.Empty(t, res.Error)
	assert.Contains(t, res.Output, "background")

	records := reg.List("sleep")
	require.Len(t, records, 1)
	assert.Equal(t, proc.StateBackgrounded, records[0].State)

	// clean up the stray sleeper
	ctl := proc.NewControl(reg, time.Second)
	_, err = ctl.Kill(records[0].ID, 0)
	require.NoError(t, err)
}

func TestRunToolBadArgs(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tool := &RunTool{Exec: exec}

	res, err := tool.Execute(context.Background(), `{`)
	require.NoError(t, err)
	assert.Contains(t, res.Error, "invalid arguments")
}

func TestProcessesToolListsAndFilters(t *testing.T) {
	exec, reg := newTestExecutor(t)
	ctl := proc.NewControl(reg, time.Second)

	_, err := exec.Run(context.Background(), []string{"/bin/sh", "-c", "echo one"}, proc.ExecOptions{ForceSync: true})
	require.NoError(t, err)

	tool := &ProcessesTool{Ctl: ctl}
	res, err := tool.Execute(context.Background(), `{"filter": "echo one"}`)
	require.NoError(t, err)
	assert.Empty(t, res.Error)

	var records []proc.Record
	require.NoError(t, json.Unmarshal([]byte(res.Output), &records))
	require.Len(t, records, 1)
	assert.Equal(t, proc.StateCompleted, records[0].State)
}

func TestKillToolNotFound(t *testing.T) {
	tool := &KillTool{Ctl: newTestControl(t)}
	res, err := tool.Execute(context.Background(), `{"id": "missing"}`)
	require.NoError(t, err)
	assert.Contains(t, res.Error, "not found")
}

func TestKillToolUnknownSignal(t *testing.T) {
	tool := &KillTool{Ctl: newTestControl(t)}
	res, err := tool.Execute(context.Background(), `{"id": "x", "signal": "USR1"}`)
	require.NoError(t, err)
	assert.Contains(t, res.Error, "unknown signal")
}

func TestLogsToolReadsBackgroundedProcess(t *testing.T) {
	exec, reg := newTestExecutor(t)
	ctl := proc.NewControl(reg, time.Second)

	runRes, err := exec.Run(context.Background(), []string{"/bin/sh", "-c", "echo started; sleep 2"}, proc.ExecOptions{Timeout: 300 * time.Millisecond})
	require.NoError(t, err)
	require.True(t, runRes.Backgrounded)
	defer ctl.Kill(runRes.ID, 0)

	tool := &LogsTool{Ctl: ctl}
	require.Eventually(t, func() bool {
		res, err := tool.Execute(context.Background(), `{"id": "`+runRes.ID+`"}`)
		return err == nil && res.Error == "" && strings.Contains(res.Output, "started")
	}, 3*time.Second, 20*time.Millisecond)
}

func TestSwarmToolReport(t *testing.T) {
	tool := &SwarmTool{
		DefaultConcurrency: 2,
		Unit: func(ctx context.Context, task swarm.Task) (string, error) {
			if task.Target == "bad" {
				return "", errors.New("task failed")
			}
			return "ok", nil
		},
	}

	res, err := tool.Execute(context.Background(), `{"tasks": [
		{"target": "a", "instructions": "x"},
		{"target": "bad", "instructions": "y"},
		{"target": "c", "instructions": "z"}
	]}`)
	require.NoError(t, err)
	assert.Empty(t, res.Error)

	var report swarm.Report
	require.NoError(t, json.Unmarshal([]byte(res.Output), &report))
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, swarm.StatusFailed, report.PerTask[1].Status)
}

func TestSwarmToolEmptyTasksRejected(t *testing.T) {
	tool := &SwarmTool{DefaultConcurrency: 2}
	res, err := tool.Execute(context.Background(), `{"tasks": []}`)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Error)
}

func TestSwarmToolDefaultUnitRunsCommands(t *testing.T) {
	exec, _ := newTestExecutor(t)
	tool := &SwarmTool{Exec: exec, DefaultConcurrency: 2}

	res, err := tool.Execute(context.Background(), `{"tasks": [
		{"target": ".", "instructions": "echo swarm-unit"}
	]}`)
	require.NoError(t, err)
	assert.Empty(t, res.Error)

	var report swarm.Report
	require.NoError(t, json.Unmarshal([]byte(res.Output), &report))
	assert.Equal(t, 1, report.Succeeded)
	assert.Contains(t, report.PerTask[0].Output, "swarm-unit")
}
