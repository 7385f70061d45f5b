package proc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSinkCreatesFileBeforeAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.log")
	sink, err := OpenLogSink(path)
	require.NoError(t, err)
	defer sink.Close()

	// readers must never race a missing file
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLogSinkAppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.log")
	sink, err := OpenLogSink(path)
	require.NoError(t, err)

	sink.Append([]byte("line one\n"))
	sink.Append([]byte("line two\n"))

	// readable while the sink is still open
	content, err := ReadLog(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", content)

	sink.Close()
}

func TestLogSinkTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.log")
	sink, err := OpenLogSink(path)
	require.NoError(t, err)
	sink.Append([]byte("a\nb\nc\nd\n"))
	sink.Close()

	tail, err := ReadLog(path, 2)
	require.NoError(t, err)
	assert.Equal(t, "c\nd\n", tail)

	// asking for more lines than exist returns everything
	all, err := ReadLog(path, 100)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\nd\n", all)
}

func TestLogSinkCompletionMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.log")
	sink, err := OpenLogSink(path)
	require.NoError(t, err)
	sink.Append([]byte("output\n"))
	sink.MarkCompletion(7)
	sink.Close()

	content, err := ReadLog(path, 0)
	require.NoError(t, err)

	code, ok := CompletionExitCode(content)
	require.True(t, ok)
	assert.Equal(t, 7, code)
}

func TestCompletionExitCodeAbsent(t *testing.T) {
	_, ok := CompletionExitCode("just some output\nno marker here\n")
	assert.False(t, ok)
}

func TestLogSinkWriteFailureDoesNotPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.log")
	sink, err := OpenLogSink(path)
	require.NoError(t, err)

	// closing the handle out from under the sink simulates a disk error
	sink.Close()
	sink.Append([]byte("after close\n"))
	assert.True(t, sink.Failed())

	// further appends are no-ops, not panics
	sink.Append([]byte("more\n"))
	sink.MarkCompletion(0)
}
