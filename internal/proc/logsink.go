package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// completionMarker is the terminal line the sink appends once the process
// exits. Control can later confirm completion by re-reading the log without
// probing the OS.
const completionMarkerPrefix = "=== hive: process exited with code "

// LogSink owns one process's append-only log file. The file is created empty
// before the process starts, so readers never race a missing path. The
// spawned process appends through its own copy of the descriptor (File), and
// O_APPEND keeps its writes whole next to the sink's own appends: the
// completion marker, and session output pumped from a PTY.
//
// Readers go through ReadLog with their own handle.
type LogSink struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	failed bool
}

func OpenLogSink(path string) (*LogSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log sink: %w", err)
	}
	return &LogSink{f: f, path: path}, nil
}

func (s *LogSink) Path() string { return s.path }

// File exposes the underlying descriptor so a spawned process can write to
// the log directly. The child's write path then survives this process.
func (s *LogSink) File() *os.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f
}

// Append writes and flushes a chunk. A disk error flips the sink into a
// failed state instead of crashing the writing goroutine; the process's exit
// is still observed and recorded through the registry.
func (s *LogSink) Append(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed || len(p) == 0 {
		return
	}
	if _, err := s.f.Write(p); err != nil {
		s.failed = true
		return
	}
	if err := s.f.Sync(); err != nil {
		s.failed = true
	}
}

// MarkCompletion appends the terminal marker line.
func (s *LogSink) MarkCompletion(exitCode int) {
	s.Append([]byte(fmt.Sprintf("\n%s%d ===\n", completionMarkerPrefix, exitCode)))
}

// Failed reports whether a write failed mid-stream.
func (s *LogSink) Failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

func (s *LogSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.f.Close()
}

// ReadLog returns the whole log, or its last tail lines when tail > 0.
func ReadLog(path string, tail int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}
	content := string(data)
	if tail <= 0 {
		return content, nil
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) <= tail {
		return content, nil
	}
	return strings.Join(lines[len(lines)-tail:], "\n") + "\n", nil
}

// CompletionExitCode scans log content for the completion marker and returns
// the recorded exit code if present.
func CompletionExitCode(content string) (int, bool) {
	idx := strings.LastIndex(content, completionMarkerPrefix)
	if idx < 0 {
		return 0, false
	}
	rest := content[idx+len(completionMarkerPrefix):]
	end := strings.Index(rest, " ===")
	if end < 0 {
		return 0, false
	}
	code, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
	if err != nil {
		return 0, false
	}
	return code, true
}
