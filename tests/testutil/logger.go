package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/ccm/internal/logging"
)

// TestLogger captures log output for validation in tests.
//
//	logger := NewTestLogger(t, true)
//	store := profile.NewStore(dir, profile.WithLogger(logger.Logger))
//	...
//	logger.AssertNotContains(t, "sk-secret")
type TestLogger struct {
	*logging.Logger
	buf *syncBuffer
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestLogger creates a colourless logger writing to memory.
func NewTestLogger(t *testing.T, debug bool) *TestLogger {
	t.Helper()

	buf := &syncBuffer{}
	return &TestLogger{
		Logger: logging.NewWithWriter(buf, debug, true),
		buf:    buf,
	}
}

// GetOutput returns everything logged so far.
func (l *TestLogger) GetOutput() string {
	return l.buf.String()
}

// AssertContains checks that the log output contains the expected string.
func (l *TestLogger) AssertContains(t *testing.T, expected string) {
	t.Helper()
	assert.Contains(t, l.GetOutput(), expected)
}

// AssertNotContains checks that the log output does not contain the string.
func (l *TestLogger) AssertNotContains(t *testing.T, unexpected string) {
	t.Helper()
	assert.NotContains(t, l.GetOutput(), unexpected)
}

// Lines returns the non-empty log lines.
func (l *TestLogger) Lines() []string {
	var out []string
	for _, line := range strings.Split(l.GetOutput(), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
