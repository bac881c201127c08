// Package logging writes JSON-lines logs to a file. The terminal is
// owned by the TUI, so nothing here ever touches stdout.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type entry struct {
	Level   string         `json:"level"`
	Time    string         `json:"time"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

var (
	mu  sync.Mutex
	out io.Writer = io.Discard
)

// Init directs log output to the given file, creating directories as
// needed. Before Init (and in tests) logging is discarded.
func Init(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	mu.Lock()
	out = f
	mu.Unlock()
	return nil
}

// Log writes one JSON log line.
func Log(level, msg string, fields map[string]any) {
	e := entry{
		Level:   level,
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Message: msg,
		Fields:  fields,
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	out.Write(append(b, '\n'))
}

func Info(msg string, fields map[string]any)  { Log("info", msg, fields) }
func Warn(msg string, fields map[string]any)  { Log("warn", msg, fields) }
func Error(msg string, fields map[string]any) { Log("error", msg, fields) }
