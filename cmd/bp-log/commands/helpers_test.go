package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/buttplug-go/buttplug/pkg/log"
	"github.com/buttplug-go/buttplug/pkg/message"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExtension)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close logger: %v", err)
	}
	return path
}

func messageEvent(ts time.Time, dir log.Direction, m message.Message) log.Event {
	return log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:    dir,
		Layer:        log.LayerServer,
		Category:     log.CategoryMessage,
		Message:      log.NewMessageEvent(m),
	}
}

func uint32Ptr(v uint32) *uint32 { return &v }
