package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mediascan/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mediascan.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastReturnsTrailingLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	lines, offset, err := logs.Last(path, 2)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 6 {
		t.Fatalf("expected offset 6, got %d", offset)
	}

	lines, _, err = logs.Last(path, 10)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 3 || lines[0] != "a" {
		t.Fatalf("expected every line when limit exceeds count, got %#v", lines)
	}
}

func TestLastLeavesPartialLine(t *testing.T) {
	path := writeLog(t, "one\ntwo\npart")

	lines, offset, err := logs.Last(path, 5)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "two" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 8 {
		t.Fatalf("expected offset to stop before the partial line, got %d", offset)
	}
}

func TestLastZeroLimitSeeksToEnd(t *testing.T) {
	path := writeLog(t, "a\nb\n")
	lines, offset, err := logs.Last(path, 0)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 0 || offset != 4 {
		t.Fatalf("expected no lines at offset 4, got %#v at %d", lines, offset)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.log")
	lines, offset, err := logs.Last(path, 5)
	if err != nil || len(lines) != 0 || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
	lines, offset, err = logs.ReadFrom(path, 10)
	if err != nil || len(lines) != 0 || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestDirectoryIsRejected(t *testing.T) {
	if _, _, err := logs.Last(t.TempDir(), 1); err == nil {
		t.Fatal("expected error for a directory")
	}
}

func TestReadFromRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "fresh\n")
	lines, offset, err := logs.ReadFrom(path, 100)
	if err != nil {
		t.Fatalf("ReadFrom returned error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "fresh" || offset != 6 {
		t.Fatalf("unexpected result %#v at %d", lines, offset)
	}
}

func TestFollowDeliversAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, func(line string) {
			mu.Lock()
			got = append(got, line)
			n := len(got)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
		})
	}()

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := file.WriteString("next\nlast\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	file.Close()

	if err := <-done; err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "next" || got[1] != "last" {
		t.Fatalf("unexpected followed lines: %#v", got)
	}
}
