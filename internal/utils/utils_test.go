package utils

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"yaml list", []string{"alice", "bob"}, []string{"alice", "bob"}},
		{"env string", []string{"alice, bob ,carol"}, []string{"alice", "bob", "carol"}},
		{"blanks dropped", []string{"", " , alice,,"}, []string{"alice"}},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetLogLevel(t *testing.T) {
	defer Log.SetLevel(logrus.InfoLevel)

	if err := SetLogLevel("WARN"); err != nil {
		t.Fatal(err)
	}
	if Log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", Log.GetLevel())
	}
	if err := SetLogLevel("trace"); err == nil {
		t.Fatal("expected an error for an unsupported level")
	}
}

func TestSyncLock(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sub", "lctracker.sqlite")

	first, err := AcquireSyncLock(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("AcquireSyncLock() error: %v", err)
	}

	// A second sync waits, and gives up when its context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := AcquireSyncLock(ctx, dbPath); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected a deadline error while the lock is held, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}

	second, err := AcquireSyncLock(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("AcquireSyncLock() after release: %v", err)
	}
	second.Release()
}

func TestGetAbsDBPath_Default(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	got, err := GetAbsDBPath("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "lctracker.sqlite" || filepath.Base(filepath.Dir(got)) != "lctracker" {
		t.Fatalf("unexpected default path %q", got)
	}
}
