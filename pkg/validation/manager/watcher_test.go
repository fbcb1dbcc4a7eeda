package manager

import (
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestFileWatcher_ShouldProcessEvent(t *testing.T) {
	fw, err := NewFileWatcher(DefaultFileWatcherConfig(), quietLogger())
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.watcher.Close()

	tests := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"yaml write", fsnotify.Event{Name: "rules/chat.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "rules/chat.yml", Op: fsnotify.Create}, true},
		{"json write", fsnotify.Event{Name: "rules/chat.json", Op: fsnotify.Write}, true},
		{"uppercase extension", fsnotify.Event{Name: "rules/chat.YAML", Op: fsnotify.Write}, true},
		{"chmod ignored", fsnotify.Event{Name: "rules/chat.yaml", Op: fsnotify.Chmod}, false},
		{"wrong extension", fsnotify.Event{Name: "rules/notes.txt", Op: fsnotify.Write}, false},
		{"hidden file skipped", fsnotify.Event{Name: "rules/.chat.yaml", Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: "rules/chat.yaml.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.shouldProcessEvent(tt.event); got != tt.expected {
				t.Errorf("shouldProcessEvent(%v) = %v, want %v", tt.event, got, tt.expected)
			}
		})
	}
}

func TestFileWatcher_HiddenNotSkippedWhenDisabled(t *testing.T) {
	config := DefaultFileWatcherConfig()
	config.SkipHidden = false

	fw, err := NewFileWatcher(config, quietLogger())
	if err != nil {
		t.Fatalf("NewFileWatcher failed: %v", err)
	}
	defer fw.watcher.Close()

	event := fsnotify.Event{Name: "rules/.chat.yaml", Op: fsnotify.Write}
	if !fw.shouldProcessEvent(event) {
		t.Error("hidden files should be processed when SkipHidden is off")
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	fired := make(chan struct{}, 10)
	for i := 0; i < 5; i++ {
		d.Trigger(func() { fired <- struct{}{} })
	}

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("debounced callback never fired")
	}

	// The burst collapses into a single callback.
	select {
	case <-fired:
		t.Error("burst of triggers fired more than once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Error("Stop should cancel the pending callback")
	case <-time.After(100 * time.Millisecond):
	}
}
