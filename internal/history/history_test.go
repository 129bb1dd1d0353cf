package history

import (
	"testing"
	"time"

	"github.com/blaze-data/blaze/internal/system"
)

func newTestLog() *Log {
	fsys := system.NewMockFS()
	fsys.AddDir("/proj")
	return NewLog(fsys, "/proj")
}

func TestLog_AppendAndEntries(t *testing.T) {
	log := newTestLog()

	now := time.Now().Truncate(time.Millisecond)

	entries := []Entry{
		{Timestamp: now, Version: "1.2.0", FullRevisionID: "abc123", Style: "pep440"},
		{Timestamp: now.Add(time.Second), Version: "1.2.0+1.gdef456", FullRevisionID: "def456", Style: "pep440"},
		{Timestamp: now.Add(2 * time.Second), Version: "1.3.0", FullRevisionID: "aaa111", Dirty: true, Style: "pep440"},
	}

	for _, e := range entries {
		if err := log.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	result, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}

	if len(result) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(result), len(entries))
	}

	for i, e := range result {
		if e.Version != entries[i].Version {
			t.Errorf("entry %d: version = %q, want %q", i, e.Version, entries[i].Version)
		}
		if e.FullRevisionID != entries[i].FullRevisionID {
			t.Errorf("entry %d: revision = %q, want %q", i, e.FullRevisionID, entries[i].FullRevisionID)
		}
		if e.Dirty != entries[i].Dirty {
			t.Errorf("entry %d: dirty = %v, want %v", i, e.Dirty, entries[i].Dirty)
		}
	}
}

func TestLog_EntriesEmpty(t *testing.T) {
	log := newTestLog()

	result, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}

	if len(result) != 0 {
		t.Errorf("got %d entries, want 0", len(result))
	}
}

func TestLog_AutoTimestamp(t *testing.T) {
	log := newTestLog()

	if err := log.Append(Entry{Version: "0.1.0"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestLog_SkipsMalformedLines(t *testing.T) {
	fsys := system.NewMockFS()
	fsys.AddFile("/proj/.blaze/history.jsonl", []byte(
		`{"version":"1.0.0"}
not json
{"version":"1.1.0"}
`), 0644)
	log := NewLog(fsys, "/proj")

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Version != "1.1.0" {
		t.Errorf("entry 1 version = %q", entries[1].Version)
	}
}

func TestLog_Tail(t *testing.T) {
	log := newTestLog()

	base := time.Now()
	for i := 0; i < 5; i++ {
		log.Append(Entry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Version:   string(rune('a' + i)),
		})
	}

	tail, err := log.Tail(2)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("got %d entries, want 2", len(tail))
	}
	if tail[0].Version != "d" || tail[1].Version != "e" {
		t.Errorf("Tail(2) = %q, %q", tail[0].Version, tail[1].Version)
	}

	all, err := log.Tail(0)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Tail(0) returned %d entries, want all 5", len(all))
	}
}

func TestLog_Remove(t *testing.T) {
	log := newTestLog()

	log.Append(Entry{Version: "1.0.0"})

	if err := log.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	entries, err := log.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after remove, want 0", len(entries))
	}

	// Removing again is fine
	if err := log.Remove(); err != nil {
		t.Errorf("Remove should not error when the log is gone: %v", err)
	}
}
