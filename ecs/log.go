package ecs

import (
	"slices"
	"time"
)

// LogCapacity bounds the user-facing log.
const LogCapacity = 50

type LogKind string

const (
	LogInfo  LogKind = "info"
	LogWarn  LogKind = "warn"
	LogError LogKind = "error"
	LogAI    LogKind = "ai"
)

// ParseLogKind falls back to LogInfo for unknown kinds.
func ParseLogKind(s string) LogKind {
	switch LogKind(s) {
	case LogWarn, LogError, LogAI:
		return LogKind(s)
	}
	return LogInfo
}

type LogEntry struct {
	ID   string
	Text string
	Kind LogKind
	Time time.Time
}

// LogRing keeps the most recent entries, newest first.
type LogRing struct {
	entries []LogEntry
}

func (r *LogRing) Add(entry LogEntry) {
	r.entries = slices.Insert(r.entries, 0, entry)
	if len(r.entries) > LogCapacity {
		clear(r.entries[LogCapacity:])
		r.entries = r.entries[:LogCapacity]
	}
}

// Entries returns a copy, newest first.
func (r *LogRing) Entries() []LogEntry {
	return slices.Clone(r.entries)
}

func (r *LogRing) Len() int {
	return len(r.entries)
}

func (r *LogRing) Reset() {
	r.entries = nil
}
