// Package klog fans log records out to attached providers. Providers are
// isolated from one another: a provider that panics is dropped from that
// dispatch without affecting the rest.
package klog

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Level orders log records by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Record is one log event handed to every attached provider.
type Record struct {
	Level   Level
	Message string
	Time    time.Time
	Fields  map[string]any
}

// Provider receives records from a Manager. Implementations must tolerate
// concurrent Write calls.
type Provider interface {
	// Name identifies the provider for Attach and Detach.
	Name() string
	Write(rec Record)
}

// Manager is a thread-safe fan-out point for log records.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
	minLevel  Level
}

func NewManager() *Manager {
	return &Manager{providers: map[string]Provider{}, minLevel: LevelDebug}
}

// SetMinLevel drops records below the given level before dispatch.
func (m *Manager) SetMinLevel(level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minLevel = level
}

// Attach registers a provider. Attaching a provider whose name is already
// registered replaces the previous one.
func (m *Manager) Attach(p Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = p
}

// Detach removes the named provider and reports whether it was attached.
func (m *Manager) Detach(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.providers[name]
	delete(m.providers, name)
	return ok
}

// Providers returns the names of attached providers, sorted.
func (m *Manager) Providers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Log dispatches a record to every attached provider.
func (m *Manager) Log(level Level, message string, fields map[string]any) {
	m.mu.RLock()
	if level < m.minLevel {
		m.mu.RUnlock()
		return
	}
	targets := make([]Provider, 0, len(m.providers))
	for _, p := range m.providers {
		targets = append(targets, p)
	}
	m.mu.RUnlock()

	rec := Record{Level: level, Message: message, Time: time.Now(), Fields: fields}
	for _, p := range targets {
		dispatch(p, rec)
	}
}

// dispatch contains one provider's fault so the rest still receive the
// record.
func dispatch(p Provider, rec Record) {
	defer func() {
		_ = recover()
	}()
	p.Write(rec)
}

func (m *Manager) Debug(message string, fields map[string]any) { m.Log(LevelDebug, message, fields) }
func (m *Manager) Info(message string, fields map[string]any)  { m.Log(LevelInfo, message, fields) }
func (m *Manager) Warn(message string, fields map[string]any)  { m.Log(LevelWarn, message, fields) }
func (m *Manager) Error(message string, fields map[string]any) { m.Log(LevelError, message, fields) }
