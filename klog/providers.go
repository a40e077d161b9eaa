package klog

import (
	"sync"

	"github.com/rs/zerolog"
)

// ZerologProvider forwards records onto a zerolog logger, mapping levels
// one-to-one.
type ZerologProvider struct {
	name   string
	logger zerolog.Logger
}

func NewZerologProvider(name string, logger zerolog.Logger) *ZerologProvider {
	return &ZerologProvider{name: name, logger: logger}
}

func (p *ZerologProvider) Name() string { return p.name }

func (p *ZerologProvider) Write(rec Record) {
	var ev *zerolog.Event
	switch rec.Level {
	case LevelDebug:
		ev = p.logger.Debug()
	case LevelInfo:
		ev = p.logger.Info()
	case LevelWarn:
		ev = p.logger.Warn()
	default:
		ev = p.logger.Error()
	}
	ev.Fields(rec.Fields).Msg(rec.Message)
}

// MemoryProvider buffers records in memory, mainly for tests and the editor's
// in-app console.
type MemoryProvider struct {
	mu      sync.Mutex
	name    string
	records []Record
}

func NewMemoryProvider(name string) *MemoryProvider {
	return &MemoryProvider{name: name}
}

func (p *MemoryProvider) Name() string { return p.name }

func (p *MemoryProvider) Write(rec Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
}

// Records returns a copy of everything buffered so far.
func (p *MemoryProvider) Records() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// Reset clears the buffer.
func (p *MemoryProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = nil
}
