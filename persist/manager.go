package persist

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Manager writes and reads save slots through a SlotStore, applying the
// configured format and encryption provider on the way through.
type Manager struct {
	mu         sync.Mutex
	store      SlotStore
	format     Format
	encryption EncryptionProvider
	logger     zerolog.Logger
}

// ManagerOption configures a Manager at construction time.
type ManagerOption func(*Manager)

// WithLogger sets the logger the manager emits save/load events on.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithEncryption sets the provider applied to every slot payload.
func WithEncryption(provider EncryptionProvider) ManagerOption {
	return func(m *Manager) {
		if provider != nil {
			m.encryption = provider
		}
	}
}

// WithFormat sets the encoding used when writing slots. Loads always
// autodetect, so slots written in either format stay readable.
func WithFormat(format Format) ManagerOption {
	return func(m *Manager) { m.format = format }
}

func NewManager(store SlotStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		format:     FormatJSON,
		encryption: NewNoEncryption(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Encrypted reports whether slots written by this manager are encrypted.
func (m *Manager) Encrypted() bool { return m.encryption.IsEncrypted() }

// Save encodes and stores the snapshot under the slot name, overwriting any
// existing slot, and returns the stored slot's metadata.
func (m *Manager) Save(ctx context.Context, slot string, snap *Snapshot) (*SlotInfo, error) {
	if err := ValidateSlotName(slot); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrapf(err, "aborted saving slot %q", slot)
	}
	data, err := EncodeSnapshot(snap, m.format)
	if err != nil {
		return nil, err
	}
	data, err = m.encryption.Encrypt(data)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to encrypt slot %q", slot)
	}
	if err := m.store.Write(ctx, slot, data); err != nil {
		return nil, err
	}

	m.logger.Info().
		Str("slot", slot).
		Str("format", m.format.String()).
		Bool("encrypted", m.encryption.IsEncrypted()).
		Int("entities", len(snap.Entities)).
		Int("bytes", len(data)).
		Msg("slot saved")

	return &SlotInfo{
		SlotName:    slot,
		ID:          snap.ID,
		SavedAt:     snap.SavedAt,
		Format:      m.format,
		EntityCount: len(snap.Entities),
		Encrypted:   m.encryption.IsEncrypted(),
		SizeBytes:   len(data),
	}, nil
}

// Load reads, decrypts, and decodes the named slot.
func (m *Manager) Load(ctx context.Context, slot string) (*Snapshot, error) {
	snap, _, _, err := m.load(ctx, slot)
	return snap, err
}

func (m *Manager) load(ctx context.Context, slot string) (*Snapshot, Format, int, error) {
	if err := ValidateSlotName(slot); err != nil {
		return nil, m.format, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, m.format, 0, eris.Wrapf(err, "aborted loading slot %q", slot)
	}
	data, err := m.store.Read(ctx, slot)
	if err != nil {
		return nil, m.format, 0, err
	}
	size := len(data)
	data, err = m.encryption.Decrypt(data)
	if err != nil {
		return nil, m.format, size, eris.Wrapf(err, "failed to decrypt slot %q", slot)
	}
	snap, format, err := DecodeSnapshot(data)
	if err != nil {
		return nil, format, size, eris.Wrapf(err, "failed to decode slot %q", slot)
	}
	return snap, format, size, nil
}

// GetSlotInfo returns the slot's metadata, nil if the slot does not exist,
// and nil as well when the slot exists but cannot be decoded. A corrupt slot
// reads as absent so save pickers can skip it instead of failing.
func (m *Manager) GetSlotInfo(ctx context.Context, slot string) (*SlotInfo, error) {
	if err := ValidateSlotName(slot); err != nil {
		return nil, err
	}
	snap, format, size, err := m.load(ctx, slot)
	if err != nil {
		if eris.Is(err, ErrSlotNotFound) {
			return nil, nil
		}
		m.logger.Warn().Str("slot", slot).Err(err).Msg("skipping unreadable slot")
		return nil, nil
	}
	return &SlotInfo{
		SlotName:    slot,
		ID:          snap.ID,
		SavedAt:     snap.SavedAt,
		Format:      format,
		EntityCount: len(snap.Entities),
		Encrypted:   m.encryption.IsEncrypted(),
		SizeBytes:   size,
	}, nil
}

// ListSlots returns metadata for every readable slot, sorted by slot name.
// Unreadable slots are logged and skipped.
func (m *Manager) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	slots, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]SlotInfo, 0, len(slots))
	for _, slot := range slots {
		info, err := m.GetSlotInfo(ctx, slot)
		if err != nil {
			return nil, err
		}
		if info != nil {
			infos = append(infos, *info)
		}
	}
	return infos, nil
}

// DeleteSlot removes the named slot.
func (m *Manager) DeleteSlot(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, slot); err != nil {
		return err
	}
	m.logger.Info().Str("slot", slot).Msg("slot deleted")
	return nil
}

// SlotExists reports whether the named slot is present in the store.
func (m *Manager) SlotExists(ctx context.Context, slot string) (bool, error) {
	return m.store.Exists(ctx, slot)
}
