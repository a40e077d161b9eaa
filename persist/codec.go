package persist

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Binary slots are a framed stream of type-name-prefixed records:
//
//	magic "KSAV" | version u8 | uuid(16) | savedAt unix-nano i64 |
//	entity count u32 | records...
//
// Every string and component payload is u32-length-prefixed. JSON slots are
// a plain JSON document, so the first payload byte distinguishes formats.
var binaryMagic = [4]byte{'K', 'S', 'A', 'V'}

const binaryVersion = 1

// EncodeSnapshot serializes the snapshot in the requested format.
func EncodeSnapshot(snap *Snapshot, format Format) ([]byte, error) {
	if format == FormatBinary {
		var buf bytes.Buffer
		if err := writeBinarySnapshot(&buf, snap); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, eris.Wrap(err, "failed to encode snapshot as json")
	}
	return data, nil
}

// DecodeSnapshot detects the payload format and deserializes it.
func DecodeSnapshot(data []byte) (*Snapshot, Format, error) {
	if len(data) >= len(binaryMagic) && bytes.Equal(data[:len(binaryMagic)], binaryMagic[:]) {
		snap, err := readBinarySnapshot(bytes.NewReader(data))
		if err != nil {
			return nil, FormatBinary, err
		}
		return snap, FormatBinary, nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, FormatJSON, eris.Wrap(ErrCorruptSlot, err.Error())
	}
	return &snap, FormatJSON, nil
}

func writeBinarySnapshot(w io.Writer, snap *Snapshot) error {
	if _, err := w.Write(binaryMagic[:]); err != nil {
		return eris.Wrap(err, "failed to write magic")
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(binaryVersion)); err != nil {
		return eris.Wrap(err, "failed to write version")
	}
	if _, err := w.Write(snap.ID[:]); err != nil {
		return eris.Wrap(err, "failed to write id")
	}
	if err := binary.Write(w, binary.LittleEndian, snap.SavedAt.UnixNano()); err != nil {
		return eris.Wrap(err, "failed to write timestamp")
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(snap.Entities))); err != nil {
		return eris.Wrap(err, "failed to write entity count")
	}
	for i := range snap.Entities {
		if err := writeBinaryRecord(w, &snap.Entities[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeBinaryRecord(w io.Writer, rec *EntityRecord) error {
	for _, v := range []uint32{rec.Entity.ID, rec.Entity.Version, rec.Parent.ID, rec.Parent.Version} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return eris.Wrap(err, "failed to write entity handle")
		}
	}
	if err := writeBytes(w, []byte(rec.Name)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.Tags))); err != nil {
		return eris.Wrap(err, "failed to write tag count")
	}
	for _, tag := range rec.Tags {
		if err := writeBytes(w, []byte(tag)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(rec.Components))); err != nil {
		return eris.Wrap(err, "failed to write component count")
	}
	for _, name := range sortedKeys(rec.Components) {
		if err := writeBytes(w, []byte(name)); err != nil {
			return err
		}
		if err := writeBytes(w, rec.Components[name]); err != nil {
			return err
		}
	}
	return nil
}

func readBinarySnapshot(r io.Reader) (*Snapshot, error) {
	header := make([]byte, len(binaryMagic))
	if _, err := io.ReadFull(r, header); err != nil || !bytes.Equal(header, binaryMagic[:]) {
		return nil, eris.Wrap(ErrCorruptSlot, "bad magic")
	}
	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil || version != binaryVersion {
		return nil, eris.Wrap(ErrCorruptSlot, "unsupported binary version")
	}

	snap := &Snapshot{}
	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, eris.Wrap(ErrCorruptSlot, "truncated id")
	}
	snap.ID = id

	var nanos int64
	if err := binary.Read(r, binary.LittleEndian, &nanos); err != nil {
		return nil, eris.Wrap(ErrCorruptSlot, "truncated timestamp")
	}
	snap.SavedAt = timeFromUnixNano(nanos)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, eris.Wrap(ErrCorruptSlot, "truncated entity count")
	}
	// The count comes from the slot file; cap the preallocation so a corrupt
	// header cannot demand gigabytes before the first record fails to parse.
	snap.Entities = make([]EntityRecord, 0, min(int(count), maxPreallocRecords))
	for i := uint32(0); i < count; i++ {
		rec, err := readBinaryRecord(r)
		if err != nil {
			return nil, err
		}
		snap.Entities = append(snap.Entities, rec)
	}
	return snap, nil
}

func readBinaryRecord(r io.Reader) (EntityRecord, error) {
	var rec EntityRecord
	handles := [4]uint32{}
	for i := range handles {
		if err := binary.Read(r, binary.LittleEndian, &handles[i]); err != nil {
			return rec, eris.Wrap(ErrCorruptSlot, "truncated entity handle")
		}
	}
	rec.Entity.ID, rec.Entity.Version = handles[0], handles[1]
	rec.Parent.ID, rec.Parent.Version = handles[2], handles[3]

	name, err := readBytes(r)
	if err != nil {
		return rec, err
	}
	rec.Name = string(name)

	var tagCount uint32
	if err := binary.Read(r, binary.LittleEndian, &tagCount); err != nil {
		return rec, eris.Wrap(ErrCorruptSlot, "truncated tag count")
	}
	for i := uint32(0); i < tagCount; i++ {
		tag, err := readBytes(r)
		if err != nil {
			return rec, err
		}
		rec.Tags = append(rec.Tags, string(tag))
	}

	var compCount uint32
	if err := binary.Read(r, binary.LittleEndian, &compCount); err != nil {
		return rec, eris.Wrap(ErrCorruptSlot, "truncated component count")
	}
	rec.Components = make(map[string]json.RawMessage, compCount)
	for i := uint32(0); i < compCount; i++ {
		name, err := readBytes(r)
		if err != nil {
			return rec, err
		}
		payload, err := readBytes(r)
		if err != nil {
			return rec, err
		}
		rec.Components[string(name)] = json.RawMessage(payload)
	}
	return rec, nil
}

const (
	maxFrameSize       = 64 << 20 // sanity bound for corrupted length prefixes
	maxPreallocRecords = 1 << 16
)

func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return eris.Wrap(err, "failed to write frame length")
	}
	if _, err := w.Write(b); err != nil {
		return eris.Wrap(err, "failed to write frame")
	}
	return nil
}

func readBytes(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, eris.Wrap(ErrCorruptSlot, "truncated frame length")
	}
	if n > maxFrameSize {
		return nil, eris.Wrap(ErrCorruptSlot, "frame length out of bounds")
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, eris.Wrap(ErrCorruptSlot, "truncated frame")
	}
	return b, nil
}
