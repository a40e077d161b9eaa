package persist

import "github.com/rotisserie/eris"

var (
	ErrSlotNotFound     = eris.New("save slot not found")
	ErrInvalidSlotName  = eris.New("slot name must be non-empty and contain no path separators")
	ErrDecryptionFailed = eris.New("decryption failed: wrong password or corrupted ciphertext")
	ErrCorruptSlot      = eris.New("save slot is corrupted")
)
