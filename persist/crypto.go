package persist

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"hash/crc32"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/crypto/pbkdf2"
)

// EncryptionProvider wraps a slot payload before it is written and unwraps it
// after it is read.
type EncryptionProvider interface {
	// Name identifies the provider in slot metadata.
	Name() string
	// IsEncrypted reports whether Encrypt actually transforms the payload.
	IsEncrypted() bool
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// NoEncryption is the pass-through provider: both directions return the input
// buffer unchanged.
type NoEncryption struct{}

var noEncryption = &NoEncryption{}

// NewNoEncryption returns the shared pass-through provider.
func NewNoEncryption() *NoEncryption { return noEncryption }

func (*NoEncryption) Name() string      { return "none" }
func (*NoEncryption) IsEncrypted() bool { return false }

func (*NoEncryption) Encrypt(plaintext []byte) ([]byte, error) { return plaintext, nil }
func (*NoEncryption) Decrypt(ciphertext []byte) ([]byte, error) { return ciphertext, nil }

const (
	saltSize       = 16
	ivSize         = aes.BlockSize
	keySize        = 32
	kdfIterations  = 100_000
	checksumLength = crc32.Size
)

// AESProvider encrypts slot payloads with AES-256-CBC. The key is derived
// from the password with PBKDF2-SHA256 over a fresh random salt, and each
// call uses a fresh random IV, so repeated encryptions of identical plaintext
// differ. Output layout: salt(16) || iv(16) || ciphertext. A plaintext
// checksum inside the encrypted payload makes wrong-password and corruption
// failures deterministic.
type AESProvider struct {
	password   []byte
	iterations int
}

func NewAESProvider(password string) *AESProvider {
	return &AESProvider{password: []byte(password), iterations: kdfIterations}
}

func (*AESProvider) Name() string      { return "aes-256-cbc" }
func (*AESProvider) IsEncrypted() bool { return true }

func (p *AESProvider) deriveKey(salt []byte) []byte {
	return pbkdf2.Key(p.password, salt, p.iterations, keySize, sha256.New)
}

func (p *AESProvider) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, eris.Wrap(err, "failed to generate salt")
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, eris.Wrap(err, "failed to generate iv")
	}

	block, err := aes.NewCipher(p.deriveKey(salt))
	if err != nil {
		return nil, eris.Wrap(err, "failed to build cipher")
	}

	// checksum || plaintext, then PKCS#7 padding to the block size.
	sum := crc32.ChecksumIEEE(plaintext)
	payload := make([]byte, 0, checksumLength+len(plaintext)+aes.BlockSize)
	payload = append(payload,
		byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	payload = append(payload, plaintext...)
	payload = pkcs7Pad(payload, aes.BlockSize)

	out := make([]byte, saltSize+ivSize+len(payload))
	copy(out, salt)
	copy(out[saltSize:], iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[saltSize+ivSize:], payload)
	return out, nil
}

func (p *AESProvider) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltSize+ivSize+aes.BlockSize {
		return nil, eris.Wrap(ErrDecryptionFailed, "ciphertext too short")
	}
	salt := ciphertext[:saltSize]
	iv := ciphertext[saltSize : saltSize+ivSize]
	body := ciphertext[saltSize+ivSize:]
	if len(body)%aes.BlockSize != 0 {
		return nil, eris.Wrap(ErrDecryptionFailed, "ciphertext not block-aligned")
	}

	block, err := aes.NewCipher(p.deriveKey(salt))
	if err != nil {
		return nil, eris.Wrap(err, "failed to build cipher")
	}
	payload := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(payload, body)

	payload, err = pkcs7Unpad(payload, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	if len(payload) < checksumLength {
		return nil, eris.Wrap(ErrDecryptionFailed, "payload too short")
	}
	want := uint32(payload[0])<<24 | uint32(payload[1])<<16 | uint32(payload[2])<<8 | uint32(payload[3])
	plaintext := payload[checksumLength:]
	if crc32.ChecksumIEEE(plaintext) != want {
		return nil, eris.Wrap(ErrDecryptionFailed, "checksum mismatch")
	}
	return plaintext, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	for i := 0; i < padding; i++ {
		data = append(data, byte(padding))
	}
	return data
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, eris.Wrap(ErrDecryptionFailed, "invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, eris.Wrap(ErrDecryptionFailed, "invalid padding")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, eris.Wrap(ErrDecryptionFailed, "invalid padding")
		}
	}
	return data[:len(data)-padding], nil
}
