package persist

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const slotExtension = ".ksave"

// SlotStore is the raw byte storage behind the save manager. Payloads are
// already encoded (and possibly encrypted) when they reach the store.
type SlotStore interface {
	Write(ctx context.Context, slot string, data []byte) error
	Read(ctx context.Context, slot string) ([]byte, error)
	Delete(ctx context.Context, slot string) error
	Exists(ctx context.Context, slot string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// ValidateSlotName rejects empty names and names that would escape the
// store's namespace when used as a file name.
func ValidateSlotName(slot string) error {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return eris.Wrapf(ErrInvalidSlotName, "slot %q", slot)
	}
	return nil
}

// FileStore keeps each slot as {dir}/{slot}.ksave.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "failed to create save directory %q", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot string) string {
	return filepath.Join(s.dir, slot+slotExtension)
}

func (s *FileStore) Write(ctx context.Context, slot string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "aborted writing slot %q", slot)
	}
	if err := ValidateSlotName(slot); err != nil {
		return err
	}
	// Write to a temp file and rename so a crash mid-write never leaves a
	// half-written slot behind the final name.
	tmp := s.path(slot) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "failed to write slot %q", slot)
	}
	if err := os.Rename(tmp, s.path(slot)); err != nil {
		return eris.Wrapf(err, "failed to finalize slot %q", slot)
	}
	return nil
}

func (s *FileStore) Read(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrapf(err, "aborted reading slot %q", slot)
	}
	if err := ValidateSlotName(slot); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(slot))
	if os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read slot %q", slot)
	}
	return data, nil
}

func (s *FileStore) Delete(ctx context.Context, slot string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrapf(err, "aborted deleting slot %q", slot)
	}
	if err := ValidateSlotName(slot); err != nil {
		return err
	}
	err := os.Remove(s.path(slot))
	if os.IsNotExist(err) {
		return eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	if err != nil {
		return eris.Wrapf(err, "failed to delete slot %q", slot)
	}
	return nil
}

func (s *FileStore) Exists(_ context.Context, slot string) (bool, error) {
	if err := ValidateSlotName(slot); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(slot))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "failed to stat slot %q", slot)
	}
	return true, nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "aborted listing slots")
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to list save directory %q", s.dir)
	}
	var slots []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, slotExtension) {
			continue
		}
		slots = append(slots, strings.TrimSuffix(name, slotExtension))
	}
	sort.Strings(slots)
	return slots, nil
}

// RedisStore keeps slots under a key prefix in redis, for setups where saves
// live off the local disk.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(addr, password, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "keeneyes:save:"
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
		prefix: prefix,
	}
}

func (s *RedisStore) key(slot string) string { return s.prefix + slot }

func (s *RedisStore) Write(ctx context.Context, slot string, data []byte) error {
	if err := ValidateSlotName(slot); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(slot), data, 0).Err(); err != nil {
		return eris.Wrapf(err, "failed to write slot %q", slot)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, slot string) ([]byte, error) {
	if err := ValidateSlotName(slot); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if eris.Is(err, redis.Nil) {
		return nil, eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read slot %q", slot)
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlotName(slot); err != nil {
		return err
	}
	n, err := s.client.Del(ctx, s.key(slot)).Result()
	if err != nil {
		return eris.Wrapf(err, "failed to delete slot %q", slot)
	}
	if n == 0 {
		return eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, slot string) (bool, error) {
	if err := ValidateSlotName(slot); err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, s.key(slot)).Result()
	if err != nil {
		return false, eris.Wrapf(err, "failed to check slot %q", slot)
	}
	return n > 0, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var slots []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, eris.Wrap(err, "failed to list slots")
	}
	sort.Strings(slots)
	return slots, nil
}

// Close releases the underlying redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

func timeFromUnixNano(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
