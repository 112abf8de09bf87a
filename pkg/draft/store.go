// Package draft persists in-progress report forms so a crash or an accidental
// quit never loses the user's typing.
package draft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

// Record is a snapshot of the form's named text fields. File fields are never
// part of a Record; an absent key means the field was empty or unknown.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

const draftsBucket = "drafts"

// Store wraps diskv-backed draft slots. Saves are fail-open: a write or
// serialization error is logged and swallowed so drafting never interrupts
// the user.
type Store struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

// Open creates a Store rooted at basePath.
func Open(basePath string, log *zap.Logger) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("draft: base path required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		log:      log,
	}, nil
}

// BasePath reports the directory backing the store.
func (s *Store) BasePath() string { return s.basePath }

// Save serializes rec into the slot named by key. Errors leave the prior
// stored state untouched and are logged only.
func (s *Store) Save(key string, rec Record) {
	if key == "" {
		return
	}
	if len(rec) == 0 {
		s.Clear(key)
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("draft: marshal", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.d.Write(key, data); err != nil {
		s.log.Warn("draft: write", zap.String("key", key), zap.Error(err))
	}
}

// Load returns the record stored under key. The second result is false when
// the slot is missing, unreadable, or corrupt; corruption is treated exactly
// like absence and logged only.
func (s *Store) Load(key string) (Record, bool) {
	val, err := s.d.Read(key)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("draft: read", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	rec := Record{}
	if err := json.Unmarshal(val, &rec); err != nil {
		s.log.Warn("draft: corrupt record treated as absent",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if len(rec) == 0 {
		return nil, false
	}
	return rec, true
}

// Clear discards the slot named by key. A missing slot is not an error.
func (s *Store) Clear(key string) {
	if err := s.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("draft: erase", zap.String("key", key), zap.Error(err))
	}
}

// Keys lists the draft slots currently stored, sorted.
func (s *Store) Keys(ctx context.Context) []string {
	keys := make([]string, 0)
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{draftsBucket},
		FileName: encodeKey(s),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return decodeKey(pathKey.FileName)
}

// encodeKey makes arbitrary slot names filesystem-safe.
func encodeKey(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func decodeKey(s string) string {
	key, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return fmt.Sprintf("decodeKey: %s", err)
	}
	return string(key)
}
