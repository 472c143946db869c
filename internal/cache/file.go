package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps one JSON document per key under Dir:
//
//	{"timestamp": <unix seconds>, "data": <payload>}
//
// Compact JSON payloads are stored as written. Anything else is stored as a
// JSON string with "text": true, so Get returns exactly the bytes given to
// Set.
type FileStore struct {
	Dir string
}

type fileDoc struct {
	Timestamp float64         `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Text      bool            `json:"text,omitempty"`
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(s.Dir, safe+".json")
}

func (s *FileStore) Get(_ context.Context, key string) (Entry, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}
	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Entry{}, fmt.Errorf("cache file %s: %w", s.path(key), err)
	}
	sec := int64(doc.Timestamp)
	nsec := int64((doc.Timestamp - float64(sec)) * 1e9)
	data := []byte(doc.Data)
	if doc.Text {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return Entry{}, fmt.Errorf("cache file %s: %w", s.path(key), err)
		}
		data = []byte(str)
	}
	return Entry{Data: data, StoredAt: time.Unix(sec, nsec)}, nil
}

func (s *FileStore) Set(_ context.Context, key string, data []byte) error {
	now := time.Now()
	doc := fileDoc{
		Timestamp: float64(now.UnixNano()) / 1e9,
		Data:      json.RawMessage(data),
	}
	if !isCompactJSON(data) {
		quoted, err := json.Marshal(string(data))
		if err != nil {
			return err
		}
		doc.Data, doc.Text = quoted, true
	}
	var raw bytes.Buffer
	enc := json.NewEncoder(&raw)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Close() error { return nil }

// isCompactJSON reports whether data survives re-encoding unchanged.
func isCompactJSON(data []byte) bool {
	if !json.Valid(data) {
		return false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return false
	}
	return bytes.Equal(buf.Bytes(), data)
}
