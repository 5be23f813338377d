// util/store.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"compress/flate"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrNotFound is returned by Store implementations when no object is
// stored under the requested key.
var ErrNotFound = errors.New("key not found in store")

// Store is a small key-value abstraction for cached objects. The
// consolidation engine and the dataset cache are written against it so
// that they don't assume any particular persistence mechanism; Get
// returns when the object was stored so that callers can apply their own
// expiration policies.
type Store interface {
	Get(key string, obj any) (time.Time, error)
	Put(key string, obj any) error
}

///////////////////////////////////////////////////////////////////////////
// FileStore

// FileStore persists objects as flate-compressed msgpack files under a
// directory. Writes go through a temporary file and a rename so that
// concurrent readers never observe a partially-written object.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at the user cache directory if
// dir is empty.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		cd, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(cd, "OpenAir")
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.Dir, key)
}

func (s *FileStore) Put(key string, obj any) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}

	fw, err := flate.NewWriter(f, flate.BestSpeed)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}

	if err := msgpack.NewEncoder(fw).Encode(obj); err != nil {
		fw.Close()
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := fw.Close(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}

	return os.Rename(f.Name(), path)
}

func (s *FileStore) Get(key string, obj any) (time.Time, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return time.Time{}, err
	}

	fr := flate.NewReader(f)
	defer fr.Close()

	return fi.ModTime(), msgpack.NewDecoder(fr).Decode(obj)
}

///////////////////////////////////////////////////////////////////////////
// MemoryStore

// MemoryStore keeps objects in an expiring LRU; it is handy in tests and
// for callers that want the consolidation replay cache without touching
// the filesystem.
type MemoryStore struct {
	lru *expirable.LRU[string, memoryEntry]
}

type memoryEntry struct {
	stored time.Time
	data   []byte
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: expirable.NewLRU[string, memoryEntry](size, nil, ttl)}
}

func (s *MemoryStore) Put(key string, obj any) error {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(obj); err != nil {
		return err
	}
	s.lru.Add(key, memoryEntry{stored: time.Now(), data: buf.Bytes()})
	return nil
}

func (s *MemoryStore) Get(key string, obj any) (time.Time, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return e.stored, msgpack.NewDecoder(bytes.NewReader(e.data)).Decode(obj)
}
