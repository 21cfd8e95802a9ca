// Package cache persists extracted documents between runs.
package cache

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

const keyPrefix = "doc:"

// Storage is a key/value store backed by LevelDB.
type Storage struct {
	db *leveldb.DB
}

// New opens (or creates) a LevelDB database in the directory at path.
func New(path string) (*Storage, error) {
	const op = "cache.leveldb.New"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewInMemory returns a store that lives only as long as the process.
func NewInMemory() (*Storage, error) {
	const op = "cache.leveldb.NewInMemory"

	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Get(key string) ([]byte, bool, error) {
	const op = "cache.leveldb.Get"

	data, err := s.db.Get([]byte(keyPrefix+key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	return data, true, nil
}

func (s *Storage) Put(key string, value []byte) error {
	const op = "cache.leveldb.Put"

	if err := s.db.Put([]byte(keyPrefix+key), value, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Len counts stored entries.
func (s *Storage) Len() (int, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

func (s *Storage) Close() error {
	return s.db.Close()
}
