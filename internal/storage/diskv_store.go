package storage

import (
	"context"
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps each blob in its own file under a base directory.
type DiskvStore struct {
	d *diskv.Diskv
}

func OpenDiskv(basePath string) *DiskvStore {
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *DiskvStore) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (s *DiskvStore) Put(_ context.Context, key string, value []byte) error {
	return s.d.Write(key, value)
}

func (s *DiskvStore) Close() error { return nil }
