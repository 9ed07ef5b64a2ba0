package storagefake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-challenge-client/session"
	"github.com/pkg/errors"
)

var _ session.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory session.Storage.
type FakeStorage struct {
	slots   map[string]string
	writes  map[string]int // key -> number of Set calls
	failSet error
	lock    sync.RWMutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		slots:  make(map[string]string),
		writes: make(map[string]int),
	}
}

func (fs *FakeStorage) Get(_ context.Context, key string) (string, bool, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	v, ok := fs.slots[key]
	return v, ok, nil
}

func (fs *FakeStorage) Set(_ context.Context, key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.failSet != nil {
		return fs.failSet
	}
	if key == "" {
		return errors.New("key is required")
	}
	fs.slots[key] = value
	fs.writes[key]++
	return nil
}

// FailWrites makes every following Set return err. Pass nil to restore.
func (fs *FakeStorage) FailWrites(err error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.failSet = err
}

// Writes returns how many times key was written.
func (fs *FakeStorage) Writes(key string) int {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.writes[key]
}
