package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LocalLocker is an in-process per-resource mutex. Waiting honours context
// cancellation; entries are dropped once nobody holds or waits on them.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uuid.UUID]*keyedLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[resourceID]
	if !ok {
		kl = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[resourceID] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(resourceID, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.drop(resourceID, kl)
		})
	}, nil
}

func (l *LocalLocker) drop(resourceID uuid.UUID, kl *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, resourceID)
	}
}
