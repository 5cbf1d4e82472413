package twin

import "sync"

// keyLocks linearizes updates per twin/device/command id while letting
// different ids proceed in parallel.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyLocks) get(id string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	lock, exists := k.locks[id]
	if !exists {
		lock = &sync.Mutex{}
		k.locks[id] = lock
	}
	return lock
}

func (k *keyLocks) withLock(id string, fn func() error) error {
	lock := k.get(id)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}
