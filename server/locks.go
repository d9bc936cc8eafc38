// Package server
package server

import (
	"fmt"
	"sync"
)

// keyedMutex serializes access per entity id. Lock order across maps is
// fixed by the callers: proposal before voter before treasury.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (k *keyedMutex) lockID(id uint64) func() {
	return k.lock(fmt.Sprintf("%d", id))
}
