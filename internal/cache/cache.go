// Package cache provides the namespaced string key-value store extensions use
// to persist data across sessions.
package cache

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("cache: key not found")

// Store is a string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Keys(prefix string) ([]string, error)
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Namespaced scopes every key of a Store under a fixed prefix.
type Namespaced struct {
	base   Store
	prefix string
}

// Namespace wraps base so keys are stored as "<ns>:<key>".
func Namespace(base Store, ns string) *Namespaced {
	return &Namespaced{base: base, prefix: ns + ":"}
}

func (n *Namespaced) Get(key string) (string, error) {
	return n.base.Get(n.prefix + key)
}

func (n *Namespaced) Set(key, value string) error {
	return n.base.Set(n.prefix+key, value)
}

func (n *Namespaced) Remove(key string) error {
	return n.base.Remove(n.prefix + key)
}

func (n *Namespaced) Keys(prefix string) ([]string, error) {
	keys, err := n.base.Keys(n.prefix + prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, n.prefix)
	}
	return keys, nil
}

// Clear removes every key in the namespace.
func (n *Namespaced) Clear() error {
	keys, err := n.base.Keys(n.prefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := n.base.Remove(k); err != nil {
			return err
		}
	}
	return nil
}
