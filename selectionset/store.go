// Package selectionset keeps named selections so they can be restored
// later, in memory or in a bbolt file.
package selectionset

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/skycoin/skycoin/src/util/logging"
	"go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"

	"github.com/Tubbz-alt/DarkRadiant/scene"
)

var log = logging.MustGetLogger("selectionset")

var (
	// ErrNotFound is returned for set names that are not stored.
	ErrNotFound = errors.New("selection set not found")
	// ErrEmptyName is returned when saving a set without a name.
	ErrEmptyName = errors.New("selection set needs a name")
)

var boltBucket = []byte("selection_sets")

// Member is one node of a set. Name is used to find the node again in a
// reloaded scene; ID is the fallback for unnamed nodes.
type Member struct {
	ID   scene.NodeID `yaml:"id"`
	Name string       `yaml:"name,omitempty"`
}

// Set is a named selection.
type Set struct {
	ID      uuid.UUID `yaml:"id"`
	Name    string    `yaml:"name"`
	Members []Member  `yaml:"members"`
}

// Store persists sets by name.
type Store interface {
	// Put stores s, replacing a set of the same name.
	Put(s Set) error
	// Get returns the set with the given name or ErrNotFound.
	Get(name string) (Set, error)
	// Delete removes a set. Deleting a missing set returns ErrNotFound.
	Delete(name string) error
	// Names returns the stored names in ascending order.
	Names() ([]string, error)
	// Close releases the store.
	Close() error
}

type memoryStore struct {
	sync.RWMutex
	sets map[string]Set
}

// NewMemoryStore returns a Store that lives as long as the process.
func NewMemoryStore() Store {
	return &memoryStore{sets: map[string]Set{}}
}

func (m *memoryStore) Put(s Set) error {
	if s.Name == "" {
		return ErrEmptyName
	}
	m.Lock()
	m.sets[s.Name] = s
	m.Unlock()
	return nil
}

func (m *memoryStore) Get(name string) (Set, error) {
	m.RLock()
	s, ok := m.sets[name]
	m.RUnlock()
	if !ok {
		return Set{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return s, nil
}

func (m *memoryStore) Delete(name string) error {
	m.Lock()
	defer m.Unlock()
	if _, ok := m.sets[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(m.sets, name)
	return nil
}

func (m *memoryStore) Names() ([]string, error) {
	m.RLock()
	names := make([]string, 0, len(m.sets))
	for name := range m.sets {
		names = append(names, name)
	}
	m.RUnlock()
	sort.Strings(names)
	return names, nil
}

func (m *memoryStore) Close() error {
	return nil
}

type boltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates a bbolt file holding sets.
func OpenBoltStore(path string) (Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening selection sets: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(boltBucket); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &boltStore{db: db}, nil
}

func (b *boltStore) Put(s Set) error {
	if s.Name == "" {
		return ErrEmptyName
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding set %q: %w", s.Name, err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(s.Name), data)
	})
}

func (b *boltStore) Get(name string) (Set, error) {
	var s Set
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(boltBucket).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding set %q: %w", name, err)
		}
		return nil
	})
	return s, err
}

func (b *boltStore) Delete(name string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket.Get([]byte(name)) == nil {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return bucket.Delete([]byte(name))
	})
}

func (b *boltStore) Names() ([]string, error) {
	var names []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(boltBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (b *boltStore) Close() error {
	if b == nil {
		return nil
	}
	return b.db.Close()
}
