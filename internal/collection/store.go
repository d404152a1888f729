package collection

import (
	"fmt"
	"sync"

	"github.com/zeroends/skinhub/internal/identity"
)

// Store errors.
var (
	ErrCollectionFull = fmt.Errorf("collection is full")
	ErrDuplicateAsset = fmt.Errorf("asset with the same texture already exists")
	ErrAssetNotFound  = fmt.Errorf("asset not found")
)

// Store keeps per-identity collections in memory. Collections are created
// lazily on first access and persisted by a separate component from the
// snapshots this store hands out.
type Store struct {
	mu       sync.RWMutex
	byPlayer map[identity.ID]*Collection
	maxSize  int
}

// NewStore creates a Store bounded at maxSize assets per identity.
func NewStore(maxSize int) *Store {
	return &Store{
		byPlayer: make(map[identity.ID]*Collection),
		maxSize:  maxSize,
	}
}

// MaxSize returns the per-identity capacity.
func (s *Store) MaxSize() int { return s.maxSize }

// Assets returns a copy of the identity's assets in insertion order.
func (s *Store) Assets(id identity.ID) []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byPlayer[id]
	if !ok {
		return nil
	}
	out := make([]Asset, len(c.Assets))
	copy(out, c.Assets)
	return out
}

// Size returns the number of assets the identity owns.
func (s *Store) Size(id identity.ID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byPlayer[id]; ok {
		return len(c.Assets)
	}
	return 0
}

// ByID returns one asset of the identity.
func (s *Store) ByID(id identity.ID, assetID int64) (Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.byPlayer[id]; ok {
		return c.ByID(assetID)
	}
	return Asset{}, false
}

// ActiveID returns the id of the identity's applied asset, if any.
func (s *Store) ActiveID(id identity.ID) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byPlayer[id]
	if !ok || c.ActiveID == nil {
		return 0, false
	}
	return *c.ActiveID, true
}

// Add appends the asset to the identity's collection. The capacity and
// duplicate-texture checks happen under the same lock as the append, so a
// raced pair of uploads cannot both slip past a nearly-full collection.
func (s *Store) Add(id identity.ID, a Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(id)
	if len(c.Assets) >= s.maxSize {
		return ErrCollectionFull
	}
	if c.hasTexture(a.Texture) {
		return ErrDuplicateAsset
	}
	c.Assets = append(c.Assets, a)
	return nil
}

// Remove deletes the asset with assetID. The active pointer is cleared when
// it referenced the removed asset. The collection is untouched on a miss.
func (s *Store) Remove(id identity.ID, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byPlayer[id]
	if !ok {
		return ErrAssetNotFound
	}
	for i, a := range c.Assets {
		if a.ID == assetID {
			c.Assets = append(c.Assets[:i], c.Assets[i+1:]...)
			if c.ActiveID != nil && *c.ActiveID == assetID {
				c.ActiveID = nil
			}
			return nil
		}
	}
	return ErrAssetNotFound
}

// SetActive marks the asset as the identity's applied one.
func (s *Store) SetActive(id identity.ID, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byPlayer[id]
	if !ok {
		return ErrAssetNotFound
	}
	if _, ok := c.ByID(assetID); !ok {
		return ErrAssetNotFound
	}
	c.ActiveID = &assetID
	return nil
}

// Snapshot returns a deep copy of every collection, keyed by identity.
// The persistence layer serializes snapshots, never live state.
func (s *Store) Snapshot() map[identity.ID]Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[identity.ID]Collection, len(s.byPlayer))
	for id, c := range s.byPlayer {
		cp := Collection{Assets: make([]Asset, len(c.Assets))}
		copy(cp.Assets, c.Assets)
		if c.ActiveID != nil {
			v := *c.ActiveID
			cp.ActiveID = &v
		}
		out[id] = cp
	}
	return out
}

// Replace swaps in previously persisted state. Used once at startup.
func (s *Store) Replace(data map[identity.ID]Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byPlayer = make(map[identity.ID]*Collection, len(data))
	for id, c := range data {
		cp := c
		s.byPlayer[id] = &cp
	}
}

// collection returns the identity's collection, creating it lazily.
// Caller must hold mu.
func (s *Store) collection(id identity.ID) *Collection {
	c, ok := s.byPlayer[id]
	if !ok {
		c = &Collection{}
		s.byPlayer[id] = c
	}
	return c
}
