package sync

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// WatchedFile is the local bookkeeping entry for a remote file, reconciled
// against authoritative remote metadata by the dispatcher.
type WatchedFile struct {
	FileID       string
	Name         string
	Size         int64
	ModifiedTime time.Time
}

// UserStateStore holds per-user sync state: the last successful sync time,
// the metadata fingerprint cache and the watched-file bookkeeping. All
// mutation happens while the owner's guard is held, except fingerprint
// writes which occur synchronously at admission.
type UserStateStore interface {
	LastSync(ownerID string) (time.Time, bool)
	SetLastSync(ownerID string, t time.Time)

	Fingerprint(ownerID, fileID string) (string, bool)
	SetFingerprint(ownerID, fileID, hash string)
	DropFingerprint(ownerID, fileID string)

	WatchedCount(ownerID string) int
	UpsertWatched(ownerID string, f *WatchedFile)
	DropWatched(ownerID, fileID string)
}

const (
	// fingerprintCacheSize bounds the dedup cache so per-user state does not
	// grow for the process lifetime.
	fingerprintCacheSize = 65536
	fingerprintCacheTTL  = 24 * time.Hour
)

type memoryStateStore struct {
	mu           sync.RWMutex
	lastSync     map[string]time.Time
	watched      map[string]map[string]*WatchedFile
	fingerprints *expirable.LRU[string, string]
}

// NewMemoryStateStore creates the in-process UserStateStore implementation.
func NewMemoryStateStore() UserStateStore {
	return &memoryStateStore{
		lastSync:     make(map[string]time.Time),
		watched:      make(map[string]map[string]*WatchedFile),
		fingerprints: expirable.NewLRU[string, string](fingerprintCacheSize, nil, fingerprintCacheTTL),
	}
}

func stateKey(ownerID, fileID string) string {
	return ownerID + ":" + fileID
}

func (s *memoryStateStore) LastSync(ownerID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.lastSync[ownerID]
	return t, ok
}

func (s *memoryStateStore) SetLastSync(ownerID string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync[ownerID] = t
}

func (s *memoryStateStore) Fingerprint(ownerID, fileID string) (string, bool) {
	return s.fingerprints.Get(stateKey(ownerID, fileID))
}

func (s *memoryStateStore) SetFingerprint(ownerID, fileID, hash string) {
	s.fingerprints.Add(stateKey(ownerID, fileID), hash)
}

func (s *memoryStateStore) DropFingerprint(ownerID, fileID string) {
	s.fingerprints.Remove(stateKey(ownerID, fileID))
}

func (s *memoryStateStore) WatchedCount(ownerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watched[ownerID])
}

func (s *memoryStateStore) UpsertWatched(ownerID string, f *WatchedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, ok := s.watched[ownerID]
	if !ok {
		files = make(map[string]*WatchedFile)
		s.watched[ownerID] = files
	}
	files[f.FileID] = f
}

func (s *memoryStateStore) DropWatched(ownerID, fileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if files, ok := s.watched[ownerID]; ok {
		delete(files, fileID)
	}
}
