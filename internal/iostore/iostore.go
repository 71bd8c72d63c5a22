// Package iostore persists tabulation runs and caches computed snapshots.
package iostore

import (
	"sync"

	"github.com/huangsam/tabulate/internal/contract"
)

// StoreManager manages the SnapshotCache and RunStore instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	cache        contract.SnapshotCache
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetSnapshotCache returns the snapshot cache.
func (mgr *StoreManager) GetSnapshotCache() contract.SnapshotCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetRunStore returns the run store.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
