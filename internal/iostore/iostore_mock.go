package iostore

import (
	"time"

	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetSnapshotCache implements the StoreManager interface.
func (m *MockStoreManager) GetSnapshotCache() contract.SnapshotCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.SnapshotCache)
	return cache
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockSnapshotCache is a mock implementation of SnapshotCache for testing.
type MockSnapshotCache struct {
	mock.Mock
}

var _ contract.SnapshotCache = &MockSnapshotCache{} // Compile-time check

// Get implements the SnapshotCache interface.
func (m *MockSnapshotCache) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the SnapshotCache interface.
func (m *MockSnapshotCache) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the SnapshotCache interface.
func (m *MockSnapshotCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the SnapshotCache interface.
func (m *MockSnapshotCache) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(tournament, command string, round int, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(tournament, command, round, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalRows int) error {
	args := m.Called(runID, endTime, totalRows)
	return args.Error(0)
}

// RecordStandings implements the RunStore interface.
func (m *MockRunStore) RecordStandings(runID int64, standings []schema.Standing) error {
	args := m.Called(runID, standings)
	return args.Error(0)
}

// RecordPairings implements the RunStore interface.
func (m *MockRunStore) RecordPairings(runID int64, round int, pairings []schema.GeneratedPairing) error {
	args := m.Called(runID, round, pairings)
	return args.Error(0)
}

// RecordBreaks implements the RunStore interface.
func (m *MockRunStore) RecordBreaks(runID int64, results []schema.BreakResult) error {
	args := m.Called(runID, results)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllStandings implements the RunStore interface.
func (m *MockRunStore) GetAllStandings() ([]schema.StandingRecord, error) {
	args := m.Called()
	standings, _ := args.Get(0).([]schema.StandingRecord)
	return standings, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
