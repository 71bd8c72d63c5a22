package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/tabulate/core/algo"
	"github.com/huangsam/tabulate/internal/contract"
	"github.com/huangsam/tabulate/schema"
)

// currentCacheVersion defines the version of the snapshot cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long a snapshot stays valid.
const cacheTTL = 7 * 24 * time.Hour

// standingsInput is everything that determines a standings snapshot.
type standingsInput struct {
	Teams    []schema.Team          `json:"teams"`
	Results  []schema.PairingResult `json:"results"`
	Sequence []schema.Criterion     `json:"sequence"`
	Seed     int64                  `json:"seed"`
}

// cachedStandings ranks the teams, reusing a snapshot when the same inputs were
// ranked before. A cached snapshot keeps coin flips stable across commands.
func cachedStandings(mgr contract.StoreManager, in standingsInput) ([]schema.Standing, error) {
	var cache contract.SnapshotCache
	if mgr != nil {
		cache = mgr.GetSnapshotCache()
	}
	if cache == nil {
		// Fallback to direct computation
		return rankStandings(in)
	}

	key := generateCacheKey(in)

	// Check for cache hit
	if result := checkCacheHit(cache, key); result != nil {
		return result, nil
	}

	// Cache miss: compute and store
	return computeAndStore(cache, key, in)
}

// rankStandings computes and orders the standings for the inputs.
func rankStandings(in standingsInput) ([]schema.Standing, error) {
	records := algo.ComputeStandings(in.Teams, in.Results)
	orderer := &algo.Orderer{Results: in.Results}
	if in.Seed != 0 {
		orderer.Rand = algo.NewRand(in.Seed)
	}
	return orderer.Order(records, in.Sequence)
}

// checkCacheHit attempts to retrieve and validate a cached snapshot
func checkCacheHit(cache contract.SnapshotCache, key string) []schema.Standing {
	data, version, ts, err := cache.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}
	var result []schema.Standing
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// computeAndStore computes the standings and stores them in cache
func computeAndStore(cache contract.SnapshotCache, key string, in standingsInput) ([]schema.Standing, error) {
	result, err := rankStandings(in)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := cache.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache standings", err)
		}
	}
	return result, nil
}

// generateCacheKey creates a unique key from the ranking inputs
func generateCacheKey(in standingsInput) string {
	data, err := json.Marshal(in)
	if err != nil {
		data = fmt.Appendf(nil, "%v", in)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
