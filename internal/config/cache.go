package config

import "time"

// CacheConfig defines TTLs for the entity cache. Single records live
// longer than lists because a record key is invalidated precisely on
// write, while list keys also age out membership changes that slipped
// through invalidation.
type CacheConfig struct {
	Enabled   bool          // disable to bypass the cache entirely
	EntityTTL time.Duration // TTL for single-record keys (entity:id)
	ListTTL   time.Duration // TTL for list and filter keys (entity:all, entity:dim:value)
}

// LoadCacheConfig reads cache settings from the environment. Defaults
// match the original deployment: 10 minutes per record, 5 per list.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:   envBool("CACHE_ENABLED", true),
		EntityTTL: envDur("CACHE_ENTITY_TTL", 10*time.Minute),
		ListTTL:   envDur("CACHE_LIST_TTL", 5*time.Minute),
	}
}
