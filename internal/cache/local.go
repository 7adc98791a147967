package cache

import (
	"path"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	localMu sync.RWMutex
	local   *expirable.LRU[string, []byte]
)

// InitLocal enables the in-process tier used when Redis is missing or misses.
func InitLocal(size int, ttl time.Duration) {
	if size <= 0 {
		size = 64
	}
	localMu.Lock()
	defer localMu.Unlock()
	local = expirable.NewLRU[string, []byte](size, nil, ttl)
}

func localGet(key string) ([]byte, bool) {
	localMu.RLock()
	defer localMu.RUnlock()
	if local == nil {
		return nil, false
	}
	return local.Get(key)
}

func localSet(key string, data []byte) {
	localMu.RLock()
	defer localMu.RUnlock()
	if local == nil {
		return
	}
	local.Add(key, data)
}

func localRemove(keys ...string) {
	localMu.RLock()
	defer localMu.RUnlock()
	if local == nil {
		return
	}
	for _, k := range keys {
		local.Remove(k)
	}
}

// localInvalidatePattern matches keys with the same glob syntax Redis KEYS uses
// for the simple patterns this package issues.
func localInvalidatePattern(pattern string) {
	localMu.RLock()
	defer localMu.RUnlock()
	if local == nil {
		return
	}
	for _, k := range local.Keys() {
		if ok, _ := path.Match(pattern, k); ok {
			local.Remove(k)
		}
	}
}

func localPurge() {
	localMu.RLock()
	defer localMu.RUnlock()
	if local != nil {
		local.Purge()
	}
}
