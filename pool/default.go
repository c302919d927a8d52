// File: pool/default.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide NUMA pool manager so message payload buffers allocated on
// behalf of different workers do not fragment across ad-hoc pools.

package pool

import "sync"

// Manager hands out one NUMAPool per NUMA node, lazily created.
type Manager struct {
	mu     sync.RWMutex
	pools  map[int]*NUMAPool
	size   int
	enable bool
}

// NewManager creates a manager that allocates size-byte buffers per node.
func NewManager(size int, enable bool) *Manager {
	return &Manager{pools: make(map[int]*NUMAPool), size: size, enable: enable}
}

// PoolForNode returns (creating if needed) the pool for a NUMA node.
// Node -1 means "no preference".
func (m *Manager) PoolForNode(node int) *NUMAPool {
	m.mu.RLock()
	p, ok := m.pools[node]
	m.mu.RUnlock()
	if ok {
		return p
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pools[node]; ok {
		return p
	}
	p = NewNUMAPool(node, m.size, m.enable)
	m.pools[node] = p
	return p
}

var (
	defaultOnce sync.Once
	defaultMgr  *Manager
)

// DefaultManager returns a process-wide Manager so all components reuse the
// same NUMA-aware pools instead of fragmenting allocations.
func DefaultManager() *Manager {
	defaultOnce.Do(func() {
		defaultMgr = NewManager(4096, true)
	})
	return defaultMgr
}
