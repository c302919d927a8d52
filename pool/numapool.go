// File: pool/numapool.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral NUMA-aware pool for memory allocation. Concrete allocators
// are selected at build time through platform-specific factory in separate files.

package pool

import (
	"sync"
)

// NUMAAllocator defines interface for NUMA-aware memory allocators.
type NUMAAllocator interface {
	Alloc(size int, node int) ([]byte, error)
	Free([]byte)
	Nodes() (int, error)
}

// NUMAPool provides NUMA-aware allocation for []byte slices.
type NUMAPool struct {
	alloc  NUMAAllocator
	size   int
	pool   sync.Pool
	node   int // NUMA node
	enable bool
}

// NewNUMAPool creates a new NUMA-aware pool for target NUMA node.
// If NUMA is not available on this platform, fallback allocator is used.
func NewNUMAPool(node int, size int, enable bool) *NUMAPool {
	na := createNUMAAllocator()
	return &NUMAPool{
		alloc:  na,
		size:   size,
		node:   node,
		enable: enable && na != nil,
		pool: sync.Pool{
			New: func() interface{} {
				if na == nil || !enable {
					return make([]byte, size)
				}
				b, err := na.Alloc(size, node)
				if err != nil {
					return make([]byte, size)
				}
				return b
			},
		},
	}
}

// Get returns a buffer from the pool.
func (p *NUMAPool) Get() []byte {
	return p.pool.Get().([]byte)
}

// Put returns a buffer to the pool. buf must have cap >= Size(); it is
// always re-sliced back to the pool's configured size before storage.
func (p *NUMAPool) Put(buf []byte) {
	p.pool.Put(buf[:p.size])
}

// Size returns the fixed buffer size this pool allocates.
func (p *NUMAPool) Size() int {
	return p.size
}

// Acquire returns a buffer of n bytes sliced from the pool's fixed-size
// allocation. When n exceeds Size(), the buffer is only Size() bytes long.
// Satisfies api.BytePool's method set.
func (p *NUMAPool) Acquire(n int) []byte {
	buf := p.Get()
	if n > len(buf) {
		n = len(buf)
	}
	return buf[:n]
}

// Release returns buf to the pool. Satisfies api.BytePool.
func (p *NUMAPool) Release(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	p.Put(buf)
}
