// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import "github.com/momentics/skyqueue/api"

// BytePool provides zero-copy buffer management (thread/NUMA aware).
// NUMAPool is the only implementation Runtime.AcquireBuffer/ReleaseBuffer
// actually draw from; this interface exists so callers can depend on the
// contract instead of the concrete NUMA-aware type.
type BytePool interface {
	Get() []byte
	Put([]byte)
}

var _ BytePool = (*NUMAPool)(nil)

// NUMAPool also satisfies api.BytePool's Acquire/Release naming via the
// methods in numapool.go, for packages that depend on the api contract
// instead of this package's.
var _ api.BytePool = (*NUMAPool)(nil)
