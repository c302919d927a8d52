// File: pool/doc.go
// Package pool
// Author: momentics <momentics@gmail.com>
//
// NUMA-aware byte and object pooling for skyqueue. Message payload buffers
// and pooled timer nodes are allocated through here instead of bare make(),
// so a worker pinned to a NUMA node (see package affinity) can keep the
// memory it touches local. Falls back to plain allocation where NUMA
// topology is unavailable.
package pool
