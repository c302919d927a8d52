// File: mq/message.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Message is the opaque record skynet_mq.c calls skynet_message: copied by
// value into and out of queues. The queue never owns Data — the producer
// hands ownership to whichever service eventually pops the message.

package mq

// TypeShift is the ABI constant at which Sz's high bits encode a message
// type tag (spec.md §6, MESSAGE_TYPE_SHIFT in the original core).
const TypeShift = 8

// PTypeResponse is the tag timer-delivered messages carry.
const PTypeResponse = 1

// Message is copied by value; Data is not owned by the queue.
type Message struct {
	Source  uint32
	Session int32
	Data    []byte
	Sz      uint64
}

// Tag extracts the type tag encoded in the high bits of Sz.
func (m Message) Tag() uint64 {
	return m.Sz >> TypeShift
}

// WithTag packs a type tag into Sz's high bits, preserving the low bits as
// a size/length field the way the original core does.
func WithTag(tag uint64, size int) uint64 {
	return tag<<TypeShift | uint64(size)
}
