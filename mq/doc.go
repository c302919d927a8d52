// File: mq/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package mq is the two-level message queueing substrate: a per-service
// Mailbox ring buffer, and a process-wide ReadyList of mailboxes that
// currently have work. It is a direct reimplementation of skynet_mq.c —
// spinlocks guard O(1) critical sections, mailboxes grow by doubling, and
// a mailbox is linked into the ready list at most once at any time.
package mq
