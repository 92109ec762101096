// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package statefile provides the application state file: a flat
// key/value store shared by every light show process on the machine
// (the SMS intake process, the playback process, operator tools).
//
// The file is YAML with a single reserved section:
//
//	do_not_modify:
//	  play_now: "0"
//	  song_to_play: "3"
//	  throttle: '{"start":"2026-01-01T00:00:00.5Z","counts":{"vip":{"all":1}}}'
//
// Every access takes a Linux open-file-description record lock over
// the whole file: shared for [Store.Load] and [Store.Get], exclusive
// for [Store.Update] and [Store.Transact]. OFD locks belong to the open
// file, not the process, so two handles in one process exclude each
// other exactly as two processes do. Locks are released before the
// file is closed on every path, including errors. Acquisition blocks
// without a timeout; holders only do a read, a small computation, and
// a write.
//
// [Store.Transact] holds the exclusive lock across read, modify and
// write. Read-modify-write sequences (throttle counters) must use it
// rather than Load followed by Update, which leaves a window in which
// another process can act on the same stale value.
//
// Writes happen in place (truncate, write, fsync) because a
// rename-into-place would move the lock holders onto an unlinked
// inode. A torn write after a crash reads back as corrupt content,
// which is logged and treated as an empty store.
package statefile
