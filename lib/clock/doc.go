// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Throttle windows are measured against the wall clock, which makes
// them awkward to test: a window of one hour would need an hour of
// real time to expire. Components that read the time take a [Clock]
// instead of calling time.Now directly. In production, [Real] provides
// the standard library behavior. In tests, [Fake] provides a clock
// that only moves when [FakeClock.Advance] or [FakeClock.Set] is
// called.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	store := throttle.New(state, time.Minute, c, logger)
//	// ... first check opens a window ...
//	c.Advance(time.Minute + time.Second) // window expires deterministically
package clock
