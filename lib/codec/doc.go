// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the project's deterministic CBOR encoding.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical value always produces identical bytes, which is what
// makes the encoding usable as hash input: two processes that loaded
// the same SMS configuration compute the same permission fingerprint
// regardless of Go's map iteration order.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types serialized here carry `cbor` struct tags. They are never
// marshaled to JSON.
package codec
