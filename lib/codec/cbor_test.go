// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	Name   string         `cbor:"name"`
	Limits map[string]int `cbor:"limits"`
	Users  []string       `cbor:"users"`
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	// Build the same logical map with different insertion orders. Go
	// map iteration is randomized, so repeated encodings exercise the
	// sorting rather than a lucky order.
	first := sample{Name: "vip", Limits: map[string]int{}}
	second := sample{Name: "vip", Limits: map[string]int{}}
	keys := []string{"play", "all", "volume", "next", "stop"}
	for i, key := range keys {
		first.Limits[key] = i
	}
	for i := len(keys) - 1; i >= 0; i-- {
		second.Limits[keys[i]] = i
	}

	want, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for attempt := 0; attempt < 20; attempt++ {
		got, err := Marshal(second)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("attempt %d: encodings differ:\n got  %x\n want %x", attempt, got, want)
		}
	}
}

func TestUnmarshalDecodesEncodedValue(t *testing.T) {
	original := sample{
		Name:   "guest",
		Limits: map[string]int{"all": 3},
		Users:  []string{"alice", "bob"},
	}
	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sample
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Name != "guest" || decoded.Limits["all"] != 3 || len(decoded.Users) != 2 {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestUnmarshalAnyUsesStringKeyedMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"groups": map[string]any{"vip": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := top["groups"].(map[string]any); !ok {
		t.Errorf("nested type = %T, want map[string]any", top["groups"])
	}
}
