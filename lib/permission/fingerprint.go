// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package permission

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/lightshow/lib/codec"
)

// fingerprintDomainKey is the BLAKE3 key for permission fingerprints:
// the ASCII domain name zero-padded to 32 bytes. Changing it changes
// every fingerprint.
var fingerprintDomainKey = [32]byte{
	'l', 'i', 'g', 'h', 't', 's', 'h', 'o', 'w', '.', 'p', 'e', 'r', 'm', 'i', 's',
	's', 'i', 'o', 'n', '.', 't', 'a', 'b', 'l', 'e', 0, 0, 0, 0, 0, 0,
}

// snapshot is the hashed form of a Table. Order-significant lists stay
// lists; sets become sorted lists so hashing does not depend on map
// iteration.
type snapshot struct {
	Commands  []string            `cbor:"commands"`
	Aliases   map[string][]string `cbor:"aliases"`
	Groups    []groupSnapshot     `cbor:"groups"`
	Blacklist []string            `cbor:"blacklist"`
}

type groupSnapshot struct {
	Name      string         `cbor:"name"`
	Users     []string       `cbor:"users"`
	Commands  []string       `cbor:"commands"`
	Throttled bool           `cbor:"throttled"`
	Throttle  map[string]int `cbor:"throttle"`
}

// fingerprint returns the hex BLAKE3 keyed hash of the table's
// deterministic CBOR encoding.
func fingerprint(table *Table) (string, error) {
	value := snapshot{
		Commands:  table.commands,
		Aliases:   table.aliases,
		Blacklist: table.blacklist,
	}
	for _, group := range table.groups {
		value.Groups = append(value.Groups, groupSnapshot{
			Name:      group.Name,
			Users:     group.Users,
			Commands:  group.Commands,
			Throttled: group.Throttle != nil,
			Throttle:  group.Throttle,
		})
	}

	data, err := codec.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encoding permission table: %w", err)
	}

	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		return "", fmt.Errorf("creating fingerprint hasher: %w", err)
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
