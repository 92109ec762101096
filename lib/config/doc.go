// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the light show's layered configuration and
// exposes typed views of its sections.
//
// Configuration is a set of YAML files, each a mapping of section name
// to a mapping of key to scalar value. Files are applied in order and
// later files override earlier ones key by key:
//
//  1. <home>/config/defaults.yaml (required)
//  2. <home>/config/overrides.yaml
//  3. /home/pi/.lights.yaml
//  4. ~/.lights.yaml
//
// Every value is kept as a string. Lists are delimited strings
// ("17, 18, 27") split by [SplitList]; JSON-shaped values (hardware
// devices, preshow and postshow configuration) are parsed with
// [ParseJSONObject], which accepts comments and trailing commas and
// degrades to an empty object on malformed input rather than failing
// the whole load.
//
// ${LIGHTSHOW_HOME}, ${HOME} and ${VAR:-default} patterns are expanded
// in every value after the layers are merged.
//
// Key exports:
//
//   - [Settings] -- the resolved configuration, immutable after load
//   - [Load], [LoadFromEnvironment], [LoadLayers], [New] -- constructors
//   - [Section] -- string accessors with [ErrMissingKey] and [ErrParse]
//   - [Hardware], [Lightshow], [SMS] -- typed section views
//
// This package depends on no other lightshow packages.
package config
