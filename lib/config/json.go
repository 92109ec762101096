// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/jsonc"
)

// DecodeJSONObject parses raw as a JSON object. Comments and trailing
// commas are accepted. An empty value is an error.
func DecodeJSONObject(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty value: %w", ErrParse)
	}

	var object map[string]any
	if err := json.Unmarshal(jsonc.ToJSON([]byte(raw)), &object); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrParse)
	}
	if object == nil {
		// The literal "null" decodes without error.
		return nil, fmt.Errorf("null is not an object: %w", ErrParse)
	}
	return object, nil
}

// ParseJSONObject is DecodeJSONObject for optional fields: a missing or
// malformed value is logged under field and yields an empty object, so
// one bad sub-field never aborts loading the section around it.
func ParseJSONObject(field, raw string, logger *slog.Logger) map[string]any {
	object, err := DecodeJSONObject(raw)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("configuration field not defined or not in JSON format",
			"field", field, "error", err)
		return map[string]any{}
	}
	return object
}
