// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"reflect"

	"github.com/spf13/pflag"
)

// JSONOutput adds --json support to a command. Register the flag with
// [JSONOutput.AddFlag] and call [JSONOutput.EmitJSON] before text
// formatting.
type JSONOutput struct {
	OutputJSON bool
}

// AddFlag registers --json on flagSet.
func (j *JSONOutput) AddFlag(flagSet *pflag.FlagSet) {
	flagSet.BoolVar(&j.OutputJSON, "json", false, "output as JSON")
}

// EmitJSON writes result to w as indented JSON if --json is set.
// Returns (false, nil) when --json is not set and the caller should
// proceed with text formatting. Nil slices are written as [].
func (j *JSONOutput) EmitJSON(w io.Writer, result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, normalizeNilSlice(result))
}

// WriteJSON marshals value as indented JSON to w.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
