// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fingerprint serializes and loads the discriminator's Table to
// and from the on-disk "ngrams.json" document.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/licensefp/licensefp/discriminator"
	"github.com/licensefp/licensefp/ngram"
)

// wireEntry is the JSON-visible shape of a discriminator.Entry: "level" is
// a non-negative integer, "ngrams" is an array of arrays of exactly
// ngram.Size tokens.
type wireEntry struct {
	Level  int        `json:"level"`
	NGrams [][]string `json:"ngrams"`
}

// Write serializes table as the FingerprintTable document (ngrams.json)
// to path.
func Write(path string, table discriminator.Table) error {
	wire := make(map[string]wireEntry, len(table))
	for id, entry := range table {
		grams := make([][]string, len(entry.NGrams))
		for i, g := range entry.NGrams {
			grams[i] = g.Tokens()
		}
		wire[id] = wireEntry{Level: entry.Level, NGrams: grams}
	}

	data, err := json.MarshalIndent(wire, "", "   ")
	if err != nil {
		return fmt.Errorf("encoding fingerprint table: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing fingerprint table to %q: %v", path, err)
	}
	return nil
}

// Load reads and validates the FingerprintTable document at path. Every
// n-gram entry must decode to exactly ngram.Size tokens; an entry that
// doesn't is a load-time validation failure, reported with the offending
// license id.
func Load(path string) (discriminator.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fingerprint table %q: %v", path, err)
	}

	var wire map[string]wireEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decoding fingerprint table %q: %v", path, err)
	}

	table := make(discriminator.Table, len(wire))
	for id, entry := range wire {
		grams := make([]ngram.NGram, len(entry.NGrams))
		for i, tokens := range entry.NGrams {
			if len(tokens) != ngram.Size {
				return nil, fmt.Errorf("fingerprint table %q: license %q has an n-gram of length %d, want %d",
					path, id, len(tokens), ngram.Size)
			}
			grams[i] = ngram.New(tokens)
		}
		table[id] = &discriminator.Entry{Level: entry.Level, NGrams: grams}
	}
	return table, nil
}
