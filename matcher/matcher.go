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

// Package matcher determines which licenses, if any, a candidate file's
// content satisfies, given a trained fingerprint Table.
package matcher

import (
	"fmt"
	"os"
	"sort"

	"github.com/licensefp/licensefp/discriminator"
	"github.com/licensefp/licensefp/ngram"
	"github.com/licensefp/licensefp/normalize"
)

// Matcher matches candidate file content against a trained fingerprint
// Table. A Matcher holds no mutable state and is safe for concurrent use
// by multiple goroutines, which is what the scan orchestrator's worker
// pool relies on.
type Matcher struct {
	table Table
}

// Table is the Matcher's view of a discriminator.Table: license ids in the
// order they should be checked (ascending by Level, per §4.6 — lower
// levels were easiest to discriminate and are checked first, though this
// has no effect on the result set, only on potential early-termination
// heuristics).
type Table []tableEntry

type tableEntry struct {
	id     string
	ngrams []ngram.NGram
}

// NewTable builds a matcher Table from a discriminator.Table, sorted
// ascending by level and then by id for determinism among ties.
func NewTable(t discriminator.Table) Table {
	entries := make(Table, 0, len(t))
	for id, e := range t {
		entries = append(entries, tableEntry{id: id, ngrams: e.NGrams})
	}
	sort.Slice(entries, func(i, j int) bool {
		li, lj := levelOf(t, entries[i].id), levelOf(t, entries[j].id)
		if li != lj {
			return li < lj
		}
		return entries[i].id < entries[j].id
	})
	return entries
}

func levelOf(t discriminator.Table, id string) int {
	if e, ok := t[id]; ok {
		return e.Level
	}
	return 0
}

// New creates a Matcher over a trained fingerprint table.
func New(table Table) *Matcher {
	return &Matcher{table: table}
}

// MatchBytes returns the set of license ids whose fingerprint is a subset
// of raw's n-gram set, in Table order.
func (m *Matcher) MatchBytes(raw []byte) []string {
	tokens := normalize.Tokens(normalize.Text(raw))
	candidate := ngram.NewSet(ngram.Extract(tokens))

	var matched []string
	for _, entry := range m.table {
		if candidate.ContainsAll(entry.ngrams) {
			matched = append(matched, entry.id)
		}
	}
	return matched
}

// MatchFile reads path and matches its content. A read failure is
// returned as an error; callers that want the scanner's "skip and
// continue" policy should treat any returned error that way.
func (m *Matcher) MatchFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %v", path, err)
	}
	return m.MatchBytes(raw), nil
}
