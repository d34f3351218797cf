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

// Package discriminator implements the iterative uniqueness-driven
// elimination algorithm that derives, for each reference license, a
// minimal set of n-grams guaranteed not to occur in any other license in
// the training corpus.
package discriminator

import (
	"fmt"
	"log"
	"sort"

	"github.com/licensefp/licensefp/corpus"
	"github.com/licensefp/licensefp/ngram"
)

// minFingerprintSize is the number of distinct unique n-grams a license
// needs before it is considered "finished". This is a system constant:
// a single rare n-gram might appear in a derivative work by coincidence,
// so three is the balance between false-positive resistance and
// fingerprint-table size.
const minFingerprintSize = 3

// Entry is a single license's fingerprint: the n-grams unique to it within
// the training corpus, plus the elimination round ("level") at which it
// became finished. Level is preserved for diagnostics only; it plays no
// part in correctness.
type Entry struct {
	Level  int
	NGrams []ngram.NGram
}

// Table maps license id to its Entry. Every Table returned by Run satisfies:
//
//	I1: every n-gram in Table[id].NGrams occurs in the reference text of id
//	I2: no n-gram in Table[id].NGrams occurs in the reference text of any
//	    other license in the training set
//	I3: len(Table[id].NGrams) >= 3
type Table map[string]*Entry

// NonDiscriminableError reports that the training corpus stalled: a round
// finished no license that was not already finished. It names the licenses that remain unfingerprinted. This is
// fatal; Run returns no partial Table alongside it.
type NonDiscriminableError struct {
	Remaining []string
}

func (e *NonDiscriminableError) Error() string {
	return fmt.Sprintf("non-discriminable corpus: %d license(s) could not be distinguished: %v",
		len(e.Remaining), e.Remaining)
}

// occurrenceIndex tracks, for each n-gram, which corpus ids currently still
// claim it. Entries are removed from the index as corpora finish or as
// n-grams are consumed into a fingerprint — never added.
type occurrenceIndex map[ngram.NGram]map[string]bool

// Run executes the training algorithm over licenses and returns the
// resulting fingerprint Table, or a *NonDiscriminableError if no round
// makes progress. Training is single-threaded: the round structure is
// intrinsically sequential, and within a round this implementation
// processes entries in a fixed, sorted order for determinism.
func Run(licenses []corpus.License, verbose bool) (Table, error) {
	if len(licenses) == 0 {
		return Table{}, nil
	}

	refText := make(map[string]map[ngram.NGram]bool, len(licenses))
	occ := make(occurrenceIndex)
	for _, lic := range licenses {
		owned := make(map[ngram.NGram]bool, len(lic.NGrams))
		for _, g := range lic.NGrams {
			owned[g] = true
			if occ[g] == nil {
				occ[g] = make(map[string]bool)
			}
			occ[g][lic.ID] = true
		}
		refText[lic.ID] = owned
	}

	fingerprints := make(Table)
	finished := make(map[string]bool)
	level := 1

	for len(finished) < len(licenses) {
		progressBefore := len(finished)

		keys := make([]ngram.NGram, 0, len(occ))
		for g := range occ {
			keys = append(keys, g)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		var cleanup []ngram.NGram
		for _, g := range keys {
			owners := occ[g]
			if len(owners) == 1 {
				var owner string
				for id := range owners {
					owner = id
				}

				if finished[owner] {
					cleanup = append(cleanup, g)
					continue
				}

				entry, ok := fingerprints[owner]
				if !ok {
					fingerprints[owner] = &Entry{Level: level, NGrams: []ngram.NGram{g}}
					cleanup = append(cleanup, g)
					continue
				}

				entry.NGrams = append(entry.NGrams, g)
				entry.Level = level
				if len(entry.NGrams) >= minFingerprintSize {
					finished[owner] = true
					if verbose {
						log.Printf("discriminator: %q finished at level %d with %d n-grams", owner, level, len(entry.NGrams))
					}
				}
				cleanup = append(cleanup, g)
				continue
			}

			// Ambiguous entry (owned by 2+ corpora): drop any owner that
			// has already finished. This may reduce the owner set to a
			// single id, but per the reference algorithm that reduced
			// entry is only re-evaluated in a later round, not
			// immediately in this pass.
			for id := range owners {
				if finished[id] {
					delete(owners, id)
				}
			}
		}

		for _, g := range cleanup {
			delete(occ, g)
		}

		if len(finished) == progressBefore {
			var remaining []string
			for _, lic := range licenses {
				if !finished[lic.ID] {
					remaining = append(remaining, lic.ID)
				}
			}
			sort.Strings(remaining)
			return nil, &NonDiscriminableError{Remaining: remaining}
		}

		level++
	}

	return fingerprints, nil
}
