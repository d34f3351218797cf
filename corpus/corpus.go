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

// Package corpus loads the reference license texts a training run
// discriminates between.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/licensefp/licensefp/ngram"
	"github.com/licensefp/licensefp/normalize"
)

// License is a single named reference document: a license id (the
// reference file's stem) and the ordered, possibly-duplicate-containing
// sequence of n-grams extracted from its normalized text.
type License struct {
	ID     string
	NGrams []ngram.NGram
}

// Load reads every direct child file of dir (non-recursive, matching the
// reference implementation's use of a flat reference directory) and
// extracts its n-grams. File stems must be unique within dir; a duplicate
// stem (e.g. "MIT.txt" and "MIT.md") is an error since it would silently
// merge two distinct license entries.
func Load(dir string) ([]License, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %q: %v", dir, err)
	}

	seen := make(map[string]bool)
	var licenses []License
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		id := idFromFilename(e.Name())
		if seen[id] {
			return nil, fmt.Errorf("corpus directory %q: duplicate license id %q", dir, id)
		}
		seen[id] = true

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading reference text %q: %v", path, err)
		}

		tokens := normalize.Tokens(normalize.Text(raw))
		licenses = append(licenses, License{
			ID:     id,
			NGrams: ngram.Extract(tokens),
		})
	}

	sort.Slice(licenses, func(i, j int) bool { return licenses[i].ID < licenses[j].ID })
	return licenses, nil
}

// idFromFilename derives a license id from a reference file's stem: the
// filename with its extension removed.
func idFromFilename(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}
