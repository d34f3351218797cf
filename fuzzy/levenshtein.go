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

package fuzzy

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/licensefp/licensefp/internal/pathutil"
	"github.com/licensefp/licensefp/normalize"
)

// LevenshteinOracle is the default Oracle. No ssdeep/content-defined-
// chunking binding is available, so similarity is scored the same way the
// teacher's stringclassifier scores its own nearest-match confidence: a
// Levenshtein ratio over normalized text, computed with go-diff's
// diff/match/patch implementation.
type LevenshteinOracle struct{}

var dmp = diffmatchpatch.New()

// HashTree reads every direct child file of dir, normalizes its text, and
// records it as one base64-encoded line per reference text: "id<TAB>b64".
// Base64 keeps the record one-line-per-entry even though the underlying
// normalized text no longer contains newlines.
func (LevenshteinOracle) HashTree(dir string) (Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("fuzzy: reading %q: %v", dir, err)
	}

	var sb strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("fuzzy: reading %q: %v", path, err)
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		text := normalize.Text(raw)
		fmt.Fprintf(&sb, "%s\t%s\n", id, base64.StdEncoding.EncodeToString([]byte(text)))
	}
	return Index(sb.String()), nil
}

// Compare scores every non-hidden file under targetDir against every
// entry in idx, returning results whose score exceeds threshold.
func (LevenshteinOracle) Compare(idx Index, targetDir string, threshold int) ([]Result, error) {
	type ref struct {
		id, text string
	}
	var refs []ref
	for _, line := range strings.Split(string(idx), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			continue
		}
		text, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("fuzzy: malformed index record for %q: %v", parts[0], err)
		}
		refs = append(refs, ref{id: parts[0], text: string(text)})
	}

	var results []Result
	err := filepath.WalkDir(targetDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if pathutil.IsHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if pathutil.IsHidden(path) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			// Per the error policy, a per-file IO failure during the
			// fuzzy pass is skipped rather than aborting the scan.
			return nil
		}
		text := normalize.Text(raw)
		if text == "" {
			return nil
		}

		abs, err := pathutil.Canonical(path)
		if err != nil {
			abs = path
		}

		for _, r := range refs {
			score := int(similarity(text, r.text) * 100)
			if score > threshold {
				results = append(results, Result{FileA: abs, LicenseID: r.id, Score: score})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fuzzy: walking %q: %v", targetDir, err)
	}
	return results, nil
}

// similarity returns a 0.0-1.0 ratio derived from the Levenshtein distance
// between a and b, 1.0 meaning identical.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1.0
	}
	ratio := 1.0 - float64(distance)/float64(longest)
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}
