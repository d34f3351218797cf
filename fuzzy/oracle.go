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

// Package fuzzy defines the approximate-match fallback used for documents
// edited beyond exact n-gram overlap. The core treats the fuzzy-hash
// comparator as an opaque oracle: it only needs to build a hash index over
// a directory of reference texts and later score a target directory
// against that index. Hash_tree/compare map directly onto the reference
// implementation's own "compute_directory"/"compare" pair.
package fuzzy

// DefaultThreshold is the similarity score (0-100) above which a compare
// result is considered a match.
const DefaultThreshold = 75

// Index is the opaque blob an Oracle produces from a directory of
// reference texts. The core never interprets its bytes; it is written
// verbatim to "hashes.ssdeep" and handed back unmodified at compare time.
type Index []byte

// Result is one (file_a, file_b_id, score) triple returned by Compare:
// FileA is an absolute path under the target directory, LicenseID is the
// stem of the matching reference text, and Score is the 0-100 similarity.
type Result struct {
	FileA     string
	LicenseID string
	Score     int
}

// Oracle is the fuzzy-hash collaborator contract. Implementations are
// free to shell out to a subprocess or link a native library; the core
// never depends on which.
type Oracle interface {
	// HashTree produces a byte-stable Index over every reference text
	// under dir.
	HashTree(dir string) (Index, error)

	// Compare scores every file under targetDir against every entry in
	// idx and returns all results with Score > threshold.
	Compare(idx Index, targetDir string, threshold int) ([]Result, error)
}
