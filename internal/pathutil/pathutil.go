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

// Package pathutil provides the lexical path canonicalization used by the
// scanner and the CLI. It never touches the filesystem: symlinks are not
// resolved and nonexistent paths canonicalize just fine.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonical resolves "." and ".." components of p purely lexically,
// prefixing it with the current working directory if p is relative. It does
// not call os.Stat or resolve symlinks, so the result may name a path that
// doesn't exist.
func Canonical(p string) (string, error) {
	if !filepath.IsAbs(p) {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		p = filepath.Join(wd, p)
	}
	return filepath.Clean(p), nil
}

// IsHidden reports whether p contains "/." — a path component after the
// first that begins with a dot (a leading ".dotfile" is not hidden) —
// matching the reference implementation's plain substring check
// (strings.Contains(p, "/.")) rather than a component-aware dotfile test.
// This is deliberately loose: "a/.git/config" and "a/b.hidden" behave
// differently by design, preserving the source's literal semantics.
func IsHidden(p string) bool {
	return strings.Contains(filepath.ToSlash(p), "/.")
}
