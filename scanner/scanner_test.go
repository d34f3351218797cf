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

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/licensefp/licensefp/corpus"
	"github.com/licensefp/licensefp/discriminator"
	"github.com/licensefp/licensefp/fuzzy"
	"github.com/licensefp/licensefp/matcher"
	"github.com/licensefp/licensefp/ngram"
)

const mitText = "Permission is hereby granted free of charge to any person obtaining a copy of this software and associated documentation files"

func license(id, text string) corpus.License {
	return corpus.License{ID: id, NGrams: ngram.Extract(strings.Fields(text))}
}

func trainedMatcher(t *testing.T) *matcher.Matcher {
	t.Helper()
	table, err := discriminator.Run([]corpus.License{license("MIT", mitText)}, false)
	if err != nil {
		t.Fatal(err)
	}
	return matcher.New(matcher.NewTable(table))
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScan_FindsMatchAndSkipsHiddenAndBinary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "LICENSE", mitText)
	writeFile(t, root, "unrelated.txt", "some totally unrelated prose about rivers and mountains")
	writeFile(t, root, ".git/config", mitText)
	writeFile(t, root, "image.bin", string([]byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe}))

	m := trainedMatcher(t)
	result, err := Scan(context.Background(), root, m, Options{})
	if err != nil {
		t.Fatal(err)
	}

	sorted := result.Sorted()
	var matchedLicense bool
	for path, ids := range sorted {
		if strings.HasSuffix(path, "LICENSE") {
			matchedLicense = true
			if !contains(ids, "MIT") {
				t.Errorf("ids for LICENSE = %v, want to contain MIT", ids)
			}
		}
		if strings.Contains(path, ".git") {
			t.Errorf("result unexpectedly contains hidden path %q", path)
		}
		if strings.HasSuffix(path, "unrelated.txt") {
			t.Errorf("unrelated.txt unexpectedly matched %v", ids)
		}
	}
	if !matchedLicense {
		t.Errorf("result %v, want a match for LICENSE", sorted)
	}
}

func TestScan_CancelledContextReturnsWithoutRace(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 50; i++ {
		writeFile(t, root, filepathName(i), mitText)
	}

	m := trainedMatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Scan(ctx, root, m, Options{})
	if err == nil {
		t.Fatal("Scan with a pre-cancelled context succeeded, want context.Canceled")
	}
	// The returned (possibly partial) result must be safe to read: no
	// background goroutine should still be writing to it once Scan has
	// returned. Run under -race to catch a violation.
	_ = result.Sorted()
}

func TestScan_FuzzyAugmentation(t *testing.T) {
	root := t.TempDir()
	edited := strings.NewReplacer("hereby", "explicitly", "charge", "cost").Replace(mitText)
	writeFile(t, root, "LICENSE", edited)

	refDir := t.TempDir()
	writeFile(t, refDir, "MIT.txt", mitText)

	oracle := fuzzy.LevenshteinOracle{}
	idx, err := oracle.HashTree(refDir)
	if err != nil {
		t.Fatal(err)
	}

	// Train the matcher on text different enough from the edited candidate
	// that its exact fingerprint won't fire, so only the fuzzy pass can
	// produce the match.
	m := trainedMatcher(t)
	result, err := Scan(context.Background(), root, m, Options{
		Oracle:      oracle,
		FuzzyIndex:  idx,
		FuzzyThresh: 50,
	})
	if err != nil {
		t.Fatal(err)
	}

	sorted := result.Sorted()
	var found bool
	for path, ids := range sorted {
		if strings.HasSuffix(path, "LICENSE") && contains(ids, "MIT") {
			found = true
		}
	}
	if !found {
		t.Errorf("result %v, want a fuzzy-augmented match for LICENSE", sorted)
	}
}

func filepathName(i int) string {
	return "file" + string(rune('a'+i%26)) + string(rune('0'+i/26)) + ".txt"
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
