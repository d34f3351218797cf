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

// Package scanner walks a target directory and reports, per file, the set
// of licenses the matcher (and, as a fallback, the fuzzy-hash oracle)
// finds in it. Matching is fanned out across a fixed-width worker pool,
// mirroring the reference implementation's 16-worker thread pool.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"github.com/licensefp/licensefp/fuzzy"
	"github.com/licensefp/licensefp/internal/pathutil"
	"github.com/licensefp/licensefp/matcher"
)

// DefaultWorkers is the reference worker pool width. The core does not
// require this to be tunable, but callers may pass a different value to
// Scan's Options.
const DefaultWorkers = 16

// Result maps an absolute, canonicalized file path to the set of license
// ids matched in it. A file with no matches is omitted.
type Result map[string]map[string]bool

// add records that path matched license id.
func (r Result) add(path, id string) {
	set, ok := r[path]
	if !ok {
		set = make(map[string]bool)
		r[path] = set
	}
	set[id] = true
}

// Sorted returns r as a map from path to a sorted slice of license ids,
// the shape the CLI serializes to JSON.
func (r Result) Sorted() map[string][]string {
	out := make(map[string][]string, len(r))
	for path, set := range r {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[path] = ids
	}
	return out
}

// Options configures a Scan.
type Options struct {
	// Workers is the worker pool width; DefaultWorkers is used if zero.
	Workers int
	// Classifier decides which files are worth matching; MIMEClassifier
	// is used if nil.
	Classifier Classifier
	// Oracle, if non-nil, is consulted once per scan for the fuzzy-match
	// fallback pass, using FuzzyIndex as its reference index. A failure
	// from Oracle is logged and skipped rather than aborting the scan,
	// per the deliberate resilience concession around oracle failures.
	Oracle      fuzzy.Oracle
	FuzzyIndex  fuzzy.Index
	FuzzyThresh int
	Verbose     bool
}

// walkedPath pairs the path filepath.WalkDir actually visited (used to
// reopen and read the file) with its lexically-canonicalized form (used
// only as the Result key). Per §9, a canonical path may not denote a real
// file on disk, so matching must always reopen by the walked path.
type walkedPath struct {
	real      string
	canonical string
}

type matchJob struct {
	walkedPath
}

type matchOutcome struct {
	path string
	ids  []string
}

// Scan walks root, classifies and matches every surviving file against m,
// then augments the result with a fuzzy-hash pass. It returns early with
// whatever partial progress the collector has received if ctx is
// cancelled; per §5, an aborted scan's partial output is never persisted
// by this package — callers that want the partial Result can still read
// it, but nothing here writes it anywhere.
func Scan(ctx context.Context, root string, m *matcher.Matcher, opts Options) (Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = MIMEClassifier{}
	}

	walked, err := walk(root, classifier, opts.Verbose)
	if err != nil {
		return nil, err
	}

	result := make(Result)

	jobs := make(chan matchJob)
	outcomes := make(chan matchOutcome)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				ids, err := m.MatchFile(job.real)
				if err != nil {
					// Per-file IO errors during matching skip the file
					// and continue; they do not abort the scan.
					if opts.Verbose {
						log.Printf("scanner: skipping %q: %v", job.real, err)
					}
					continue
				}
				if len(ids) == 0 {
					continue
				}
				outcomes <- matchOutcome{path: job.canonical, ids: ids}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for o := range outcomes {
			for _, id := range o.ids {
				result.add(o.path, id)
			}
		}
	}()

	go func() {
		defer close(jobs)
		for _, p := range walked {
			select {
			case <-ctx.Done():
				return
			case jobs <- matchJob{walkedPath: p}:
			}
		}
	}()

	collectDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(outcomes)
		<-done
		close(collectDone)
	}()

	// Dispatch already stops enqueueing new jobs as soon as ctx is
	// cancelled; wait for in-flight workers and the collector to drain
	// before handing back the result map, so a cancelled scan never
	// races the collector goroutine over result.
	<-collectDone
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if opts.Oracle != nil && opts.FuzzyIndex != nil {
		thresh := opts.FuzzyThresh
		if thresh == 0 {
			thresh = fuzzy.DefaultThreshold
		}
		hits, err := opts.Oracle.Compare(opts.FuzzyIndex, root, thresh)
		if err != nil {
			log.Printf("scanner: fuzzy pass skipped: %v", err)
		} else {
			for _, h := range hits {
				result.add(h.FileA, h.LicenseID)
			}
		}
	}

	return result, nil
}

// walk collects every candidate file under root, excluding hidden paths and
// anything the classifier doesn't consider text. Each result keeps the
// literal path filepath.WalkDir visited alongside its canonical form: the
// canonical form is only ever used as a Result key, never to reopen the
// file, since per §9 it may not denote a real filesystem entry.
func walk(root string, classifier Classifier, verbose bool) ([]walkedPath, error) {
	var out []walkedPath
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if pathutil.IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		isText, err := classifier.IsText(path)
		if err != nil {
			if verbose {
				log.Printf("scanner: classifying %q: %v", path, err)
			}
			return nil
		}
		if !isText {
			return nil
		}

		abs, err := pathutil.Canonical(path)
		if err != nil {
			return fmt.Errorf("canonicalizing %q: %v", path, err)
		}
		out = append(out, walkedPath{real: path, canonical: abs})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %v", root, err)
	}
	return out, nil
}
