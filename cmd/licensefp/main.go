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

// The licensefp program trains a discriminating n-gram fingerprint
// database from a directory of reference license texts, and uses that
// database to report which licenses, if any, match files under a target
// directory.
//
//	$ licensefp -g reference_licenses/
//	$ licensefp -c cache/ path/to/project
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	flag "github.com/spf13/pflag"

	"github.com/licensefp/licensefp/corpus"
	"github.com/licensefp/licensefp/discriminator"
	"github.com/licensefp/licensefp/fingerprint"
	"github.com/licensefp/licensefp/fuzzy"
	"github.com/licensefp/licensefp/matcher"
	"github.com/licensefp/licensefp/scanner"
)

const (
	ngramsFile = "ngrams.json"
	hashesFile = "hashes.ssdeep"
	version    = "0.1.0"
)

var (
	generate = flag.StringP("generate", "g", "", "generate a fingerprint database from reference texts in DIR")
	check    = flag.StringP("check", "c", "", "scan target paths using the database rooted at FILE")
	verbose  = flag.BoolP("verbose", "v", false, "verbose progress output")
	showVer  = flag.Bool("version", false, "display version information")
	cacheDir = flag.String("cache", "cache", "directory to write the generated fingerprint database into")
	output   = flag.StringP("output", "o", "", "write scan results to this file instead of stdout")
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s -g DIR
       %s -c FILE PATH ...

Options:
`, filepath.Base(os.Args[0]), filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	switch {
	case *generate != "" && *check != "":
		usage()
		log.Fatal("-g/--generate and -c/--check are mutually exclusive")
	case *generate != "":
		if err := runGenerate(*generate); err != nil {
			log.Fatalf("generate failed: %v", err)
		}
	case *check != "":
		if flag.NArg() == 0 {
			usage()
			log.Fatal("-c/--check requires at least one target path")
		}
		if err := runCheck(*check, flag.Args()); err != nil {
			log.Fatalf("check failed: %v", err)
		}
	default:
		usage()
		log.Fatal("provide either -g/--generate or -c/--check")
	}
}

func runGenerate(dir string) error {
	licenses, err := corpus.Load(dir)
	if err != nil {
		return err
	}
	if *verbose {
		log.Printf("loaded %d reference license(s) from %q", len(licenses), dir)
	}

	table, err := discriminator.Run(licenses, *verbose)
	if err != nil {
		return err
	}
	if *verbose {
		log.Print(spew.Sdump(table))
	}

	if err := os.MkdirAll(*cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %q: %v", *cacheDir, err)
	}

	ngramsPath := filepath.Join(*cacheDir, ngramsFile)
	if err := fingerprint.Write(ngramsPath, table); err != nil {
		return err
	}

	oracle := fuzzy.LevenshteinOracle{}
	idx, err := oracle.HashTree(dir)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*cacheDir, hashesFile), idx, 0644); err != nil {
		return fmt.Errorf("writing %q: %v", hashesFile, err)
	}

	log.Printf("generated fingerprint database for %d license(s) in %q", len(table), *cacheDir)
	return nil
}

func runCheck(dataDir string, targets []string) error {
	table, err := fingerprint.Load(filepath.Join(dataDir, ngramsFile))
	if err != nil {
		return err
	}
	m := matcher.New(matcher.NewTable(table))

	oracle := fuzzy.LevenshteinOracle{}
	idx, err := os.ReadFile(filepath.Join(dataDir, hashesFile))
	if err != nil {
		log.Printf("fuzzy index unavailable, exact matches only: %v", err)
		idx = nil
	}

	result := make(scanner.Result)
	ctx := context.Background()
	for _, target := range targets {
		r, err := scanner.Scan(ctx, target, m, scanner.Options{
			Oracle:      oracle,
			FuzzyIndex:  fuzzy.Index(idx),
			FuzzyThresh: fuzzy.DefaultThreshold,
			Verbose:     *verbose,
		})
		if err != nil {
			return fmt.Errorf("scanning %q: %v", target, err)
		}
		for path, ids := range r {
			for id := range ids {
				if result[path] == nil {
					result[path] = make(map[string]bool)
				}
				result[path][id] = true
			}
		}
	}

	data, err := json.MarshalIndent(result.Sorted(), "", "   ")
	if err != nil {
		return fmt.Errorf("encoding scan result: %v", err)
	}

	if *output == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*output, data, 0644)
}
