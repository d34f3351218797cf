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

package fingerprint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/licensefp/licensefp/discriminator"
	"github.com/licensefp/licensefp/ngram"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	table := discriminator.Table{
		"MIT": &discriminator.Entry{
			Level: 1,
			NGrams: []ngram.NGram{
				ngram.New(strings.Fields("a b c d e f g")),
				ngram.New(strings.Fields("h i j k l m n")),
				ngram.New(strings.Fields("o p q r s t u")),
			},
		},
		"BSD": &discriminator.Entry{
			Level: 2,
			NGrams: []ngram.NGram{
				ngram.New(strings.Fields("1 2 3 4 5 6 7")),
				ngram.New(strings.Fields("8 9 10 11 12 13 14")),
				ngram.New(strings.Fields("15 16 17 18 19 20 21")),
			},
		},
	}

	path := filepath.Join(t.TempDir(), "ngrams.json")
	if err := Write(path, table); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(table, got); diff != "" {
		t.Errorf("round-tripped table differs (-want +got):\n%s", diff)
	}
}

func TestLoad_RejectsWrongNGramLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ngrams.json")
	bad := `{"MIT": {"level": 1, "ngrams": [["a", "b", "c"]]}}`
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted a malformed n-gram of the wrong length")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load of a missing file succeeded, want error")
	}
}
