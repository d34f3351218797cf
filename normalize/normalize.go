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

// Package normalize turns raw license text into the canonical
// whitespace-separated token stream the rest of the system operates on.
// Placeholders like "<YEAR>" or "______" filler lines are common template
// artifacts in reference license texts and would otherwise produce n-grams
// that spuriously distinguish otherwise-identical licenses.
package normalize

import (
	"regexp"
	"strings"
)

var (
	underscoreRun = regexp.MustCompile(`_{2,}`)
	angleWord     = regexp.MustCompile(`<[A-Za-z0-9_]*>`)
	whitespaceRun = regexp.MustCompile(`[ \t\r\v]+`)
)

// Text normalizes raw bytes into a single canonical string: newlines become
// spaces, underscore fillers and <PLACEHOLDER> tokens are dropped, runs of
// remaining whitespace collapse to a single space, and empty tokens
// produced along the way are discarded. Non-UTF-8 input decodes with the
// standard replacement character: each run of invalid bytes becomes one
// U+FFFD.
func Text(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), "�")
	s = strings.ReplaceAll(s, "\n", " ")
	s = underscoreRun.ReplaceAllString(s, "")
	s = angleWord.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")

	fields := strings.Split(s, " ")
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

// Tokens splits already-normalized text on the single space separator
// Text produces. Calling Tokens(Text(raw)) is how every caller in this
// system gets from raw bytes to a token stream.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
