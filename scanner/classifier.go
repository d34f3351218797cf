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
	"fmt"
	"net/http"
	"os"
	"strings"
)

// Classifier decides whether a file is text worth matching against. It's
// pulled out as an interface so a subprocess-based classifier (the
// reference implementation shells out to "file -bi") can be substituted
// without touching the walk/dispatch logic below.
type Classifier interface {
	IsText(path string) (bool, error)
}

// MIMEClassifier is the default Classifier. No MIME-sniffing library
// appears anywhere in the example corpus this system was grounded on, so
// this uses net/http.DetectContentType, which already does exactly the
// "does it start with text/" check §4.7 needs over the documented 512-byte
// sniff window.
type MIMEClassifier struct{}

// IsText reports whether path's content sniffs as a "text/*" MIME type.
func (MIMEClassifier) IsText(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %q: %v", path, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		// An empty file has no content to sniff; treat it as non-text
		// rather than erroring the whole scan over it.
		return false, nil
	}

	mime := http.DetectContentType(buf[:n])
	return strings.HasPrefix(mime, "text/"), nil
}
