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
	"os"
	"path/filepath"
	"testing"
)

func TestMIMEClassifier_IsText(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "license.txt")
	if err := os.WriteFile(textPath, []byte("Permission is hereby granted, free of charge"), 0644); err != nil {
		t.Fatal(err)
	}

	binPath := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(binPath, []byte{0x00, 0x01, 0x02, 0xff, 0xfe, 0x00, 0x00, 0x00}, 0644); err != nil {
		t.Fatal(err)
	}

	emptyPath := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(emptyPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	c := MIMEClassifier{}

	if ok, err := c.IsText(textPath); err != nil || !ok {
		t.Errorf("IsText(%q) = %v, %v, want true, nil", textPath, ok, err)
	}
	if ok, err := c.IsText(binPath); err != nil || ok {
		t.Errorf("IsText(%q) = %v, %v, want false, nil", binPath, ok, err)
	}
	if ok, err := c.IsText(emptyPath); err != nil || ok {
		t.Errorf("IsText(%q) = %v, %v, want false, nil", emptyPath, ok, err)
	}
}

func TestMIMEClassifier_MissingFile(t *testing.T) {
	c := MIMEClassifier{}
	if _, err := c.IsText(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("IsText on a missing file succeeded, want error")
	}
}
