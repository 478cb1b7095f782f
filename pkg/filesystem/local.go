// SPDX-License-Identifier: Apache-2.0
/*
Copyright (C) 2023 The linux-surface Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
    http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package filesystem

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const LocalFilesystemStr = "local"

type Local struct {
	basePath string
}

func NewLocal(basePath string) *Local {
	if basePath == "" {
		basePath = "."
	}
	return &Local{
		basePath: filepath.Clean(basePath),
	}
}

func (f *Local) String() string {
	return fmt.Sprintf("%s:%s", LocalFilesystemStr, f.basePath)
}

func (f *Local) Path(name string) string {
	return filepath.Join(f.basePath, filepath.FromSlash(stripPath(name)))
}

func (f *Local) Exists(name string) bool {
	_, err := os.Stat(f.Path(name))
	return err == nil
}

func (f *Local) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(f.Path(pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, f.basePath, err)
	}
	return matches, nil
}

func stripPath(p string) string {
	newPath := path.Clean(p)
	trimmed := strings.TrimPrefix(newPath, "../")

	for trimmed != newPath {
		newPath = trimmed
		trimmed = strings.TrimPrefix(newPath, "../")
	}

	if newPath == "." || newPath == ".." {
		newPath = ""
	}

	if len(newPath) > 0 && string(newPath[0]) == "/" {
		return newPath[1:]
	}

	return newPath
}
