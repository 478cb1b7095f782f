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

import "fmt"

// Filesystem is a read-only view of a directory tree.
//
// Names are slash separated and relative to the root of the view.
type Filesystem interface {
	fmt.Stringer
	// Path returns the host path of name.
	Path(name string) string
	// Exists tells whether name is present, whatever its type.
	Exists(name string) bool
	// Glob returns the sorted host paths matching pattern, or nil when nothing matches.
	Glob(pattern string) ([]string, error)
}
