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

package builder

import (
	"fmt"
	"strings"
)

// ConfigError is returned when the package definition is malformed.
type ConfigError struct {
	Tag string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid package tag %q: %v", e.Tag, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnsupportedVersionError is returned when the repository has no patches or no config for a kernel major version.
type UnsupportedVersionError struct {
	Major   string
	Missing []string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("could not find patches / configs for kernel %s (missing %s)", e.Major, strings.Join(e.Missing, ", "))
}

// BuildFailedError is returned when the external builder exits with a non-zero status.
type BuildFailedError struct {
	ExitCode int
	Err      error
}

func (e *BuildFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("builder failed with exit code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("builder failed with exit code %d", e.ExitCode)
}

func (e *BuildFailedError) Unwrap() error {
	return e.Err
}
