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

package kernelrelease

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Tag contains all the parts of a kernel package tag.
//
// Fedora kernel-ark tags look like kernel-X.Y.Z-<release>, e.g. kernel-6.3.6-0.
type Tag struct {
	Prefix      string         `json:"prefix" yaml:"prefix"`
	Fullversion string         `json:"full_version" yaml:"full_version"`
	Version     semver.Version `json:"version" yaml:"version"`
	Release     string         `json:"release" yaml:"release"`
}

// FromTag extracts a Tag object from string.
//
// The second hyphen delimited field must be a three component dotted version.
func FromTag(tag string) (Tag, error) {
	fields := strings.Split(tag, "-")
	if len(fields) < 2 {
		return Tag{}, fmt.Errorf("tag %q has no version field", tag)
	}
	v, err := semver.Parse(fields[1])
	if err != nil {
		return Tag{}, fmt.Errorf("tag %q: invalid kernel version %q: %w", tag, fields[1], err)
	}
	return Tag{
		Prefix:      fields[0],
		Fullversion: fields[1],
		Version:     v,
		Release:     strings.Join(fields[2:], "-"),
	}, nil
}

// Major returns the X.Y part of the kernel version.
func (t Tag) Major() string {
	return fmt.Sprintf("%d.%d", t.Version.Major, t.Version.Minor)
}

func (t Tag) String() string {
	s := t.Prefix + "-" + t.Fullversion
	if t.Release != "" {
		s += "-" + t.Release
	}
	return s
}

// ParseMajor parses a X.Y major version as found in the patches directory.
func ParseMajor(major string) (semver.Version, error) {
	parts := strings.Split(major, ".")
	if len(parts) != 2 {
		return semver.Version{}, fmt.Errorf("invalid major version %q", major)
	}
	return semver.Parse(major + ".0")
}
