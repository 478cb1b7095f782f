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
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blang/semver"
	"github.com/linux-surface/surfacekit/pkg/kernelrelease"
)

// Support describes the assets the repository holds for a kernel major version.
type Support struct {
	Major   string
	Patches int
	HasDir  bool
	Config  bool
	version semver.Version
}

// Supported tells whether a build can be requested for this major version.
func (s Support) Supported() bool {
	return s.HasDir && s.Config
}

// Versions lists the kernel major versions found in the repository, oldest first.
//
// Directories and configs that are not named after a major version are ignored.
func (b *Build) Versions() ([]Support, error) {
	dirs, err := b.Repo.Glob(path.Join(PatchesDirectory, "*"))
	if err != nil {
		return nil, err
	}
	configs, err := b.Repo.Glob(path.Join(ConfigsDirectory, ConfigFileName("*")))
	if err != nil {
		return nil, err
	}

	majors := map[string]semver.Version{}
	for _, d := range dirs {
		major := filepath.Base(d)
		if v, err := kernelrelease.ParseMajor(major); err == nil {
			majors[major] = v
		}
	}
	for _, c := range configs {
		major := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(c), "surface-"), ".config")
		if v, err := kernelrelease.ParseMajor(major); err == nil {
			majors[major] = v
		}
	}

	res := make([]Support, 0, len(majors))
	for major, v := range majors {
		dir := path.Join(PatchesDirectory, major)
		patches, err := b.Repo.Glob(path.Join(dir, "*.patch"))
		if err != nil {
			return nil, err
		}
		res = append(res, Support{
			Major:   major,
			Patches: len(patches),
			HasDir:  b.Repo.Exists(dir),
			Config:  b.Repo.Exists(path.Join(ConfigsDirectory, ConfigFileName(major))),
			version: v,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].version.LT(res[j].version)
	})
	return res, nil
}
