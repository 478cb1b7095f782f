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
	"path"

	"github.com/linux-surface/surfacekit/pkg/kernelrelease"
)

const (
	// PatchesDirectory holds one directory of patches per kernel major version, both in the repository and in the tool directory.
	PatchesDirectory = "patches"
	// ConfigsDirectory holds the config fragments.
	ConfigsDirectory = "configs"
	// FilesDirectory holds arbitrary local files handed to the builder.
	FilesDirectory = "files"
	// SecureBootDirectory holds the signing material and the patches and configs that only apply to signed builds.
	SecureBootDirectory = "secureboot"
)

var (
	SecureBootCert = path.Join(SecureBootDirectory, "MOK.crt")
	SecureBootKey  = path.Join(SecureBootDirectory, "MOK.key")
)

// ConfigFileName returns the name of the base config for a kernel major version.
func ConfigFileName(major string) string {
	return fmt.Sprintf("surface-%s.config", major)
}

// SecureBoot holds the host paths of the signing material.
// The zero value means signing is not available.
type SecureBoot struct {
	Cert string `yaml:"cert,omitempty"`
	Key  string `yaml:"key,omitempty"`
}

func (s SecureBoot) Available() bool {
	return s.Cert != "" && s.Key != ""
}

// Layout is the set of required paths resolved once for a build.
type Layout struct {
	Tag        kernelrelease.Tag
	Major      string
	PatchesDir string
	ConfigFile string
	SecureBoot SecureBoot

	patches string
}

// Resolve determines the kernel major version and looks up its patches and config.
func (b *Build) Resolve() (*Layout, error) {
	tag, err := kernelrelease.FromTag(b.PackageTag)
	if err != nil {
		return nil, &ConfigError{Tag: b.PackageTag, Err: err}
	}
	major := tag.Major()
	b.Logger.Debug("resolving layout", b.Logger.Args("major", major, "repo", b.Repo.String(), "tool", b.Local.String()))
	patches := path.Join(PatchesDirectory, major)
	config := path.Join(ConfigsDirectory, ConfigFileName(major))

	var missing []string
	for _, name := range []string{patches, config} {
		if !b.Repo.Exists(name) {
			missing = append(missing, b.Repo.Path(name))
		}
	}
	if len(missing) > 0 {
		return nil, &UnsupportedVersionError{Major: major, Missing: missing}
	}

	l := &Layout{
		Tag:        tag,
		Major:      major,
		PatchesDir: b.Repo.Path(patches),
		ConfigFile: b.Repo.Path(config),
		patches:    patches,
	}
	// Both or nothing, a lone certificate or key is ignored.
	if b.Local.Exists(SecureBootCert) && b.Local.Exists(SecureBootKey) {
		l.SecureBoot = SecureBoot{
			Cert: b.Local.Path(SecureBootCert),
			Key:  b.Local.Path(SecureBootKey),
		}
	}
	return l, nil
}
