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
	"context"
	"fmt"
	"path"
)

type overlay struct {
	flag    string
	pattern string
}

var localOverlays = []overlay{
	{"--patch", path.Join(PatchesDirectory, "*.patch")},
	{"--config", path.Join(ConfigsDirectory, "*.config")},
	{"--file", path.Join(FilesDirectory, "*")},
}

var secureBootOverlays = []overlay{
	{"--patch", path.Join(SecureBootDirectory, "*.patch")},
	{"--config", path.Join(SecureBootDirectory, "*.config")},
}

// Request resolves the build layout and assembles the builder invocation.
//
// Without signing material the build is paused until the Prompter returns.
func (b *Build) Request(ctx context.Context) (*Request, error) {
	l, err := b.Resolve()
	if err != nil {
		return nil, err
	}
	b.Logger.Debug("resolved layout", b.Logger.Args(
		"major", l.Major,
		"patches", l.PatchesDir,
		"config", l.ConfigFile,
		"secureboot", l.SecureBoot.Available(),
	))

	if !l.SecureBoot.Available() {
		b.Logger.Warn("Secure Boot keys were not configured! Using Red Hat testkeys.")
		b.Logger.Warn("The compiled kernel will not boot with Secure Boot enabled!")
		if b.Prompter != nil {
			if err := b.Prompter.Wait(ctx, "Press any key to continue"); err != nil {
				return nil, err
			}
		}
	}

	return b.assemble(l)
}

func (b *Build) assemble(l *Layout) (*Request, error) {
	req := &Request{
		Builder:    b.BuilderPath,
		Major:      l.Major,
		SecureBoot: l.SecureBoot.Available(),
	}

	upstream, err := b.Repo.Glob(path.Join(l.patches, "*.patch"))
	if err != nil {
		return nil, err
	}
	if len(upstream) == 0 {
		b.Logger.Warn("no patches found for kernel", b.Logger.Args("major", l.Major, "dir", l.PatchesDir))
	}

	req.add("--package-name", b.PackageName)
	req.add("--package-tag", b.PackageTag)
	req.add("--package-release", b.PackageRelease)
	req.add("--patch", upstream...)
	req.add("--config", l.ConfigFile)
	req.add("--buildopts", b.BuildOpts)

	if err := b.addOverlays(req, localOverlays); err != nil {
		return nil, err
	}

	if req.SecureBoot {
		if err := b.addOverlays(req, secureBootOverlays); err != nil {
			return nil, err
		}
		req.add("--file", l.SecureBoot.Cert, l.SecureBoot.Key)
	}
	return req, nil
}

func (b *Build) addOverlays(req *Request, overlays []overlay) error {
	for _, o := range overlays {
		values, err := b.Local.Glob(o.pattern)
		if err != nil {
			return fmt.Errorf("collecting %s overlays: %w", o.flag, err)
		}
		if len(values) > 0 {
			b.Logger.Debug("adding overlay", b.Logger.Args("flag", o.flag, "count", len(values)))
		}
		req.addOptional(o.flag, values)
	}
	return nil
}
