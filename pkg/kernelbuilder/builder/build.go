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

	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/linux-surface/surfacekit/pkg/filesystem"
)

// Prompter blocks until the operator acknowledges msg or ctx is done.
type Prompter interface {
	Wait(ctx context.Context, msg string) error
}

// Build contains the info about the on-going build.
type Build struct {
	PackageName    string
	PackageTag     string
	PackageRelease string
	BuildOpts      string
	// BuilderPath is the host path of the external builder executable.
	BuilderPath string
	// Repo is the root of the linux-surface repository.
	Repo filesystem.Filesystem
	// Local is the directory of the tool, holding the local overlays and the secureboot keys.
	Local filesystem.Filesystem
	// Prompter is used to confirm unsigned builds. When nil the build is not paused.
	Prompter Prompter
	*output.Printer
}
