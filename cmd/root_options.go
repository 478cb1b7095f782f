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

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/go-playground/validator/v10"
	"github.com/linux-surface/surfacekit/pkg/filesystem"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
	"github.com/linux-surface/surfacekit/validate"
	"github.com/spf13/pflag"
)

// RootOptions describes the kernel package to build and where its assets live.
type RootOptions struct {
	PackageName    string `default:"surface" validate:"required,excludesall=/ " name:"package name"`
	PackageTag     string `default:"kernel-6.3.6-0" validate:"required,kerneltag" name:"package tag"`
	PackageRelease string `default:"1" validate:"required,numeric" name:"package release"`
	BuildOpts      string `default:"+up +baseonly -debuginfo -doc -headers -efiuki" name:"build options"`
	Builder        string `default:"build-ark.py" validate:"required" name:"builder"`
	ToolDir        string `validate:"required,dir" name:"tool directory"`
	RepoRoot       string `validate:"omitempty,dir" name:"repository root"`
	Yes            bool
}

// DefaultToolDir returns the directory holding the surfacekit executable.
func DefaultToolDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func (ro *RootOptions) SetDefaults() {
	if defaults.CanUpdate(ro.ToolDir) {
		ro.ToolDir = DefaultToolDir()
	}
}

// NewRootOptions ...
func NewRootOptions() (*RootOptions, error) {
	rootOpts := &RootOptions{}
	if err := defaults.Set(rootOpts); err != nil {
		return nil, fmt.Errorf("error setting surfacekit options defaults: %w", err)
	}
	return rootOpts, nil
}

// AddFlags registers the package and layout flags.
func (ro *RootOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&ro.PackageName, "package-name", ro.PackageName, "name of the modified kernel package")
	flags.StringVar(&ro.PackageTag, "package-tag", ro.PackageTag, "kernel-ark tag to build, as kernel-X.Y.Z-<release>")
	flags.StringVar(&ro.PackageRelease, "package-release", ro.PackageRelease, "release number of the modified kernel package")
	flags.StringVar(&ro.BuildOpts, "buildopts", ro.BuildOpts, "build options forwarded to the builder (see make dist-full-help in the kernel-ark tree)")
	flags.StringVar(&ro.Builder, "builder", ro.Builder, "external builder executable, relative paths are resolved against the tool directory")
	flags.StringVar(&ro.ToolDir, "tool-dir", ro.ToolDir, "directory holding the local patches, configs, files and secureboot overlays")
	flags.StringVar(&ro.RepoRoot, "repo-root", ro.RepoRoot, "root of the linux-surface repository (default <tool-dir>/../../..)")
	flags.BoolVarP(&ro.Yes, "yes", "y", ro.Yes, "do not wait for confirmation when building without Secure Boot keys")
}

// Validate validates the RootOptions fields.
func (ro *RootOptions) Validate() []error {
	if err := validate.V.Struct(ro); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) {
			return []error{err}
		}
		var errArr []error
		for _, e := range errs {
			// Translate each error one at a time
			errArr = append(errArr, errors.New(e.Translate(validate.T)))
		}
		return errArr
	}
	return nil
}

func (ro *RootOptions) repoRoot() string {
	if ro.RepoRoot != "" {
		return ro.RepoRoot
	}
	return filepath.Join(ro.ToolDir, "..", "..", "..")
}

// Log emits a log line containing the receiving RootOptions for debugging purposes.
//
// Call it only after validation.
func (ro *RootOptions) Log(printer *output.Printer) {
	printer.Logger.Debug("running with options",
		printer.Logger.Args(
			"package-name", ro.PackageName,
			"package-tag", ro.PackageTag,
			"package-release", ro.PackageRelease,
			"buildopts", ro.BuildOpts,
			"builder", ro.Builder,
			"tool-dir", ro.ToolDir,
			"repo-root", ro.repoRoot(),
		))
}

// ToBuild resolves the directories to absolute paths and returns the build description.
func (ro *RootOptions) ToBuild(printer *output.Printer) (*builder.Build, error) {
	toolDir, err := filepath.Abs(ro.ToolDir)
	if err != nil {
		return nil, err
	}
	repoRoot, err := filepath.Abs(ro.repoRoot())
	if err != nil {
		return nil, err
	}
	builderPath := ro.Builder
	if !filepath.IsAbs(builderPath) {
		builderPath = filepath.Join(toolDir, builderPath)
	}

	return &builder.Build{
		PackageName:    ro.PackageName,
		PackageTag:     ro.PackageTag,
		PackageRelease: ro.PackageRelease,
		BuildOpts:      ro.BuildOpts,
		BuilderPath:    builderPath,
		Repo:           filesystem.NewLocal(repoRoot),
		Local:          filesystem.NewLocal(toolDir),
		Printer:        printer,
	}, nil
}
