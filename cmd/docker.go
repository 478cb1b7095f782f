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

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder"
	"github.com/linux-surface/surfacekit/validate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// DockerOptions represent the configuration flags for the surfacekit docker subcommand.
type DockerOptions struct {
	Image   string   `validate:"required,imagename" name:"builder image"`
	Pull    bool     `name:"pull"`
	Network string   `name:"docker network"`
	DNS     []string `validate:"dive,ip" name:"docker dns"`
}

func (do *DockerOptions) SetDefaults() {
	if defaults.CanUpdate(do.Image) {
		do.Image = kernelbuilder.DefaultBuilderImage
	}
}

// NewDockerOptions creates an instance of DockerOptions.
func NewDockerOptions() *DockerOptions {
	o := &DockerOptions{}
	// only SetDefaults can fail, and it does not
	_ = defaults.Set(o)
	return o
}

// AddFlags registers the docker flags.
func (do *DockerOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&do.Image, "image", do.Image, "container image the builder runs in, it must provide the kernel-ark build dependencies")
	flags.BoolVar(&do.Pull, "pull", do.Pull, "always pull the image before building")
	flags.StringVar(&do.Network, "network", do.Network, "network mode of the builder container")
	flags.StringSliceVar(&do.DNS, "dns", do.DNS, "DNS servers of the builder container")
}

// Validate validates the DockerOptions fields.
func (do *DockerOptions) Validate() []error {
	if err := validate.V.Struct(do); err != nil {
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

// NewDockerCmd creates the `surfacekit docker` command.
func NewDockerCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	opts := NewDockerOptions()
	dockerCmd := &cobra.Command{
		Use:   "docker",
		Short: "Build the kernel package inside a container against a docker daemon.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if errs := opts.Validate(); errs != nil {
				for _, err := range errs {
					configOpts.Printer.Logger.Error("error validating docker options",
						configOpts.Printer.Logger.Args("err", err.Error()))
				}
				return errValidation
			}
			bp := kernelbuilder.NewDockerBuildProcessor(opts.Image, opts.Pull, opts.Network, opts.DNS)
			return startBuild(c, configOpts, rootOpts, bp)
		},
	}
	opts.AddFlags(dockerCmd.Flags())
	return dockerCmd
}
