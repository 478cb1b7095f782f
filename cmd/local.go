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
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder"
	"github.com/spf13/cobra"
)

type localCmdOptions struct {
	envMap map[string]string
}

// NewLocalCmd creates the `surfacekit local` command.
func NewLocalCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	opts := localCmdOptions{}
	localCmd := &cobra.Command{
		Use:   "local",
		Short: "Build the kernel package on the host, running the builder as a child process.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return startBuild(c, configOpts, rootOpts, kernelbuilder.NewLocalBuildProcessor(opts.envMap))
		},
	}
	localCmd.Flags().StringToStringVar(&opts.envMap, "env", nil, "Env variables to be enforced during the kernel build.")
	return localCmd
}
