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
	"github.com/linux-surface/surfacekit/pkg/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewVersionCmd creates the `surfacekit version` command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the surfacekit version and build information.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(c.OutOrStdout())
			defer enc.Close()
			return enc.Encode(version.Get())
		},
	}
}
