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
	"strconv"

	"github.com/linux-surface/surfacekit/pkg/kernelrelease"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// NewVersionsCmd creates the `surfacekit versions` command.
func NewVersionsCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "List the kernel major versions the repository has patches and configs for.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			b, err := rootOpts.ToBuild(configOpts.Printer)
			if err != nil {
				return err
			}
			configOpts.Printer.Logger.Debug("listing versions", configOpts.Printer.Logger.Args("repo", b.Repo.Path("")))
			versions, err := b.Versions()
			if err != nil {
				return err
			}

			// the package tag is validated already
			current, _ := kernelrelease.FromTag(rootOpts.PackageTag)

			table := tablewriter.NewWriter(c.OutOrStdout())
			table.SetHeader([]string{"Major", "Patches", "Config", "Supported", "Selected"})
			table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
			table.SetCenterSeparator("|")
			table.SetAutoFormatHeaders(false)

			for _, v := range versions {
				selected := ""
				if v.Major == current.Major() {
					selected = "*"
				}
				table.Append([]string{
					v.Major,
					strconv.Itoa(v.Patches),
					yesNo(v.Config),
					yesNo(v.Supported()),
					selected,
				})
			}
			table.Render() // Send output
			return nil
		},
	}
	return versionsCmd
}
