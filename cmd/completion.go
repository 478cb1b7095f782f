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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script of each supported shell.
var completionGenerators = map[string]func(root *cobra.Command, out io.Writer) error{
	"bash": func(root *cobra.Command, out io.Writer) error {
		return root.GenBashCompletionV2(out, true)
	},
	"zsh": func(root *cobra.Command, out io.Writer) error {
		return root.GenZshCompletion(out)
	},
	"fish": func(root *cobra.Command, out io.Writer) error {
		return root.GenFishCompletion(out, true)
	},
	"powershell": func(root *cobra.Command, out io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(out)
	},
}

var validShells = []string{"bash", "zsh", "fish", "powershell"}

const completionLong = `Generates completion scripts for the following shells: %s.

Bash:

    echo 'source <(surfacekit completion bash)' >> ~/.bashrc

Zsh (compinit must be enabled):

    surfacekit completion zsh > "${fpath[1]}/_surfacekit"

Fish:

    surfacekit completion fish > ~/.config/fish/completions/surfacekit.fish

PowerShell:

    surfacekit completion powershell | Out-String | Invoke-Expression
`

// NewCompletionCmd creates the `surfacekit completion` command.
func NewCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               fmt.Sprintf("completion [%s]", strings.Join(validShells, "|")),
		Short:             "Generates completion scripts.",
		Long:              fmt.Sprintf(completionLong, strings.Join(validShells, ", ")),
		Args:              cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         validShells,
		DisableAutoGenTag: true,
		RunE: func(c *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.Help()
			}
			return completionGenerators[args[0]](c.Root(), c.OutOrStdout())
		},
	}
}
