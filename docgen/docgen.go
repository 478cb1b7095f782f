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

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/linux-surface/surfacekit/cmd"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra/doc"
)

const outputDir = "docs"
const websiteTemplate = `---
title: %s
weight: %d
---

`

var (
	targetWebsite    bool
	websitePrepender = func(num int) func(filename string) string {
		total := num
		return func(filename string) string {
			num = num - 1
			title := strings.TrimPrefix(strings.TrimSuffix(strings.ReplaceAll(filename, "_", " "), ".md"), fmt.Sprintf("%s/", outputDir))
			return fmt.Sprintf(websiteTemplate, title, total-num)
		}
	}
	websiteLinker = func(filename string) string {
		if filename == "surfacekit.md" {
			return "_index.md"
		}
		return filename
	}
)

// docgen
func main() {
	printer := output.NewPrinter(pterm.LogLevelInfo, pterm.LogFormatterColorful, os.Stderr)

	// Get mode
	flag.BoolVar(&targetWebsite, "website", targetWebsite, "")
	flag.Parse()

	// Get root command
	configOpts := cmd.NewConfigOptions()
	rootOpts, err := cmd.NewRootOptions()
	if err != nil {
		printer.Logger.Error("root options", printer.Logger.Args("err", err.Error()))
		os.Exit(1)
	}
	surfacekit := cmd.NewRootCmd(configOpts, rootOpts)
	root := surfacekit.Command()
	num := len(root.Commands()) + 1

	// Setup prepender hook
	prepender := func(num int) func(filename string) string {
		return func(filename string) string {
			return ""
		}
	}
	if targetWebsite {
		prepender = websitePrepender
	}

	// Setup links hook
	linker := func(filename string) string {
		return filename
	}
	if targetWebsite {
		linker = websiteLinker
	}

	// Generate markdown docs
	if err := doc.GenMarkdownTreeCustom(root, outputDir, prepender(num), linker); err != nil {
		printer.Logger.Error("markdown generation", printer.Logger.Args("err", err.Error()))
		os.Exit(1)
	}

	if targetWebsite {
		if err := os.Rename(path.Join(outputDir, "surfacekit.md"), path.Join(outputDir, "_index.md")); err != nil {
			printer.Logger.Error("renaming main docs page", printer.Logger.Args("err", err.Error()))
			os.Exit(1)
		}
	}

	if err := stripToolDir(); err != nil {
		printer.Logger.Error("error replacing the tool directory", printer.Logger.Args("err", err.Error()))
		os.Exit(1)
	}
}

// stripToolDir replaces the tool directory default, which depends on where docgen runs.
func stripToolDir() error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return err
	}

	target := []byte(cmd.DefaultToolDir())
	for _, entry := range entries {
		filePath := path.Join(outputDir, entry.Name())
		file, err := os.ReadFile(filePath)
		if err != nil {
			return err
		}
		file = bytes.ReplaceAll(file, target, []byte("<executable dir>"))
		if err = os.WriteFile(filePath, file, 0666); err != nil {
			return err
		}
	}

	return nil
}
