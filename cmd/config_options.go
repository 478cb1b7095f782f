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
	"io"
	"os"
	"strings"

	"github.com/falcosecurity/falcoctl/pkg/options"
	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "surfacekit"

// ConfigOptions represent the persistent configuration flags of surfacekit.
type ConfigOptions struct {
	configFile string
	// DryRun prints the builder request instead of running it.
	DryRun bool

	// Printer used by all commands to output messages.
	Printer *output.Printer
	// writer is used to write the output of the printer.
	writer   io.Writer
	logLevel *options.LogLevel
}

func (co *ConfigOptions) initPrinter() {
	logLevel := co.logLevel.ToPtermLogLevel()
	co.Printer = output.NewPrinter(logLevel, pterm.LogFormatterColorful, co.writer)
}

func (co *ConfigOptions) SetOutput(writer io.Writer) {
	co.writer = writer
	co.initPrinter()
}

// NewConfigOptions creates an instance of ConfigOptions.
func NewConfigOptions() *ConfigOptions {
	o := &ConfigOptions{
		writer:   os.Stdout,
		logLevel: options.NewLogLevel(),
	}
	o.initPrinter()
	return o
}

// AddFlags registers the common flags.
func (co *ConfigOptions) AddFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&co.configFile, "config", "c", co.configFile, "config file path (default $HOME/.surfacekit.yaml if exists)")
	flags.VarP(co.logLevel, "loglevel", "l", "Set level for logs "+co.logLevel.Allowed())
	flags.BoolVar(&co.DryRun, "dryrun", co.DryRun, "do not actually perform the action, print the builder request instead")
}

// Init reads in config file and ENV variables if set.
//
// A config file explicitly given but not readable is an error.
func (co *ConfigOptions) Init() error {
	viper.Reset()
	if co.configFile != "" {
		viper.SetConfigFile(co.configFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			co.Printer.Logger.Error("error getting the home directory",
				co.Printer.Logger.Args("err", err.Error()))
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".surfacekit")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		co.Printer.Logger.Info("using config file",
			co.Printer.Logger.Args("file", viper.ConfigFileUsed()))
	} else {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			co.Printer.Logger.Debug("running without a configuration file")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
