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
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/linux-surface/surfacekit/pkg/kernelbuilder"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
	"github.com/linux-surface/surfacekit/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var validProcessors = []string{kernelbuilder.LocalBuildProcessorName, kernelbuilder.DockerBuildProcessorName}

// errValidation is returned when options do not pass validation, details are logged.
var errValidation = errors.New("exiting for validation errors")

// Flags whose value is never merged from the environment or the config file.
var skipMerge = map[string]bool{
	"config":  true,
	"help":    true,
	"version": true,
}

// RootCmd wraps the surfacekit root command.
type RootCmd struct {
	c          *cobra.Command
	configOpts *ConfigOptions
}

// NewRootCmd instantiates the root command.
func NewRootCmd(configOpts *ConfigOptions, rootOpts *RootOptions) *RootCmd {
	rootCmd := &cobra.Command{
		Use:   "surfacekit",
		Short: "A command line tool to build linux-surface Fedora kernels.",
		Long: `surfacekit assembles the patches, configs and Secure Boot keys matching a kernel-ark tag
and hands them to the kernel-ark package builder.

Without a MOK.crt / MOK.key pair in <tool-dir>/secureboot the kernel is signed with
the Red Hat test keys and will not boot with Secure Boot enabled.`,
		Version:               version.String(),
		DisableFlagsInUseLine: true,
		DisableAutoGenTag:     true,
		ValidArgs:             validProcessors,
		Args:                  cobra.OnlyValidArgs,
		Run: func(c *cobra.Command, args []string) {
			if len(args) == 0 {
				configOpts.Printer.Logger.Info("specify a valid processor", configOpts.Printer.Logger.Args("processors", validProcessors))
			}
			// Fallback to help
			_ = c.Help()
		},
	}
	ret := &RootCmd{
		c:          rootCmd,
		configOpts: configOpts,
	}
	rootCmd.PersistentPreRunE = persistentValidateFunc(configOpts, rootOpts)

	flags := rootCmd.PersistentFlags()
	configOpts.AddFlags(flags)
	rootOpts.AddFlags(flags)

	rootCmd.AddCommand(NewLocalCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewDockerCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewVersionsCmd(configOpts, rootOpts))
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewCompletionCmd())

	return ret
}

// needsValidation tells whether c runs with the build options.
// Root, help and completion commands run disregarding the persistent flags validity.
func needsValidation(c *cobra.Command) bool {
	if c.Root() == c {
		return false
	}
	switch c.Name() {
	case "help", "version", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

func persistentValidateFunc(configOpts *ConfigOptions, rootOpts *RootOptions) func(c *cobra.Command, args []string) error {
	return func(c *cobra.Command, args []string) error {
		if err := configOpts.Init(); err != nil {
			configOpts.Printer.Logger.Error("error initializing config", configOpts.Printer.Logger.Args("err", err.Error()))
			return errValidation
		}

		// Merge environment variables or config file values into the options,
		// flags given on the command line win.
		var mergeErr bool
		c.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed || skipMerge[f.Name] || !viper.IsSet(f.Name) {
				return
			}
			value := viper.GetString(f.Name)
			if strings.HasSuffix(f.Value.Type(), "Slice") {
				value = strings.Join(viper.GetStringSlice(f.Name), ",")
			}
			if err := c.Flags().Set(f.Name, value); err != nil {
				configOpts.Printer.Logger.Error("error merging option",
					configOpts.Printer.Logger.Args("flag", f.Name, "err", err.Error()))
				mergeErr = true
			}
		})
		// The log level may have been merged too.
		configOpts.initPrinter()
		if mergeErr {
			return errValidation
		}
		info := version.Get()
		configOpts.Printer.Logger.Debug("surfacekit",
			configOpts.Printer.Logger.Args("version", info.Version, "commit", info.Commit, "built", info.Built, "platform", info.Platform))

		if !needsValidation(c) {
			return nil
		}
		if errs := rootOpts.Validate(); errs != nil {
			for _, err := range errs {
				configOpts.Printer.Logger.Error("error validating build options",
					configOpts.Printer.Logger.Args("err", err.Error()))
			}
			return errValidation
		}
		rootOpts.Log(configOpts.Printer)
		return nil
	}
}

// startBuild runs bp, or the no-op processor on dry runs.
func startBuild(c *cobra.Command, configOpts *ConfigOptions, rootOpts *RootOptions, bp kernelbuilder.BuildProcessor) error {
	// From now on errors are not about the command line usage.
	c.SilenceUsage = true
	c.SilenceErrors = true

	b, err := rootOpts.ToBuild(configOpts.Printer)
	if err != nil {
		return err
	}
	configOpts.Printer.Logger.Info("kernel building, it will take a while",
		configOpts.Printer.Logger.Args("processor", bp.String(), "dryrun", configOpts.DryRun))
	if configOpts.DryRun {
		bp = kernelbuilder.NewNopBuildProcessor(c.OutOrStdout())
	} else if !rootOpts.Yes {
		b.Prompter = &kernelbuilder.KeyPrompt{In: c.InOrStdin(), Out: c.OutOrStdout()}
	}

	if err := bp.Start(c.Context(), b); err != nil {
		configOpts.Printer.Logger.Error("exiting", configOpts.Printer.Logger.Args("err", err.Error()))
		return err
	}
	return nil
}

// Command returns the underlying cobra command.
func (r *RootCmd) Command() *cobra.Command {
	return r.c
}

// SetArgs proxies the arguments to the underlying cobra command.
func (r *RootCmd) SetArgs(args []string) {
	r.c.SetArgs(args)
}

// SetOutput sets the main command and the printer output.
func (r *RootCmd) SetOutput(w io.Writer) {
	r.c.SetOut(w)
	r.c.SetErr(w)
	r.configOpts.SetOutput(w)
}

// SetInput sets the reader used to confirm unsigned builds.
func (r *RootCmd) SetInput(in io.Reader) {
	r.c.SetIn(in)
}

// Execute proxies the cobra command execution.
func (r *RootCmd) Execute() error {
	return r.c.Execute()
}

// ExecuteContext proxies the cobra command execution with a context.
func (r *RootCmd) ExecuteContext(ctx context.Context) error {
	return r.c.ExecuteContext(ctx)
}

// ExitCode maps the error returned by a command to the process exit status.
//
// A failed builder exit status is propagated, every other error is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *builder.BuildFailedError
	if errors.As(err, &failed) && failed.ExitCode > 0 {
		return failed.ExitCode
	}
	return 1
}

// Start creates the root command and runs it, terminating the process with its exit status.
func Start() {
	configOpts := NewConfigOptions()
	rootOpts, err := NewRootOptions()
	if err != nil {
		configOpts.Printer.Logger.Error(err.Error())
		os.Exit(1)
	}

	// The builder runs in the same process group, it receives the interrupt too.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := NewRootCmd(configOpts, rootOpts)
	err = root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(ExitCode(err))
	}
}
