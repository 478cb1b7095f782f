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

package kernelbuilder

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/falcosecurity/falcoctl/pkg/output"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
)

const LocalBuildProcessorName = "local"

// interruptGracePeriod is how long an interrupted builder has to exit before it is killed.
const interruptGracePeriod = 30 * time.Second

// LocalBuildProcessor runs the external builder on the host.
type LocalBuildProcessor struct {
	envMap map[string]string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	*output.Printer
}

func NewLocalBuildProcessor(envMap map[string]string) *LocalBuildProcessor {
	return &LocalBuildProcessor{
		envMap: envMap,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (lbp *LocalBuildProcessor) String() string {
	return LocalBuildProcessorName
}

func (lbp *LocalBuildProcessor) Start(ctx context.Context, b *builder.Build) error {
	lbp.Printer = b.Printer
	req, err := b.Request(ctx)
	if err != nil {
		return err
	}

	lbp.Logger.Info("starting builder", lbp.Logger.Args("builder", req.Builder, "major", req.Major, "secureboot", req.SecureBoot))
	lbp.Logger.Debug("builder arguments", lbp.Logger.Args("args", req.Args()))

	cmd := exec.CommandContext(ctx, req.Builder, req.Args()...)
	cmd.Env = os.Environ()
	for key, val := range lbp.envMap {
		cmd.Env = append(cmd.Env, key+"="+val)
	}
	// kernel-ark cleans up its tree on interrupt
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = interruptGracePeriod
	cmd.Stdin = lbp.stdin
	cmd.Stdout = lbp.stdout
	cmd.Stderr = lbp.stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code <= 0 {
				// killed by a signal
				code = 1
			}
			return &builder.BuildFailedError{ExitCode: code, Err: err}
		}
		return err
	}
	lbp.Logger.Info("build completed")
	return nil
}
