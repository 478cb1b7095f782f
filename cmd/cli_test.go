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
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
	"gotest.tools/assert"
)

type expect struct {
	err         string
	outContains []string // Check if the output contains specific strings
	outExcludes []string // Check if the output does not contain specific strings
}

type testCase struct {
	descr string
	env   map[string]string
	// args receives the fixture directories
	args   func(repo, tool string) []string
	stdin  string
	expect expect
}

func static(args ...string) func(string, string) []string {
	return func(string, string) []string {
		return args
	}
}

func layout(extra ...string) func(string, string) []string {
	return func(repo, tool string) []string {
		return append(extra, "--repo-root", repo, "--tool-dir", tool)
	}
}

var tests = []testCase{
	{
		descr: "help",
		args:  static("help"),
		expect: expect{
			outContains: []string{"surfacekit assembles the patches", "local", "docker", "versions"},
		},
	},
	{
		descr: "empty",
		args:  static(),
		expect: expect{
			outContains: []string{"Usage", "specify a valid processor"},
		},
	},
	{
		descr: "invalid/processor",
		args:  static("abc"),
		expect: expect{
			outContains: []string{"invalid argument"},
			err:         `invalid argument "abc" for "surfacekit"`,
		},
	},
	{
		descr: "local/dryrun",
		args:  layout("local"),
		expect: expect{
			outContains: []string{
				"Secure Boot keys were not configured! Using Red Hat testkeys.",
				"The compiled kernel will not boot with Secure Boot enabled!",
				"package-tag",
				"kernel-6.3.6-0",
				"+up +baseonly -debuginfo -doc -headers -efiuki",
				"surface-6.3.config",
				"0001-surface.patch",
			},
			outExcludes: []string{"Press any key to continue"},
		},
	},
	{
		descr: "local/unsupported-version",
		args:  layout("local", "--package-tag", "kernel-6.4.1-0"),
		expect: expect{
			err:         "could not find patches / configs for kernel 6.4",
			outContains: []string{"could not find patches / configs for kernel 6.4"},
		},
	},
	{
		descr: "local/invalid-tag",
		args:  layout("local", "--package-tag", "v6.3.6"),
		expect: expect{
			err:         "exiting for validation errors",
			outContains: []string{"package tag must look like"},
		},
	},
	{
		descr: "local/invalid-release",
		args:  layout("local", "--package-release", "one"),
		expect: expect{
			err:         "exiting for validation errors",
			outContains: []string{"package release"},
		},
	},
	{
		descr: "local/merge-from-env",
		env: map[string]string{
			"SURFACEKIT_PACKAGE_RELEASE": "300",
			"SURFACEKIT_PACKAGE_NAME":    "surface-env",
		},
		args: layout("local"),
		expect: expect{
			outContains: []string{"surface-env", "300"},
		},
	},
	{
		descr: "local/flags-override-env",
		env: map[string]string{
			"SURFACEKIT_PACKAGE_NAME": "surface-env",
		},
		args: layout("local", "--package-name", "surface-flag"),
		expect: expect{
			outContains: []string{"surface-flag"},
			outExcludes: []string{"surface-env"},
		},
	},
	{
		descr: "docker/dryrun",
		args:  layout("docker", "--image", "registry.fedoraproject.org/fedora:38"),
		expect: expect{
			outContains: []string{"processor", "docker", "kernel-6.3.6-0"},
		},
	},
	{
		descr: "docker/invalid-image",
		args:  layout("docker", "--image", "Fedora//38"),
		expect: expect{
			err:         "exiting for validation errors",
			outContains: []string{"builder image must be a valid image name"},
		},
	},
	{
		descr: "docker/invalid-dns",
		args:  layout("docker", "--dns", "not-an-ip"),
		expect: expect{
			err:         "exiting for validation errors",
			outContains: []string{"docker dns"},
		},
	},
	{
		descr: "versions",
		args:  layout("versions"),
		expect: expect{
			outContains: []string{"Major", "Supported", "6.3", "5.19"},
		},
	},
	{
		descr: "version",
		args:  static("version"),
		expect: expect{
			outContains: []string{"version: ", "go: go", "platform: "},
		},
	},
	{
		descr: "version/flag",
		args:  static("--version"),
		expect: expect{
			outContains: []string{"surfacekit version dev"},
		},
	},
	{
		descr: "completion/empty",
		args:  static("completion"),
		expect: expect{
			outContains: []string{"Generates completion scripts for the following shells: bash, zsh, fish, powershell."},
		},
	},
	{
		descr: "completion/bash",
		args:  static("completion", "bash"),
		expect: expect{
			outContains: []string{"bash completion V2 for surfacekit"},
		},
	},
	{
		descr: "completion/powershell",
		args:  static("completion", "powershell"),
		expect: expect{
			outContains: []string{"Register-ArgumentCompleter"},
		},
	},
	{
		descr: "completion/invalid-shell",
		args:  static("completion", "tcsh"),
		expect: expect{
			err: `invalid argument "tcsh" for "surfacekit completion"`,
		},
	},
	{
		descr: "complete/processors",
		args:  static("__complete", ""),
		expect: expect{
			outContains: []string{"local", "docker"},
		},
	},
}

func writeFixture(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		assert.NilError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		assert.NilError(t, os.WriteFile(p, nil, 0o644))
	}
}

func fixture(t *testing.T) (string, string) {
	t.Helper()
	repo := t.TempDir()
	tool := t.TempDir()
	writeFixture(t, repo,
		"patches/6.3/0001-surface.patch",
		"configs/surface-6.3.config",
		"patches/5.19/0001-surface.patch",
		"configs/surface-5.19.config",
	)
	return repo, tool
}

func isBuiltin(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "__complete", "__completeNoDesc", "help", "completion", "version", "--version":
		return true
	}
	return false
}

func run(t *testing.T, test testCase) {
	// Setup
	repo, tool := fixture(t)
	configOpts := NewConfigOptions()
	rootOpts, err := NewRootOptions()
	assert.NilError(t, err)
	c := NewRootCmd(configOpts, rootOpts)
	b := bytes.NewBufferString("")
	c.SetOutput(b)
	c.SetInput(strings.NewReader(test.stdin))
	args := test.args(repo, tool)
	if !isBuiltin(args) {
		args = append(args, "--dryrun")
	}
	c.SetArgs(args)
	for k, v := range test.env {
		t.Setenv(k, v)
	}
	// Test
	err = c.Execute()
	if err != nil {
		if test.expect.err == "" {
			t.Fatalf("error executing CLI: %v", err)
		} else {
			assert.ErrorContains(t, err, test.expect.err)
		}
	} else if test.expect.err != "" {
		t.Fatalf("expected error %q", test.expect.err)
	}
	out, err := io.ReadAll(b)
	if err != nil {
		t.Fatalf("error reading CLI output: %v", err)
	}
	res := stripansi.Strip(string(out))
	for _, s := range test.expect.outContains {
		assert.Assert(t, strings.Contains(res, s), "output does not contain %q:\n%s", s, res)
	}
	for _, s := range test.expect.outExcludes {
		assert.Assert(t, !strings.Contains(res, s), "output contains %q:\n%s", s, res)
	}
}

func TestCLI(t *testing.T) {
	for _, test := range tests {
		test := test
		t.Run(test.descr, func(t *testing.T) {
			run(t, test)
		})
	}
}

func TestCLIConfigFile(t *testing.T) {
	repo, tool := fixture(t)
	config := filepath.Join(t.TempDir(), "surfacekit.yaml")
	content := "package-name: surface-from-file\npackage-release: \"42\"\nrepo-root: " + repo + "\ntool-dir: " + tool + "\n"
	assert.NilError(t, os.WriteFile(config, []byte(content), 0o644))

	configOpts := NewConfigOptions()
	rootOpts, err := NewRootOptions()
	assert.NilError(t, err)
	c := NewRootCmd(configOpts, rootOpts)
	b := &bytes.Buffer{}
	c.SetOutput(b)
	c.SetArgs([]string{"local", "-c", config, "--dryrun"})

	assert.NilError(t, c.Execute())
	res := stripansi.Strip(b.String())
	assert.Assert(t, strings.Contains(res, "using config file"), res)
	assert.Assert(t, strings.Contains(res, "surface-from-file"), res)
	assert.Assert(t, strings.Contains(res, "42"), res)
}

func TestCLIMissingConfigFile(t *testing.T) {
	configOpts := NewConfigOptions()
	rootOpts, err := NewRootOptions()
	assert.NilError(t, err)
	c := NewRootCmd(configOpts, rootOpts)
	c.SetOutput(&bytes.Buffer{})
	c.SetArgs([]string{"local", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "--dryrun"})

	assert.ErrorContains(t, c.Execute(), "exiting for validation errors")
}

// The builder records its arguments so the whole command line can be checked.
func TestCLILocalBuild(t *testing.T) {
	repo, tool := fixture(t)
	argsFile := filepath.Join(t.TempDir(), "args")
	script := "#!/bin/sh\nfor arg in \"$@\"; do echo \"$arg\" >> \"" + argsFile + "\"; done\nexit ${EXIT_CODE:-0}\n"
	assert.NilError(t, os.WriteFile(filepath.Join(tool, "build-ark.py"), []byte(script), 0o755))

	newCmd := func(stdin string, args ...string) (*RootCmd, *bytes.Buffer) {
		configOpts := NewConfigOptions()
		rootOpts, err := NewRootOptions()
		assert.NilError(t, err)
		c := NewRootCmd(configOpts, rootOpts)
		b := &bytes.Buffer{}
		c.SetOutput(b)
		c.SetInput(strings.NewReader(stdin))
		c.SetArgs(append([]string{"local", "--repo-root", repo, "--tool-dir", tool}, args...))
		return c, b
	}

	t.Run("confirmed", func(t *testing.T) {
		c, b := newCmd("\n")
		assert.NilError(t, c.Execute())
		assert.Assert(t, strings.Contains(b.String(), "Press any key to continue"))

		got, err := os.ReadFile(argsFile)
		assert.NilError(t, err)
		assert.DeepEqual(t, []string{
			"--package-name", "surface",
			"--package-tag", "kernel-6.3.6-0",
			"--package-release", "1",
			"--patch", filepath.Join(repo, "patches", "6.3", "0001-surface.patch"),
			"--config", filepath.Join(repo, "configs", "surface-6.3.config"),
			"--buildopts", "+up +baseonly -debuginfo -doc -headers -efiuki",
		}, strings.Split(strings.TrimSpace(string(got)), "\n"))
		assert.NilError(t, os.Remove(argsFile))
	})

	t.Run("aborted", func(t *testing.T) {
		c, _ := newCmd("")
		err := c.Execute()
		assert.ErrorContains(t, err, "aborted by user")
		_, err = os.Stat(argsFile)
		assert.Assert(t, os.IsNotExist(err))
	})

	t.Run("failed builder", func(t *testing.T) {
		c, _ := newCmd("", "--yes", "--env", "EXIT_CODE=7")
		err := c.Execute()
		var failed *builder.BuildFailedError
		assert.Assert(t, errors.As(err, &failed))
		assert.Equal(t, 7, ExitCode(err))
	})
}

func TestCLIPromptCancelled(t *testing.T) {
	repo, tool := fixture(t)
	assert.NilError(t, os.WriteFile(filepath.Join(tool, "build-ark.py"), []byte("#!/bin/sh\nexit 0\n"), 0o755))

	configOpts := NewConfigOptions()
	rootOpts, err := NewRootOptions()
	assert.NilError(t, err)
	c := NewRootCmd(configOpts, rootOpts)
	c.SetOutput(&bytes.Buffer{})
	// nothing is ever typed
	r, w := io.Pipe()
	t.Cleanup(func() {
		_ = w.Close()
	})
	c.SetInput(r)
	c.SetArgs([]string{"local", "--repo-root", repo, "--tool-dir", tool})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.ExecuteContext(ctx)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.Assert(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, ExitCode(err))
	case <-time.After(5 * time.Second):
		t.Fatal("command still waiting for confirmation after the context was cancelled")
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errValidation))
	assert.Equal(t, 1, ExitCode(&builder.UnsupportedVersionError{Major: "6.4"}))
	assert.Equal(t, 2, ExitCode(&builder.BuildFailedError{ExitCode: 2}))
	assert.Equal(t, 1, ExitCode(&builder.BuildFailedError{ExitCode: -1}))
}
