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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestKeyPrompt(t *testing.T) {
	tests := map[string]struct {
		input string
		err   error
	}{
		"enter":                 {input: "\n"},
		"any text":              {input: "yes\n"},
		"text without new line": {input: "y"},
		"closed input":          {input: "", err: ErrAborted},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := &KeyPrompt{In: strings.NewReader(tt.input), Out: out}

			err := p.Wait(context.Background(), "Press any key to continue")
			if tt.err != nil {
				assert.Assert(t, errors.Is(err, tt.err))
			} else {
				assert.NilError(t, err)
			}
			assert.Equal(t, "Press any key to continue\n", out.String())
		})
	}
}

func TestKeyPromptLeavesRemainingInput(t *testing.T) {
	in := strings.NewReader("\nbuilder input\n")
	p := &KeyPrompt{In: in, Out: io.Discard}

	assert.NilError(t, p.Wait(context.Background(), "Press any key to continue"))
	rest, err := io.ReadAll(in)
	assert.NilError(t, err)
	assert.Equal(t, "builder input\n", string(rest))
}

func TestKeyPromptCancelled(t *testing.T) {
	// nothing is ever written, the read blocks until the pipe is closed
	r, w := io.Pipe()
	t.Cleanup(func() {
		_ = w.Close()
	})
	p := &KeyPrompt{In: r, Out: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Wait(ctx, "Press any key to continue")
	}()
	cancel()

	select {
	case err := <-done:
		assert.Assert(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("prompt still waiting after the context was cancelled")
	}
}

func TestKeyPromptCancelledBefore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &KeyPrompt{In: strings.NewReader("\n"), Out: io.Discard}

	assert.Assert(t, errors.Is(p.Wait(ctx, "Press any key to continue"), context.Canceled))
}
