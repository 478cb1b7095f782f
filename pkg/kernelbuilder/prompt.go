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
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrAborted is returned when the operator refuses to continue.
var ErrAborted = errors.New("aborted by user")

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// KeyPrompt waits for the operator to press a key.
//
// On a terminal a single key press is enough, otherwise a whole line is read.
// There is no timeout, cancelling the context is the only way out besides input.
type KeyPrompt struct {
	In  io.Reader
	Out io.Writer
}

func (p *KeyPrompt) Wait(ctx context.Context, msg string) error {
	fmt.Fprint(p.Out, msg)
	defer fmt.Fprintln(p.Out)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return waitKey(ctx, f)
	}
	return wait(ctx, func() error { return waitLine(p.In) })
}

// wait runs read in the background and returns as soon as ctx is done.
//
// A read still blocked after cancellation is abandoned, the process is about to exit.
func wait(ctx context.Context, read func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- read()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitKey(ctx context.Context, f *os.File) error {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("setting terminal in raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, state)
	}()

	return wait(ctx, func() error {
		key := make([]byte, 1)
		if _, err := f.Read(key); err != nil {
			return err
		}
		// raw mode swallows the interrupt signal
		if key[0] == ctrlC || key[0] == ctrlD {
			return ErrAborted
		}
		return nil
	})
}

// waitLine consumes input up to the first new line, one byte at a time.
//
// The builder inherits the same input, so nothing past the new line is read.
func waitLine(in io.Reader) error {
	var read int
	b := make([]byte, 1)
	for {
		n, err := in.Read(b)
		if n > 0 {
			if b[0] == '\n' {
				return nil
			}
			read++
		}
		if errors.Is(err, io.EOF) {
			if read == 0 {
				return ErrAborted
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}
