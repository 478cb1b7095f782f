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
	"io"

	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
)

// NopBuildProcessor assembles the request and prints it without running anything.
type NopBuildProcessor struct {
	out io.Writer
}

func NewNopBuildProcessor(out io.Writer) *NopBuildProcessor {
	return &NopBuildProcessor{out: out}
}

func (bp *NopBuildProcessor) String() string {
	return "no-op"
}

func (bp *NopBuildProcessor) Start(ctx context.Context, b *builder.Build) error {
	req, err := b.Request(ctx)
	if err != nil {
		return err
	}
	data, err := req.YAML()
	if err != nil {
		return err
	}
	_, err = bp.out.Write(data)
	return err
}
