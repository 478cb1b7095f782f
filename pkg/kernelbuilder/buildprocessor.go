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

	"github.com/linux-surface/surfacekit/pkg/kernelbuilder/builder"
)

// DefaultBuilderImage is the image used by the docker processor when none is given.
var DefaultBuilderImage = "registry.fedoraproject.org/fedora:38" // This is overwritten when using the Makefile to build

type BuildProcessor interface {
	Start(ctx context.Context, b *builder.Build) error
	String() string
}
