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
	"testing"

	"github.com/docker/docker/api/types/mount"
	"gotest.tools/assert"
)

func TestBindMounts(t *testing.T) {
	tests := map[string]struct {
		dirs []string
		want []string
	}{
		"tool directory inside repository": {
			dirs: []string{"/src/linux-surface", "/src/linux-surface/pkg/fedora/kernel-surface"},
			want: []string{"/src/linux-surface"},
		},
		"same directory": {
			dirs: []string{"/src/linux-surface", "/src/linux-surface"},
			want: []string{"/src/linux-surface"},
		},
		"disjoint directories": {
			dirs: []string{"/opt/kernel-surface", "/src/linux-surface"},
			want: []string{"/opt/kernel-surface", "/src/linux-surface"},
		},
		"sibling with common prefix": {
			dirs: []string{"/src/a", "/src/a-b", "/src/a/c"},
			want: []string{"/src/a", "/src/a-b"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			mounts := bindMounts(tt.dirs...)
			var got []string
			for _, m := range mounts {
				assert.Equal(t, mount.TypeBind, m.Type)
				assert.Equal(t, m.Source, m.Target)
				got = append(got, m.Source)
			}
			assert.DeepEqual(t, tt.want, got)
		})
	}
}

func TestNewDockerBuildProcessorDefaults(t *testing.T) {
	bp := NewDockerBuildProcessor("", false, "", nil)
	assert.Equal(t, DefaultBuilderImage, bp.image)
	assert.Equal(t, DockerBuildProcessorName, bp.String())
}
