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

package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"gotest.tools/assert"
)

func TestString(t *testing.T) {
	defer func(origTag, origCommits, origCommit string) {
		tag, commitsSinceTag, commit = origTag, origCommits, origCommit
	}(tag, commitsSinceTag, commit)

	tag = ""
	assert.Equal(t, "dev", String())

	tag, commitsSinceTag, commit = "v0.2.0", "3", "abcdef0"
	assert.Equal(t, "v0.2.0-3+abcdef0", String())
}

func TestTime(t *testing.T) {
	defer func(orig string) { buildTime = orig }(buildTime)

	buildTime = ""
	assert.Assert(t, Time() == nil)

	buildTime = "not-a-number"
	assert.Assert(t, Time() == nil)

	buildTime = "1686009600"
	assert.Equal(t, int64(1686009600), Time().Unix())
}

func TestGet(t *testing.T) {
	defer func(origTag, origCommits, origCommit, origTime string) {
		tag, commitsSinceTag, commit, buildTime = origTag, origCommits, origCommit, origTime
	}(tag, commitsSinceTag, commit, buildTime)

	tag, commitsSinceTag, commit, buildTime = "v0.2.0", "0", "abcdef0", "1686009600"
	info := Get()
	assert.Equal(t, "v0.2.0-0+abcdef0", info.Version)
	assert.Equal(t, "abcdef0", info.Commit)
	assert.Equal(t, "2023-06-06T00:00:00Z", info.Built)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestFromBuildInfo(t *testing.T) {
	tests := map[string]struct {
		info Info
		bi   debug.BuildInfo
		want Info
	}{
		"module version and vcs": {
			info: Info{Version: "dev"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123abc"},
					{Key: "vcs.time", Value: "2023-06-01T10:00:00Z"},
				},
			},
			want: Info{Version: "v0.3.0", Commit: "0123abc", Built: "2023-06-01T10:00:00Z"},
		},
		"devel build": {
			info: Info{Version: "dev"},
			bi:   debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			want: Info{Version: "dev"},
		},
		"link time values win": {
			info: Info{Version: "v0.2.0-0+abcdef0", Commit: "abcdef0", Built: "2023-06-06T00:00:00Z"},
			bi: debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123abc"},
					{Key: "vcs.time", Value: "2023-06-01T10:00:00Z"},
				},
			},
			want: Info{Version: "v0.2.0-0+abcdef0", Commit: "abcdef0", Built: "2023-06-06T00:00:00Z"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			info := tt.info
			fromBuildInfo(&info, &tt.bi)
			assert.DeepEqual(t, tt.want, info)
		})
	}
}
