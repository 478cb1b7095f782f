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
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"time"
)

// Set at link time by the Makefile.
var (
	tag             string
	commitsSinceTag string
	commit          string
	buildTime       string
)

// Info describes the running surfacekit binary.
type Info struct {
	Version   string `yaml:"version"`
	Commit    string `yaml:"commit,omitempty"`
	Built     string `yaml:"built,omitempty"`
	GoVersion string `yaml:"go"`
	Platform  string `yaml:"platform"`
}

// Get returns the version info of the binary.
//
// Binaries built without the Makefile fall back to the VCS data stamped by the go tool.
func Get() Info {
	info := Info{
		Version:   String(),
		Commit:    commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if t := Time(); t != nil {
		info.Built = t.UTC().Format(time.RFC3339)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(&info, bi)
	}
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Built == "" {
				info.Built = s.Value
			}
		}
	}
}

// Time returns the link time build time, nil when not set.
func Time() *time.Time {
	if len(buildTime) == 0 {
		return nil
	}
	i, err := strconv.ParseInt(buildTime, 10, 64)
	if err != nil {
		return nil
	}
	t := time.Unix(i, 0)
	return &t
}

// String returns <tag>-<commits since tag>+<commit>, or "dev" for untagged builds.
func String() string {
	if tag == "" {
		return "dev"
	}
	return fmt.Sprintf("%s-%s+%s", tag, commitsSinceTag, commit)
}
