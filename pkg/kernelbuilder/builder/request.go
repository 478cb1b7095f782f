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

package builder

import (
	"gopkg.in/yaml.v3"
)

// ArgGroup is a flag followed by its values, e.g. --patch a.patch b.patch.
type ArgGroup struct {
	Flag   string   `yaml:"flag"`
	Values []string `yaml:"values"`
}

// Request is the assembled invocation of the external builder.
type Request struct {
	Builder    string     `yaml:"builder"`
	Major      string     `yaml:"major"`
	SecureBoot bool       `yaml:"secureboot"`
	Groups     []ArgGroup `yaml:"groups"`
}

func (r *Request) add(flag string, values ...string) {
	r.Groups = append(r.Groups, ArgGroup{Flag: flag, Values: values})
}

// addOptional appends the group only when it has values.
func (r *Request) addOptional(flag string, values []string) {
	if len(values) == 0 {
		return
	}
	r.add(flag, values...)
}

// Args returns the builder arguments, without the builder itself.
func (r *Request) Args() []string {
	var args []string
	for _, g := range r.Groups {
		args = append(args, g.Flag)
		args = append(args, g.Values...)
	}
	return args
}

// Command returns the full argument vector, starting with the builder.
func (r *Request) Command() []string {
	return append([]string{r.Builder}, r.Args()...)
}

// Find returns all the groups introduced by flag, in order.
func (r *Request) Find(flag string) []ArgGroup {
	var res []ArgGroup
	for _, g := range r.Groups {
		if g.Flag == flag {
			res = append(res, g)
		}
	}
	return res
}

func (r *Request) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
