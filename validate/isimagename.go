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

package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	letters    = "abcdefghijklmnopqrstuvwxyz"
	digits     = "0123456789"
	separators = "/.-@_:"
	alphabet   = letters + digits + separators
)

// isImageName accepts lower case image references such as registry.fedoraproject.org/fedora:38.
func isImageName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" {
		return false
	}

	for _, c := range name {
		if !strings.ContainsRune(alphabet, c) {
			return false
		}
	}

	for _, component := range strings.Split(name, "/") {
		// double slashes are not allowed
		if len(component) == 0 {
			return false
		}
		if strings.ContainsAny(component[:1], separators) || strings.ContainsAny(component[len(component)-1:], separators) {
			return false
		}
	}

	return true
}
