// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"fmt"
	"strings"
)

// FormatBytes - render data as a Go byte slice literal, eight bytes
// to a line, for pasting expected digests into test files
func FormatBytes(name string, data []byte) string {
	if 0 == len(data) {
		return name + " := []byte{}"
	}
	a := strings.Split(fmt.Sprintf("% #x", data), " ")
	s := name + " := []byte{"
	for i := 0; i < len(a); i += 1 {
		if 0 == i%8 {
			s += "\n\t"
		} else {
			s += " "
		}
		s += a[i] + ","
	}
	return s + "\n}"
}
