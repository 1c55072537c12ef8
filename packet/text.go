// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"unicode/utf8"
)

// protobuf string fields only encode valid UTF-8
func validStrings(s ...string) bool {
	for _, item := range s {
		if !utf8.ValidString(item) {
			return false
		}
	}
	return true
}
