// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/ferryd/fault"
)

// common errors - keep in alphabetic order
const (
	ErrIncompleteTransfer = fault.ProcessError("stream ended inside a transfer")
	ErrRequiredFileName   = fault.InvalidError("file name is required")
)

func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}

	return fileName, nil
}
