// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - ensure the path is absolute
// if not, prepend the directory to make absolute path
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - check if file exists
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// EnsureDirectories - make the absolute form of each directory
// relative to base and create any that are missing
//
// each path is replaced by its absolute form
func EnsureDirectories(base string, directories ...*string) error {
	for _, d := range directories {
		*d = EnsureAbsolute(base, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return err
		}
	}
	return nil
}
