// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"
)

// openFiles - paths currently being written, the first opener wins
type openFiles struct {
	m sync.Map
}

// acquire - true if the caller now owns path
func (o *openFiles) acquire(path string) bool {
	_, loaded := o.m.LoadOrStore(path, struct{}{})
	return !loaded
}

func (o *openFiles) release(path string) {
	o.m.Delete(path)
}

func (o *openFiles) isOpen(path string) bool {
	_, ok := o.m.Load(path)
	return ok
}
