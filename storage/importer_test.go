// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/background"
	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/storage"
	"github.com/bitmark-inc/ferryd/signature"
)

func TestImport(t *testing.T) {
	s, dir, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	importDirectory := filepath.Join(dir, "import")
	im, err := storage.NewImporter(s, identity, importDirectory, "files", 4, 50*time.Millisecond)
	assert.NoError(t, err, "NewImporter")

	p := background.Start(background.Processes{im}, nil)
	defer p.Stop()

	content := []byte("a file dropped into the import directory")
	fileName := filepath.Join(importDirectory, "dropped.html")
	assert.NoError(t, ioutil.WriteFile(fileName, content, 0600), "WriteFile")

	// hidden files are ignored
	assert.NoError(t, ioutil.WriteFile(filepath.Join(importDirectory, ".hidden"), content, 0600), "WriteFile hidden")

	var n int
	for i := 0; i < 100; i++ {
		n, err = s.Count()
		assert.NoError(t, err, "Count")
		if n > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	assert.Equal(t, 1, n, "imported once")

	headers, err := s.Outgoing(10, nil)
	assert.NoError(t, err, "Outgoing")
	if !assert.Equal(t, 1, len(headers), "one header") {
		return
	}

	h := headers[0]
	assert.Equal(t, "dropped.html", h.Filename(), "file name")
	assert.Equal(t, "html", h.Extension(), "extension")
	assert.True(t, h.ToDisk(), "to disk")
	assert.Equal(t, "text/html", h.Mime(), "mime")
	assert.True(t, h.Verify(identity.PublicKey), "signed by the local identity")

	chunks, err := s.ReadByHeader(h)
	assert.NoError(t, err, "ReadByHeader")
	back, err := blockstream.Collect(chunks)
	assert.NoError(t, err, "Collect")
	assert.Equal(t, content, back, "content")

	// importing again is a no-op
	assert.NoError(t, im.Import(fileName), "Import again")
	n, err = s.Count()
	assert.NoError(t, err, "Count")
	assert.Equal(t, 1, n, "still one")
}

func TestImportInvalidFileName(t *testing.T) {
	s, dir, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	importDirectory := filepath.Join(dir, "import")
	im, err := storage.NewImporter(s, identity, importDirectory, "files", 4, 50*time.Millisecond)
	assert.NoError(t, err, "NewImporter")

	fileName := filepath.Join(importDirectory, "bad\xffname.txt")
	assert.NoError(t, ioutil.WriteFile(fileName, []byte("content"), 0600), "WriteFile")

	assert.Equal(t, fault.ErrInvalidString, im.Import(fileName), "rejected before encoding")
	n, err := s.Count()
	assert.NoError(t, err, "Count")
	assert.Equal(t, 0, n, "nothing stored")
}
