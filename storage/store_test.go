// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/signature"
)

func outbound(t *testing.T, identity *signature.Identity, body []byte, toDisk bool) *blockstream.Outbound {
	out, err := blockstream.NewOutbound(blockstream.Source{
		From:        identity.Fingerprint.Bytes(),
		Application: []byte("test"),
		Extension:   "t/x.t",
		Filename:    "body.txt",
		ToDisk:      toDisk,
		Body:        bytes.NewReader(body),
	}, 8, identity.SecretKey)
	assert.NoError(t, err, "NewOutbound")
	return out
}

func TestInsertAndRead(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	for _, toDisk := range []bool{false, true} {
		body := []byte(fmt.Sprintf("stored body, disk: %v", toDisk))
		out := outbound(t, identity, body, toDisk)
		header := out.Header()

		assert.NoError(t, s.Insert(header, out.Chunks()), "Insert disk: %v", toDisk)
		assert.True(t, s.Has(header.GlobalHash()), "stored disk: %v", toDisk)

		_, onDisk := s.FilePath(header.GlobalHash())
		assert.Equal(t, toDisk, onDisk, "placement")

		stored, err := s.Header(header.GlobalHash())
		assert.NoError(t, err, "Header")
		assert.Equal(t, header, stored, "header")
		assert.True(t, stored.Verify(identity.PublicKey), "signature kept")

		chunks, err := s.ReadByHeader(stored)
		assert.NoError(t, err, "ReadByHeader")
		back, err := blockstream.Collect(chunks)
		assert.NoError(t, err, "Collect")
		assert.Equal(t, body, back, "body")
	}

	n, err := s.Count()
	assert.NoError(t, err, "Count")
	assert.Equal(t, 2, n, "count")
}

func TestLargeInlineSpillsToDisk(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	out := outbound(t, identity, bytes.Repeat([]byte("x"), 100), false)
	assert.NoError(t, s.Insert(out.Header(), out.Chunks()), "Insert")

	path, onDisk := s.FilePath(out.Header().GlobalHash())
	assert.True(t, onDisk, "on disk")
	assert.Equal(t, ".txt", filepath.Ext(path), "sanitised extension")
}

func TestDuplicateInsert(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	body := []byte("the same content twice")
	first := outbound(t, identity, body, true)
	assert.NoError(t, s.Insert(first.Header(), first.Chunks()), "first insert")

	second := outbound(t, identity, body, true)
	chunks := second.Chunks()
	assert.NoError(t, s.Insert(second.Header(), chunks), "duplicate insert")

	_, err = chunks.Next()
	assert.Equal(t, io.EOF, err, "duplicate stream drained")

	n, err := s.Count()
	assert.NoError(t, err, "Count")
	assert.Equal(t, 1, n, "stored once")
}

type brokenChunks struct {
	good int
}

func (b *brokenChunks) Next() ([]byte, error) {
	if b.good > 0 {
		b.good -= 1
		return []byte("12345678"), nil
	}
	return nil, &fault.CorruptBlockError{Sequence: 1}
}

func (b *brokenChunks) Close() error {
	return nil
}

func TestNoPartialAcceptance(t *testing.T) {
	s, dir, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	for _, toDisk := range []bool{false, true} {
		out := outbound(t, identity, []byte("1234567812345678"), toDisk)
		err := s.Insert(out.Header(), &brokenChunks{good: 1})
		_, ok := fault.IsErrCorruptBlock(err)
		assert.True(t, ok, "insert fails disk: %v", toDisk)
		assert.False(t, s.Has(out.Header().GlobalHash()), "nothing stored disk: %v", toDisk)

		_, err = s.ReadByHeader(out.Header())
		assert.Equal(t, fault.ErrNotFound, err, "not readable disk: %v", toDisk)
	}

	files, err := ioutil.ReadDir(filepath.Join(dir, "cache"))
	assert.NoError(t, err, "ReadDir")
	assert.Equal(t, 0, len(files), "no temporary files left")
}

func TestEndOfStreamRejected(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	err := s.Insert(packet.NewEndOfStream(1), blockstream.NewSliceChunks(nil))
	assert.Equal(t, fault.ErrEndOfStreamHeader, err, "end of stream")
}

func TestOutgoing(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	for i := 0; i < 5; i++ {
		out := outbound(t, identity, []byte{byte(i), byte(i), byte(i)}, false)
		assert.NoError(t, s.Insert(out.Header(), out.Chunks()), "Insert: %d", i)
	}

	all, err := s.Outgoing(100, nil)
	assert.NoError(t, err, "Outgoing")
	assert.Equal(t, 5, len(all), "all headers")

	some, err := s.Outgoing(2, nil)
	assert.NoError(t, err, "Outgoing limited")
	assert.Equal(t, 2, len(some), "limited")

	for _, h := range some {
		chunks, err := s.ReadByHeader(h)
		assert.NoError(t, err, "ReadByHeader")
		relay := blockstream.NewRelay(h, chunks)
		_, err = relay.WriteTo(ioutil.Discard)
		assert.NoError(t, err, "relay")
	}
}

func TestOutgoingExcludesDeclared(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	for i := 0; i < 6; i++ {
		out := outbound(t, identity, []byte{byte(i), 'd'}, false)
		assert.NoError(t, s.Insert(out.Header(), out.Chunks()), "Insert: %d", i)
	}

	hashes, err := s.Hashes(-1)
	assert.NoError(t, err, "Hashes")
	assert.Equal(t, 6, len(hashes), "all ids")
	for _, id := range hashes {
		assert.True(t, s.Has(id), "stored: %s", id)
	}

	some, err := s.Hashes(4)
	assert.NoError(t, err, "Hashes limited")
	assert.Equal(t, 4, len(some), "limited")

	declared := packet.NewDeclareHashes(some)
	headers, err := s.Outgoing(100, declared)
	assert.NoError(t, err, "Outgoing")
	assert.Equal(t, 2, len(headers), "undeclared only")
	for _, h := range headers {
		assert.False(t, declared.Contains(h.GlobalHash()), "declared content offered: %s", h.GlobalHash())
	}

	// the limit applies after the exclusion
	headers, err = s.Outgoing(1, packet.NewDeclareHashes(hashes[:5]))
	assert.NoError(t, err, "Outgoing limited")
	if assert.Equal(t, 1, len(headers), "one left") {
		assert.Equal(t, hashes[5], headers[0].GlobalHash(), "the undeclared id")
	}

	headers, err = s.Outgoing(100, packet.NewDeclareHashes(nil))
	assert.NoError(t, err, "Outgoing opt out")
	assert.Equal(t, 6, len(headers), "opt out excludes nothing")
}

func TestInsertIdentity(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	p, err := packet.NewIdentity("relay", identity.PublicKey)
	assert.NoError(t, err, "NewIdentity packet")
	assert.Equal(t, fault.ErrInvalidSignature, s.InsertIdentity(p), "unsigned")
	assert.Equal(t, fault.ErrIdentityEndMarker, s.InsertIdentity(packet.NewEndOfIdentities()), "end marker")

	none, err := s.Identities(10)
	assert.NoError(t, err, "Identities")
	assert.Equal(t, 0, len(none), "nothing stored")

	assert.NoError(t, p.Sign(identity.SecretKey), "Sign")
	assert.NoError(t, s.InsertIdentity(p), "InsertIdentity")
	assert.NoError(t, s.InsertIdentity(p), "InsertIdentity again")

	pk, ok := s.PublicKey(identity.Fingerprint.Bytes())
	assert.True(t, ok, "key known")
	assert.Equal(t, identity.PublicKey, pk, "public key")

	all, err := s.Identities(10)
	assert.NoError(t, err, "Identities")
	if assert.Equal(t, 1, len(all), "stored once") {
		assert.Equal(t, p, all[0], "identity")
		assert.True(t, all[0].Verify(), "still verifies")
	}
}

func openDescriptors(t *testing.T) int {
	fds, err := ioutil.ReadDir("/proc/self/fd")
	if nil != err {
		t.Skipf("descriptor count unavailable: %s", err)
	}
	return len(fds)
}

func TestReadByHeaderReleasesFiles(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	// two whole blocks, no short final read
	out := outbound(t, identity, []byte("0123456789abcdef"), true)
	header := out.Header()
	assert.NoError(t, s.Insert(header, out.Chunks()), "Insert")

	before := openDescriptors(t)
	for i := 0; i < 20; i++ {
		chunks, err := s.ReadByHeader(header)
		assert.NoError(t, err, "ReadByHeader: %d", i)
		_, err = blockstream.NewRelay(header, chunks).WriteTo(ioutil.Discard)
		assert.NoError(t, err, "relay: %d", i)
	}
	for i := 0; i < 5; i++ {
		chunks, err := s.ReadByHeader(header)
		assert.NoError(t, err, "ReadByHeader abandoned: %d", i)
		assert.NoError(t, chunks.Close(), "Close: %d", i)
	}
	assert.Equal(t, before, openDescriptors(t), "no descriptors left open")
}

func TestIdentities(t *testing.T) {
	s, _, done := openStore(t)
	defer done()

	identity, err := signature.NewIdentity()
	assert.NoError(t, err, "NewIdentity")

	_, ok := s.PublicKey(identity.Fingerprint.Bytes())
	assert.False(t, ok, "unknown")

	fp, err := s.AddIdentity(identity.PublicKey)
	assert.NoError(t, err, "AddIdentity")
	assert.Equal(t, identity.Fingerprint, fp, "fingerprint")

	pk, ok := s.PublicKey(fp.Bytes())
	assert.True(t, ok, "known")
	assert.Equal(t, identity.PublicKey, pk, "public key")

	_, err = s.AddIdentity([]byte{1, 2, 3})
	assert.Equal(t, fault.ErrInvalidPublicKeyLength, err, "short key")
}
