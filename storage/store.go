// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
)

const (
	maximumExtensionLength = 16
	incomingPattern        = ".incoming-"
)

// Insert - store a transfer, consuming chunks completely and closing them
//
// content already present (or being written by another transfer) is
// read, verified by chunks and discarded; nothing is stored unless
// every block arrives
func (s *Store) Insert(header *packet.BlockHeader, chunks blockstream.Chunks) error {
	defer chunks.Close()

	if header.EndOfStream() {
		return fault.ErrEndOfStreamHeader
	}

	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return fault.ErrNotInitialised
	}

	id := header.GlobalHash()
	name := contentName(id, header.Extension())

	present, err := s.pool.Headers.Has(id[:])
	if nil != err {
		return err
	}
	if present || !s.writers.acquire(name) {
		s.log.Debugf("duplicate: %s", id)
		return drain(chunks)
	}
	defer s.writers.release(name)

	frame, err := packet.Encode(header)
	if nil != err {
		drain(chunks)
		return err
	}

	var b batch
	size := int64(header.HashCount()) * int64(header.BlockSize())
	if header.ToDisk() || size > int64(s.inlineLimit) {
		if err := s.writeFile(name, chunks); nil != err {
			return err
		}
		b.put(s.pool.Files, id[:], []byte(name))
	} else {
		body, err := blockstream.Collect(chunks)
		if nil != err {
			return err
		}
		b.put(s.pool.Bodies, id[:], body)
	}
	b.put(s.pool.Headers, id[:], frame)

	if err := s.db.Write(&b.b, nil); nil != err {
		return err
	}

	s.log.Infof("stored: %s  %q  blocks: %d  disk: %v", id, header.Filename(), header.HashCount(), header.ToDisk())
	return nil
}

// write to a temporary file that is renamed only when complete
func (s *Store) writeFile(name string, chunks blockstream.Chunks) error {
	f, err := ioutil.TempFile(s.cacheDirectory, incomingPattern)
	if nil != err {
		drain(chunks)
		return err
	}
	temporary := f.Name()

	fail := func(err error) error {
		f.Close()
		os.Remove(temporary)
		return err
	}

	for {
		data, err := chunks.Next()
		if io.EOF == err {
			break
		}
		if nil != err {
			return fail(err)
		}
		if _, err := f.Write(data); nil != err {
			drain(chunks)
			return fail(err)
		}
	}

	if err := f.Sync(); nil != err {
		return fail(err)
	}
	if err := f.Close(); nil != err {
		os.Remove(temporary)
		return err
	}
	if err := os.Rename(temporary, filepath.Join(s.cacheDirectory, name)); nil != err {
		os.Remove(temporary)
		return err
	}
	return nil
}

// Has - true if the content is stored
func (s *Store) Has(id blockdigest.Digest) bool {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return false
	}
	present, err := s.pool.Headers.Has(id[:])
	return nil == err && present
}

// Header - the stored header for an id
func (s *Store) Header(id blockdigest.Digest) (*packet.BlockHeader, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}
	return s.header(id[:])
}

func (s *Store) header(key []byte) (*packet.BlockHeader, error) {
	frame, err := s.pool.Headers.Get(key)
	if nil != err {
		return nil, err
	}
	if nil == frame {
		return nil, fault.ErrNotFound
	}
	return packet.DecodeBlockHeader(frame)
}

// ReadByHeader - the stored blocks of the content a header describes
//
// the caller must Close the result, a relay does this itself
func (s *Store) ReadByHeader(header *packet.BlockHeader) (blockstream.Chunks, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}

	id := header.GlobalHash()
	present, err := s.pool.Headers.Has(id[:])
	if nil != err {
		return nil, err
	}
	if !present {
		return nil, fault.ErrNotFound
	}

	blockSize := int(header.BlockSize())
	if 0 == header.HashCount() || blockSize <= 0 {
		return blockstream.NewSliceChunks(nil), nil
	}

	name, err := s.pool.Files.Get(id[:])
	if nil != err {
		return nil, err
	}
	if nil != name {
		f, err := os.Open(filepath.Join(s.cacheDirectory, string(name)))
		if nil != err {
			return nil, err
		}
		return blockstream.NewReaderChunks(f, blockSize), nil
	}

	body, err := s.pool.Bodies.Get(id[:])
	if nil != err {
		return nil, err
	}
	if nil == body {
		return nil, fault.ErrNotFound
	}
	return blockstream.NewReaderChunks(bytes.NewReader(body), blockSize), nil
}

// Outgoing - up to limit stored headers in random order, leaving out
// the content the peer declared
func (s *Store) Outgoing(limit int, declared *packet.DeclareHashes) ([]*packet.BlockHeader, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}

	frames := [][]byte{}
	err := s.pool.Headers.Map(func(element Element) bool {
		var id blockdigest.Digest
		if nil == blockdigest.DigestFromBytes(&id, element.Key) && declared.Contains(id) {
			return true
		}
		frames = append(frames, element.Value)
		return true
	})
	if nil != err {
		return nil, err
	}

	rand.Shuffle(len(frames), func(i, j int) {
		frames[i], frames[j] = frames[j], frames[i]
	})
	if limit >= 0 && len(frames) > limit {
		frames = frames[:limit]
	}

	headers := make([]*packet.BlockHeader, 0, len(frames))
	for _, frame := range frames {
		h, err := packet.DecodeBlockHeader(frame)
		if nil != err {
			s.log.Errorf("skip undecodable header: %s", err)
			continue
		}
		headers = append(headers, h)
	}
	return headers, nil
}

// Hashes - up to limit stored ids in random order, for a declaration
func (s *Store) Hashes(limit int) ([]blockdigest.Digest, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}

	hashes := []blockdigest.Digest{}
	err := s.pool.Headers.Map(func(element Element) bool {
		var id blockdigest.Digest
		if err := blockdigest.DigestFromBytes(&id, element.Key); nil != err {
			s.log.Errorf("skip header key: %x  error: %s", element.Key, err)
			return true
		}
		hashes = append(hashes, id)
		return true
	})
	if nil != err {
		return nil, err
	}

	rand.Shuffle(len(hashes), func(i, j int) {
		hashes[i], hashes[j] = hashes[j], hashes[i]
	})
	if limit >= 0 && len(hashes) > limit {
		hashes = hashes[:limit]
	}
	return hashes, nil
}

// Count - number of stored items
func (s *Store) Count() (int, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return 0, fault.ErrNotInitialised
	}

	n := 0
	err := s.pool.Headers.Map(func(Element) bool {
		n += 1
		return true
	})
	return n, err
}

// FilePath - location in the cache directory of a body held on disk
func (s *Store) FilePath(id blockdigest.Digest) (string, bool) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return "", false
	}
	name, err := s.pool.Files.Get(id[:])
	if nil != err || nil == name {
		return "", false
	}
	return filepath.Join(s.cacheDirectory, string(name)), true
}

// file name for stored content: base58 id and a cleaned extension
func contentName(id blockdigest.Digest, extension string) string {
	name := base58.Encode(id[:])
	ext := sanitiseExtension(extension)
	if "" == ext {
		return name
	}
	return name + "." + ext
}

func sanitiseExtension(extension string) string {
	var b strings.Builder
	for _, c := range extension {
		if b.Len() >= maximumExtensionLength {
			break
		}
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		}
	}
	return b.String()
}

func drain(chunks blockstream.Chunks) error {
	for {
		_, err := chunks.Next()
		if io.EOF == err {
			return nil
		}
		if nil != err {
			return err
		}
	}
}
