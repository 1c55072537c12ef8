// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"math/rand"

	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/packet"
	"github.com/bitmark-inc/ferryd/signature"
)

// AddIdentity - remember a sender's public key
func (s *Store) AddIdentity(publicKey []byte) (signature.Fingerprint, error) {
	if signature.PublicKeySize != len(publicKey) {
		return signature.Fingerprint{}, fault.ErrInvalidPublicKeyLength
	}

	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return signature.Fingerprint{}, fault.ErrNotInitialised
	}

	fp := signature.NewFingerprint(publicKey)
	return fp, s.pool.Identities.Put(fp[:], publicKey)
}

// PublicKey - key for a fingerprint, used to verify incoming headers
func (s *Store) PublicKey(fingerprint []byte) ([]byte, bool) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db || signature.FingerprintLength != len(fingerprint) {
		return nil, false
	}

	publicKey, err := s.pool.Identities.Get(fingerprint)
	if nil != err {
		s.log.Errorf("identity lookup error: %s", err)
		return nil, false
	}
	if signature.PublicKeySize != len(publicKey) {
		return nil, false
	}
	return publicKey, true
}

// InsertIdentity - remember a self signed identity so it can be
// relayed, its key then verifies the sender's headers
func (s *Store) InsertIdentity(identity *packet.Identity) error {
	if identity.End() {
		return fault.ErrIdentityEndMarker
	}
	if !identity.Verify() {
		return fault.ErrInvalidSignature
	}

	frame, err := packet.Encode(identity)
	if nil != err {
		return err
	}

	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return fault.ErrNotInitialised
	}

	fp := identity.Fingerprint()

	var b batch
	b.put(s.pool.Identities, fp[:], identity.PublicKey())
	b.put(s.pool.Names, fp[:], frame)
	if err := s.db.Write(&b.b, nil); nil != err {
		return err
	}
	s.log.Debugf("identity: %s", identity)
	return nil
}

// Identities - up to limit stored identities in random order
func (s *Store) Identities(limit int) ([]*packet.Identity, error) {
	s.RLock()
	defer s.RUnlock()
	if nil == s.db {
		return nil, fault.ErrNotInitialised
	}

	frames := [][]byte{}
	err := s.pool.Names.Map(func(element Element) bool {
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

	identities := make([]*packet.Identity, 0, len(frames))
	for _, frame := range frames {
		identity, err := packet.DecodeIdentity(frame)
		if nil != err {
			s.log.Errorf("skip undecodable identity: %s", err)
			continue
		}
		identities = append(identities, identity)
	}
	return identities, nil
}
