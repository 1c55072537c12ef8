// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transfer

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

import (
	"context"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/group"
	"github.com/bitmark-inc/ferryd/packet"
)

// Store - content to send and the destination of received content
type Store interface {
	PublicKey(fingerprint []byte) ([]byte, bool)
	Insert(header *packet.BlockHeader, chunks blockstream.Chunks) error
	Outgoing(limit int, declared *packet.DeclareHashes) ([]*packet.BlockHeader, error)
	ReadByHeader(header *packet.BlockHeader) (blockstream.Chunks, error)
	Hashes(limit int) ([]blockdigest.Digest, error)
	Identities(limit int) ([]*packet.Identity, error)
	InsertIdentity(identity *packet.Identity) error
}

// Group - the high bandwidth resource
type Group interface {
	Create(ctx context.Context, credentials group.Credentials) (group.State, error)
	Connect(ctx context.Context, credentials group.Credentials) (group.State, error)
	Remove(ctx context.Context) error
}
