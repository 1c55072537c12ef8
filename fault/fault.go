// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"fmt"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type TimeoutError GenericError

// ResourceError - the high-bandwidth resource refused a request;
// these are retryable unless they are ErrResourceUnsupported
type ResourceError GenericError

// common errors - keep in alphabetic order
var (
	ErrAcceptTimeout           = TimeoutError("accept timeout")
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrAlreadySent             = ProcessError("already sent")
	ErrConfirmTimeout          = TimeoutError("group confirmation timeout")
	ErrCorruptFrame            = InvalidError("corrupt frame")
	ErrDialTimeout             = TimeoutError("dial timeout")
	ErrEndOfStreamHeader       = InvalidError("end of stream header carries no content")
	ErrFrameTooLarge           = LengthError("frame too large")
	ErrHandshakeTimeout        = TimeoutError("handshake timeout")
	ErrIdentityEndMarker       = InvalidError("identity end marker carries no identity")
	ErrIdentityFileExists      = ExistsError("identity file already exists")
	ErrInvalidBlockSize        = InvalidError("invalid block size")
	ErrInvalidChannel          = InvalidError("invalid channel")
	ErrInvalidFingerprint      = LengthError("invalid fingerprint length")
	ErrInvalidHashLength       = LengthError("invalid hash length")
	ErrInvalidMetadata         = InvalidError("invalid metadata")
	ErrInvalidName             = InvalidError("invalid identity name")
	ErrInvalidPoolPrefix       = InvalidError("invalid pool prefix")
	ErrInvalidPublicKeyLength  = LengthError("invalid public key length")
	ErrInvalidRole             = InvalidError("invalid role")
	ErrInvalidSecretKeyLength  = LengthError("invalid secret key length")
	ErrInvalidSequenceNumber   = InvalidError("invalid sequence number")
	ErrInvalidSignature        = InvalidError("invalid signature")
	ErrInvalidString           = InvalidError("invalid UTF-8 string")
	ErrMalformedPacket         = InvalidError("malformed packet")
	ErrMissingApplication      = InvalidError("missing application")
	ErrMissingGroupName        = InvalidError("missing group name")
	ErrMissingPassphrase       = InvalidError("missing group passphrase")
	ErrMissingProvides         = InvalidError("missing provides")
	ErrNotADirectory           = InvalidError("not a directory")
	ErrNotConnected            = ProcessError("not connected")
	ErrNotFound                = NotFoundError("not found")
	ErrNotInitialised          = NotFoundError("not initialised")
	ErrOpenFileInUse           = ExistsError("file already open")
	ErrResourceBusy            = ResourceError("resource busy")
	ErrResourceFailed          = ResourceError("resource error")
	ErrResourceUnsupported     = ResourceError("resource unsupported")
	ErrRetriesExhausted        = ProcessError("retries exhausted")
	ErrSequenceOutOfOrder      = InvalidError("sequence out of order")
	ErrSourceChanged           = ProcessError("source changed during transmit")
	ErrTooManyHashes           = LengthError("too many declared hashes")
	ErrTransferIncomplete      = ProcessError("transfer incomplete")
	ErrUnexpectedEndOfStream   = ProcessError("unexpected end of stream")
	ErrUnknownPacketKind       = InvalidError("unknown packet kind")
	ErrUnsupportedCapability   = InvalidError("unsupported capability")
	ErrUnsupportedConfigFormat = InvalidError("unsupported configuration format")
)

// CorruptBlockError - a block failed its hash check
type CorruptBlockError struct {
	Sequence int
}

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e TimeoutError) Error() string  { return string(e) }
func (e ResourceError) Error() string { return string(e) }

func (e *CorruptBlockError) Error() string {
	return fmt.Sprintf("corrupt block: %d", e.Sequence)
}

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrTimeout(e error) bool  { _, ok := e.(TimeoutError); return ok }
func IsErrResource(e error) bool { _, ok := e.(ResourceError); return ok }

// IsErrCorruptBlock - returns the failing sequence if e is a corrupt block
func IsErrCorruptBlock(e error) (int, bool) {
	if cb, ok := e.(*CorruptBlockError); ok {
		return cb.Sequence, true
	}
	return 0, false
}

// IsRetryable - only busy and generic resource errors may be retried
func IsRetryable(e error) bool {
	return e == ErrResourceBusy || e == ErrResourceFailed
}
