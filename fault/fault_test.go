// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/ferryd/fault"
)

var (
	ErrExistsOne   = fault.ExistsError("exists one ")
	ErrInvalidOne  = fault.InvalidError("invalid one")
	ErrLengthOne   = fault.LengthError("length one")
	ErrNotFoundOne = fault.NotFoundError("not found one")
	ErrProcessOne  = fault.ProcessError("process one")
	ErrTimeoutOne  = fault.TimeoutError("timeout one")
	ErrResourceOne = fault.ResourceError("resource one")
)

// test that various errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		exists   bool
		invalid  bool
		length   bool
		notFound bool
		process  bool
		timeout  bool
		resource bool
	}{
		{ErrExistsOne, true, false, false, false, false, false, false},
		{ErrInvalidOne, false, true, false, false, false, false, false},
		{ErrLengthOne, false, false, true, false, false, false, false},
		{ErrNotFoundOne, false, false, false, true, false, false, false},
		{ErrProcessOne, false, false, false, false, true, false, false},
		{ErrTimeoutOne, false, false, false, false, false, true, false},
		{ErrResourceOne, false, false, false, false, false, false, true},
		{fault.ErrCorruptFrame, false, true, false, false, false, false, false},
		{fault.ErrConfirmTimeout, false, false, false, false, false, true, false},
		{fault.ErrResourceUnsupported, false, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrExists(err) != e.exists {
			t.Errorf("%d: expected 'exists' == %v for err = %v", i, e.exists, err)
		}
		if fault.IsErrInvalid(err) != e.invalid {
			t.Errorf("%d: expected 'invalid' == %v for err = %v", i, e.invalid, err)
		}
		if fault.IsErrLength(err) != e.length {
			t.Errorf("%d: expected 'length' == %v for err = %v", i, e.length, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProcess(err) != e.process {
			t.Errorf("%d: expected 'process' == %v for err = %v", i, e.process, err)
		}
		if fault.IsErrTimeout(err) != e.timeout {
			t.Errorf("%d: expected 'timeout' == %v for err = %v", i, e.timeout, err)
		}
		if fault.IsErrResource(err) != e.resource {
			t.Errorf("%d: expected 'resource' == %v for err = %v", i, e.resource, err)
		}
	}
}

func TestRetryable(t *testing.T) {
	if !fault.IsRetryable(fault.ErrResourceBusy) {
		t.Error("busy must be retryable")
	}
	if !fault.IsRetryable(fault.ErrResourceFailed) {
		t.Error("resource error must be retryable")
	}
	if fault.IsRetryable(fault.ErrResourceUnsupported) {
		t.Error("unsupported must not be retryable")
	}
}

func TestCorruptBlock(t *testing.T) {
	var err error = &fault.CorruptBlockError{Sequence: 7}
	seq, ok := fault.IsErrCorruptBlock(err)
	if !ok || 7 != seq {
		t.Errorf("expected corrupt block 7, got: %d %v", seq, ok)
	}
	if "corrupt block: 7" != err.Error() {
		t.Errorf("unexpected message: %q", err)
	}
	if _, ok := fault.IsErrCorruptBlock(fault.ErrCorruptFrame); ok {
		t.Error("corrupt frame is not a corrupt block")
	}
}
