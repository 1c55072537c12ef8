// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error classes and the single instances of each
// ferry error
//
// callers compare against the instance, or test the class with one
// of the IsErrX functions when only the kind of failure matters,
// e.g. retrying any ResourceError
package fault
