// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package group - arbitration of the single high-bandwidth radio
//
// the radio can form or join one group at a time and refuses requests
// while it is busy; the manager serialises requests of each kind,
// retries refusals a bounded number of times and only reports success
// once the radio broadcasts that the group actually formed
package group
