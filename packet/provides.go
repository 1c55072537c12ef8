// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package packet

import (
	"strings"

	"github.com/bitmark-inc/ferryd/fault"
)

// Provides - a transport capability token
type Provides int32

// known capabilities
const (
	ProvidesBLE     Provides = 0
	ProvidesWifiP2P Provides = 1
)

var providesName = map[int32]string{
	0: "BLE",
	1: "WIFIP2P",
}

var providesValue = map[string]int32{
	"BLE":     0,
	"WIFIP2P": 1,
}

func (p Provides) String() string {
	if s, ok := providesName[int32(p)]; ok {
		return s
	}
	return "*unknown*"
}

// IsKnown - true for a capability this build can use
func (p Provides) IsKnown() bool {
	_, ok := providesName[int32(p)]
	return ok
}

// ParseProvides - convert a capability name, case insensitive
func ParseProvides(s string) (Provides, error) {
	v, ok := providesValue[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fault.ErrUnsupportedCapability
	}
	return Provides(v), nil
}
