// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/ferryd/background"
)

type counter struct{}

func (state *counter) Run(args interface{}, shutdown <-chan struct{}) {
	fmt.Printf("initialise\n")
	<-shutdown
	fmt.Printf("finalise\n")
}

func Example() {
	proc := &counter{}

	p := background.Start(background.Processes{proc}, nil)
	time.Sleep(10 * time.Millisecond)
	p.Stop()

	// Output:
	// initialise
	// finalise
}
