// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitterSpreadsFailedCooldown(t *testing.T) {
	d := 100 * time.Millisecond

	seen := make(map[time.Duration]struct{})
	for i := 0; i < 100; i += 1 {
		j := jitter(d)
		assert.True(t, j >= d, "jitter: %s below: %s", j, d)
		assert.True(t, j <= d+d/2, "jitter: %s above: %s", j, d+d/2)
		seen[j] = struct{}{}
	}
	assert.True(t, len(seen) > 1, "every cooldown identical")

	assert.Equal(t, time.Duration(0), jitter(0), "zero cooldown")
}
