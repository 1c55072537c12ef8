// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockdigest_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/fault"
)

func TestKnownValues(t *testing.T) {
	items := []struct {
		seq      int32
		data     string
		expected string
	}{
		{0, "hello", "075f1951de365c3cfc5ce11257004dab7284a402fbab188060144532efa094c6"},
		{3, "", "d236fca2b92ca42da90327820d7fe73c8ad22ea13cd8d761adc6e98822195c77"},
	}

	for i, item := range items {
		d := blockdigest.New(item.seq, []byte(item.data))
		assert.Equal(t, item.expected, d.String(), "%d: digest", i)
		assert.Equal(t, "<BLAKE2b:"+item.expected+">", fmt.Sprintf("%#v", d), "%d: go string", i)
	}
}

func TestSequenceBinding(t *testing.T) {
	data := []byte("same data")
	d := blockdigest.New(1, data)

	assert.True(t, blockdigest.Verify(1, data, d[:]), "same index")
	assert.False(t, blockdigest.Verify(2, data, d[:]), "moved index")
	assert.False(t, blockdigest.Verify(1, []byte("same datA"), d[:]), "modified data")
	assert.False(t, blockdigest.Verify(1, data, d[:31]), "short hash")
}

func TestGlobal(t *testing.T) {
	a := blockdigest.New(0, []byte("hello"))
	b := blockdigest.New(1, []byte("world"))

	g := blockdigest.Global([][]byte{a[:], b[:]})
	assert.Equal(t, "105e73c366094185932b25e0ef2130781c4baa411697dd87af98b79bf75e73b6", g.String())

	empty := blockdigest.Global(nil)
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", empty.String())
}

func TestText(t *testing.T) {
	d := blockdigest.New(0, []byte("hello"))

	text, err := d.MarshalText()
	assert.Nil(t, err, "marshal")

	var back blockdigest.Digest
	err = back.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, d, back, "round trip")

	err = back.UnmarshalText(text[:10])
	assert.Equal(t, fault.ErrInvalidHashLength, err, "short text")
}

func TestFromBytes(t *testing.T) {
	d := blockdigest.New(9, []byte("x"))

	var back blockdigest.Digest
	assert.Nil(t, blockdigest.DigestFromBytes(&back, d.Bytes()))
	assert.Equal(t, d, back)

	assert.Equal(t, fault.ErrInvalidHashLength, blockdigest.DigestFromBytes(&back, []byte{1, 2, 3}))
}
