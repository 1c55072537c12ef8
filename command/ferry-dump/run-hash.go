// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/ferryd/blockdigest"
	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/util"
)

type hashResult struct {
	BlockSize int                  `json:"block_size"`
	Bytes     int64                `json:"bytes"`
	Hashes    []blockdigest.Digest `json:"hashes"`
	Global    blockdigest.Digest   `json:"global"`
}

func runHash(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	blockSize := c.Int("block-size")
	if blockSize <= 0 || blockSize > constants.MaximumBlockSize {
		return fault.ErrInvalidBlockSize
	}

	if m.verbose {
		fmt.Fprintf(m.e, "hashing file: %s  block size: %d\n", fileName, blockSize)
	}

	file, err := os.Open(fileName)
	if nil != err {
		return err
	}

	result, err := hashBlocks(file, blockSize)
	if nil != err {
		return err
	}

	if c.Bool("go") {
		for i, h := range result.Hashes {
			fmt.Fprintf(m.w, "%s\n", util.FormatBytes(fmt.Sprintf("hash%d", i), h[:]))
		}
		fmt.Fprintf(m.w, "%s\n", util.FormatBytes("global", result.Global[:]))
		return nil
	}
	return printJson(m.w, result)
}

// the same hash list a transfer header would carry
func hashBlocks(r io.Reader, blockSize int) (*hashResult, error) {
	chunks := blockstream.NewReaderChunks(r, blockSize)
	defer chunks.Close()

	result := &hashResult{
		BlockSize: blockSize,
		Hashes:    make([]blockdigest.Digest, 0),
	}
	hashList := make([][]byte, 0)
	for sequence := int32(0); ; sequence += 1 {
		data, err := chunks.Next()
		if io.EOF == err {
			break
		}
		if nil != err {
			return nil, err
		}
		digest := blockdigest.New(sequence, data)
		result.Hashes = append(result.Hashes, digest)
		hashList = append(hashList, digest.Bytes())
		result.Bytes += int64(len(data))
	}
	result.Global = blockdigest.Global(hashList)
	return result, nil
}
