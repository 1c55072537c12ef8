// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/ferryd/blockstream"
	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/ferryd/signature"
)

// Importer - picks up files written into a directory and stores them
// as signed transfers
//
// a file is imported once no event for it has been seen for the
// settle time, so a file still being written is not read early
type Importer struct {
	log         *logger.L
	store       *Store
	identity    *signature.Identity
	directory   string
	application []byte
	blockSize   int
	settle      time.Duration
	pending     *cache.Cache
	watcher     *fsnotify.Watcher
}

// NewImporter - watch directory, creating it if necessary
func NewImporter(store *Store, identity *signature.Identity, directory string, application string, blockSize int, settle time.Duration) (*Importer, error) {
	if err := ensureDirectory(directory); nil != err {
		return nil, err
	}
	if settle <= 0 {
		settle = constants.ImportSuppression
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}
	if err := watcher.Add(directory); nil != err {
		watcher.Close()
		return nil, err
	}

	im := &Importer{
		log:         logger.New("importer"),
		store:       store,
		identity:    identity,
		directory:   directory,
		application: []byte(application),
		blockSize:   blockSize,
		settle:      settle,
		pending:     cache.New(settle, settle/4),
		watcher:     watcher,
	}
	im.pending.OnEvicted(func(fileName string, _ interface{}) {
		if err := im.Import(fileName); nil != err {
			im.log.Errorf("import: %q  error: %s", fileName, err)
		}
	})
	return im, nil
}

// Run - background process to receive directory events
func (im *Importer) Run(args interface{}, shutdown <-chan struct{}) {
	log := im.log
	log.Infof("starting… directory: %q", im.directory)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-im.watcher.Events:
			if !ok {
				break loop
			}
			if 0 == event.Op&(fsnotify.Create|fsnotify.Write) {
				continue loop
			}
			log.Debugf("file event: %v", event)

			// restart the settle time on every event
			im.pending.Set(event.Name, nil, cache.DefaultExpiration)

		case err, ok := <-im.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	im.watcher.Close()
	im.pending.Flush()
	log.Info("stopped")
}

// Import - hash, sign and store a single file
func (im *Importer) Import(fileName string) error {
	base := filepath.Base(fileName)
	if strings.HasPrefix(base, ".") {
		return nil
	}

	info, err := os.Stat(fileName)
	if nil != err {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(fileName)
	if nil != err {
		return err
	}
	defer f.Close()

	extension := strings.TrimPrefix(filepath.Ext(base), ".")
	mimeType := mime.TypeByExtension(filepath.Ext(base))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	out, err := blockstream.NewOutbound(blockstream.Source{
		From:        im.identity.Fingerprint.Bytes(),
		Application: im.application,
		Extension:   extension,
		Mime:        mimeType,
		Filename:    base,
		ToDisk:      true,
		Body:        f,
	}, im.blockSize, im.identity.SecretKey)
	if nil != err {
		return err
	}

	id := out.Header().GlobalHash()
	if im.store.Has(id) {
		im.log.Debugf("already stored: %q", base)
		return nil
	}

	if err := im.store.Insert(out.Header(), out.Chunks()); nil != err {
		if fault.ErrSourceChanged == err {
			im.log.Warnf("changed while importing: %q", base)
		}
		return err
	}
	im.log.Infof("imported: %q  id: %s", base, id)
	return nil
}
