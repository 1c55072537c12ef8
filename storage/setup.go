// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/ferryd/constants"
	"github.com/bitmark-inc/ferryd/fault"
	"github.com/bitmark-inc/logger"
)

// storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	Headers    *PoolHandle `prefix:"M"`
	Bodies     *PoolHandle `prefix:"D"`
	Files      *PoolHandle `prefix:"F"`
	Identities *PoolHandle `prefix:"I"`
	Names      *PoolHandle `prefix:"N"`
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const (
	currentDBVersion = 0x100
)

// Configuration - storage locations
type Configuration struct {
	Database        string `gluamapper:"database" json:"database"`
	CacheDirectory  string `gluamapper:"cache" json:"cache"`
	ImportDirectory string `gluamapper:"import" json:"import"`
	InlineLimit     int    `gluamapper:"inline_limit" json:"inline_limit"`
}

// Store - a database of headers and bodies plus a directory of large bodies
type Store struct {
	sync.RWMutex
	log            *logger.L
	db             *leveldb.DB
	pool           pools
	cacheDirectory string
	inlineLimit    int
	writers        openFiles
}

// Open - open or create the database and the cache directory
func Open(configuration Configuration) (*Store, error) {
	log := logger.New("storage")

	if err := ensureDirectory(configuration.CacheDirectory); nil != err {
		return nil, err
	}

	db, version, err := getDB(configuration.Database)
	if nil != err {
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		db.Close()
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fmt.Errorf("database version: %d > current version: %d", version, currentDBVersion)
	}
	if 0 == version {
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}
	}

	inlineLimit := configuration.InlineLimit
	if inlineLimit <= 0 || inlineLimit > constants.MaximumInlineBody {
		inlineLimit = constants.MaximumInlineBody
	}

	s := &Store{
		log:            log,
		db:             db,
		cacheDirectory: configuration.CacheDirectory,
		inlineLimit:    inlineLimit,
	}

	if err := s.pool.setup(db); nil != err {
		db.Close()
		return nil, err
	}

	log.Infof("database: %q  cache: %q", configuration.Database, configuration.CacheDirectory)
	return s, nil
}

// Close - close the database connection
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.log.Info("closed")
	s.log.Flush()
	return err
}

// scan each field of the pools struct and attach a handle
func (p *pools) setup(db *leveldb.DB) error {

	// this will be a struct type
	poolType := reflect.TypeOf(*p)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(p).Elem()

	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fault.ErrInvalidPoolPrefix
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		handle := &PoolHandle{
			prefix:   prefix,
			limit:    limit,
			database: db,
		}
		poolValue.Field(i).Set(reflect.ValueOf(handle))
	}
	return nil
}

// return:
//   database handle
//   version number
func getDB(name string) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}

func ensureDirectory(directory string) error {
	info, err := os.Stat(directory)
	if os.IsNotExist(err) {
		return os.MkdirAll(directory, 0700)
	}
	if nil != err {
		return err
	}
	if !info.IsDir() {
		return fault.ErrNotADirectory
	}
	return nil
}
