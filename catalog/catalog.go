/*
 * catalog.go, part of gonets.
 *
 * Copyright 2025 Raul Mera <rmeraaatacademicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 * gonets is developed at the Universidad de Tarapaca (UTA)
 *
 */

//Package catalog stores genome-to-identifier mappings in a Badger
//key-value database. The text archive is the interchange format; this
//is the workhorse for batch validation over archives too large to
//re-parse on every run.
package catalog

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	nets "github.com/rmera/gonets"
)

var keyPrefix = []byte("g/")

//Catalog is a persistent genome catalog.
type Catalog struct {
	db *badger.DB
}

//Open opens (creating if needed) a catalog at dir. With readOnly the
//underlying database refuses writes, so many processes can share it.
func Open(dir string, readOnly bool) (*Catalog, error) {
	opts := badger.DefaultOptions(dir).WithReadOnly(readOnly).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "catalog.Open")
	}
	return &Catalog{db: db}, nil
}

//OpenInMemory opens a throwaway catalog backed by memory only.
func OpenInMemory() (*Catalog, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrap(err, "catalog.OpenInMemory")
	}
	return &Catalog{db: db}, nil
}

//Close releases the database.
func (C *Catalog) Close() error {
	return C.db.Close()
}

func genomeKey(genome string) []byte {
	return append(append([]byte{}, keyPrefix...), genome...)
}

//Put stores an identifier under a genome, overwriting silently: the
//conflict policy belongs to the Archive, the catalog is a cache.
func (C *Catalog) Put(genome, id string) error {
	return C.db.Update(func(txn *badger.Txn) error {
		return txn.Set(genomeKey(genome), []byte(id))
	})
}

//Lookup fetches the identifier stored under a genome.
func (C *Catalog) Lookup(genome string) (string, bool, error) {
	var id string
	err := C.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(genomeKey(genome))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "catalog.Lookup")
	}
	return id, true, nil
}

//Each visits every (genome, id) pair in key order.
func (C *Catalog) Each(fn func(genome, id string) error) error {
	return C.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			item := it.Item()
			genome := string(item.Key()[len(keyPrefix):])
			err := item.Value(func(val []byte) error {
				return fn(genome, string(val))
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

//ImportArchive bulk-loads a text archive into the catalog.
func (C *Catalog) ImportArchive(a *nets.Archive) error {
	wb := C.db.NewWriteBatch()
	defer wb.Cancel()
	var err error
	a.Each(func(genome, id string) {
		if err != nil {
			return
		}
		err = wb.Set(genomeKey(genome), []byte(id))
	})
	if err != nil {
		return errors.Wrap(err, "catalog.ImportArchive")
	}
	return wb.Flush()
}
