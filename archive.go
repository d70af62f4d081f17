/*
 * archive.go, part of gonets.
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

package nets

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

//Version of the archive convention this build writes.
const Version = "0.7.0"

//archiveStampPrefix opens archives whose keys follow the canonical convention
//of this implementation family. Archives without it are "external":
//their keys are re-canonicalized on load.
const archiveStampPrefix = "Made by CrystalNets.jl v"

//Archive maps canonical genome strings to topology identifiers and
//back. It is a handle: build one at startup and pass it through the
//pipeline. Reads take shared access; the few mutating operations take
//exclusive access, so a single Archive can serve concurrent lookups.
type Archive struct {
	mu       sync.RWMutex
	byGenome map[string]string
	byID     *treemap.Map //id -> genome, iterated in order when writing
	stamped  bool
}

//NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{
		byGenome: make(map[string]string),
		byID:     treemap.NewWithStringComparator(),
	}
}

//Len returns the number of entries.
func (A *Archive) Len() int {
	A.mu.RLock()
	defer A.mu.RUnlock()
	return len(A.byGenome)
}

//Lookup returns the identifier stored for a canonical genome.
func (A *Archive) Lookup(genome string) (string, bool) {
	A.mu.RLock()
	defer A.mu.RUnlock()
	id, ok := A.byGenome[genome]
	return id, ok
}

//ReverseLookup returns the genome stored for an identifier. The full
//identifier is matched first, then its comma-separated aliases.
func (A *Archive) ReverseLookup(id string) (string, bool) {
	A.mu.RLock()
	defer A.mu.RUnlock()
	if g, ok := A.byID.Get(id); ok {
		return g.(string), true
	}
	var genome string
	found := false
	A.byID.Each(func(key, value interface{}) {
		if found {
			return
		}
		for _, alias := range strings.Split(key.(string), ",") {
			if strings.TrimSpace(alias) == id {
				genome = value.(string)
				found = true
				return
			}
		}
	})
	return genome, found
}

//Insert adds a (genome, id) pair. Without override it refuses to remap
//an id to a different genome or a genome to a different id.
func (A *Archive) Insert(id, genome string, override bool) error {
	genome = strings.Join(strings.Fields(genome), " ")
	A.mu.Lock()
	defer A.mu.Unlock()
	if have, ok := A.byGenome[genome]; ok && have != id && !override {
		return fmt.Errorf("Insert: genome already maps to %q, refusing to remap to %q", have, id)
	}
	if have, ok := A.byID.Get(id); ok && have.(string) != genome && !override {
		return fmt.Errorf("Insert: id %q already maps to a different genome", id)
	}
	//drop a stale reverse entry when overriding
	if old, ok := A.byGenome[genome]; ok && old != id {
		A.byID.Remove(old)
	}
	A.byGenome[genome] = id
	A.byID.Put(id, genome)
	return nil
}

//Remove deletes an entry by identifier.
func (A *Archive) Remove(id string) bool {
	A.mu.Lock()
	defer A.mu.Unlock()
	g, ok := A.byID.Get(id)
	if !ok {
		return false
	}
	A.byID.Remove(id)
	delete(A.byGenome, g.(string))
	return true
}

//Merge folds other into A. When both archives hold the same genome
//under different identifiers, the identifiers are concatenated with
//", " to form the alias list.
func (A *Archive) Merge(other *Archive) {
	other.mu.RLock()
	pairs := make([][2]string, 0, len(other.byGenome))
	for g, id := range other.byGenome {
		pairs = append(pairs, [2]string{g, id})
	}
	other.mu.RUnlock()
	A.mu.Lock()
	defer A.mu.Unlock()
	for _, p := range pairs {
		genome, id := p[0], p[1]
		if have, ok := A.byGenome[genome]; ok {
			if have == id || aliasContains(have, id) {
				continue
			}
			merged := have + ", " + id
			A.byID.Remove(have)
			A.byGenome[genome] = merged
			A.byID.Put(merged, genome)
			continue
		}
		A.byGenome[genome] = id
		A.byID.Put(id, genome)
	}
}

func aliasContains(list, id string) bool {
	for _, a := range strings.Split(list, ",") {
		if strings.TrimSpace(a) == id {
			return true
		}
	}
	return false
}

//Each calls fn for every (genome, id) entry, ordered by identifier.
func (A *Archive) Each(fn func(genome, id string)) {
	A.mu.RLock()
	defer A.mu.RUnlock()
	A.byID.Each(func(key, value interface{}) {
		fn(value.(string), key.(string))
	})
}

//ParseArchive reads the textual archive format: records of a "key"
//line holding the genome followed by an "id" line holding the
//identifier, with blank and #-comment lines ignored. The returned
//archive remembers whether the format stamp was present; stampless
//archives must be passed through Recanonicalize before use.
func ParseArchive(r io.Reader) (*Archive, error) {
	ret := NewArchive()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	pendingKey := ""
	havePending := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if lineNo == 1 && strings.HasPrefix(line, archiveStampPrefix) {
			ret.stamped = true
			continue
		}
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "key "):
			if havePending {
				return nil, errors.Wrapf(ErrArchiveFormat, "line %d: key without id", lineNo)
			}
			pendingKey = strings.Join(strings.Fields(line[4:]), " ")
			if pendingKey == "" {
				return nil, errors.Wrapf(ErrArchiveFormat, "line %d: empty key", lineNo)
			}
			havePending = true
		case strings.HasPrefix(line, "id "):
			if !havePending {
				return nil, errors.Wrapf(ErrArchiveFormat, "line %d: id without key", lineNo)
			}
			id := strings.TrimSpace(line[3:])
			if id == "" {
				return nil, errors.Wrapf(ErrArchiveFormat, "line %d: empty id", lineNo)
			}
			if err := ret.Insert(id, pendingKey, false); err != nil {
				return nil, errors.Wrapf(ErrArchiveFormat, "line %d: %v", lineNo, err)
			}
			havePending = false
		default:
			return nil, errors.Wrapf(ErrArchiveFormat, "line %d: unexpected %q", lineNo, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(ErrArchiveFormat, err.Error())
	}
	if havePending {
		return nil, errors.Wrap(ErrArchiveFormat, "trailing key without id")
	}
	return ret, nil
}

//Recanonicalize re-keys every entry through this implementation's own
//canonicalization. Needed for external archives, whose keys follow
//someone else's convention.
func (A *Archive) Recanonicalize(ctx context.Context) error {
	A.mu.Lock()
	defer A.mu.Unlock()
	rekeyed := make(map[string]string, len(A.byGenome))
	for genome, id := range A.byGenome {
		g, err := ParseGenome(genome)
		if err != nil {
			return errors.Wrapf(ErrArchiveFormat, "entry %q: %v", id, err)
		}
		canon, err := Canonicalize(ctx, g)
		if err != nil {
			return errors.Wrapf(ErrArchiveFormat, "entry %q: %v", id, err)
		}
		rekeyed[canon.Genome] = id
	}
	A.byGenome = rekeyed
	A.byID.Clear()
	for g, id := range rekeyed {
		A.byID.Put(id, g)
	}
	A.stamped = true
	return nil
}

//Write serializes the archive, stamped, entries ordered by identifier
//so that equal archives produce identical bytes.
func (A *Archive) Write(w io.Writer) error {
	A.mu.RLock()
	defer A.mu.RUnlock()
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s%s\n", archiveStampPrefix, Version)
	var werr error
	A.byID.Each(func(key, value interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, "key %s\nid %s\n", value.(string), key.(string))
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}

//openMaybeCompressed opens a file, transparently decompressing .zst and
//.gz by extension. The returned closer releases both layers.
func openMaybeCompressed(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return zr, func() error { zr.Close(); return f.Close() }, nil
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return zr, func() error { zr.Close(); return f.Close() }, nil
	default:
		return f, f.Close, nil
	}
}

//LoadArchive reads an archive file (optionally compressed), and brings
//external archives onto this implementation's key convention.
func LoadArchive(ctx context.Context, path string) (*Archive, error) {
	r, closer, err := openMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer closer()
	a, err := ParseArchive(r)
	if err != nil {
		return nil, err
	}
	if !a.stamped {
		if err := a.Recanonicalize(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

//go:embed archives/known.arc
var knownArchive string

var (
	defaultArchiveOnce sync.Once
	defaultArchive     *Archive
	defaultArchiveErr  error
)

//DefaultArchive returns the built-in archive of reference nets. The
//embedded file is deliberately stampless, so its keys are produced by
//this very implementation at first use; the shipped genome strings only
//have to describe the right quotient graph. The handle is shared and
//read-mostly.
func DefaultArchive(ctx context.Context) (*Archive, error) {
	defaultArchiveOnce.Do(func() {
		a, err := ParseArchive(strings.NewReader(knownArchive))
		if err != nil {
			defaultArchiveErr = err
			return
		}
		if err := a.Recanonicalize(ctx); err != nil {
			defaultArchiveErr = err
			return
		}
		defaultArchive = a
	})
	return defaultArchive, defaultArchiveErr
}
