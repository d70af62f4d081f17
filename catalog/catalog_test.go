/*
 * catalog_test.go, part of gonets.
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

package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	nets "github.com/rmera/gonets"
)

func TestCatalogPutLookup(t *testing.T) {
	c, err := OpenInMemory()
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Put("3 2 1 2 0 0 0", "dia"))
	id, ok, err := c.Lookup("3 2 1 2 0 0 0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dia", id)

	_, ok, err = c.Lookup("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCatalogImportArchive(t *testing.T) {
	a := nets.NewArchive()
	require.NoError(t, a.Insert("dia", "3 2 1 2 0 0 0 1 2 0 0 1 1 2 0 1 0 1 2 1 0 0", false))
	require.NoError(t, a.Insert("pcu", "3 1 1 1 0 0 1 1 1 0 1 0 1 1 1 0 0", false))

	c, err := OpenInMemory()
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.ImportArchive(a))

	count := 0
	require.NoError(t, c.Each(func(genome, id string) error {
		count++
		want, ok := a.Lookup(genome)
		require.True(t, ok)
		require.Equal(t, want, id)
		return nil
	}))
	require.Equal(t, 2, count)
}

func TestCatalogPersists(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir, false)
	require.NoError(t, err)
	require.NoError(t, c.Put("2 1 1 1 0 1 1 1 1 0", "sql"))
	require.NoError(t, c.Close())

	c2, err := Open(dir, true)
	require.NoError(t, err)
	defer c2.Close()
	id, ok, err := c2.Lookup("2 1 1 1 0 1 1 1 1 0")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sql", id)
}
