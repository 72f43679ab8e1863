/*
 * main_test.go, part of idock.
 *
 * Copyright 2024 Anna Nguyen <annanguyen99{at}gmailDOTcom>
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
 */

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptionsFromFlags(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--receptor", "rec.pdbqt",
		"--input_folder", "ligands",
		"--center_x", "1.5", "--center_y", "-2", "--center_z", "3",
		"--size_x", "20", "--size_y", "20", "--size_z", "20",
		"--seed", "7",
		"--tasks", "64",
	}))
	opts := &options{}
	require.NoError(t, loadOptions(cmd, opts))
	assert.Equal(t, "rec.pdbqt", opts.receptor)
	assert.Equal(t, "ligands", opts.inputFolder)
	assert.Equal(t, [3]float64{1.5, -2, 3}, opts.center)
	assert.Equal(t, uint64(7), opts.seed)
	assert.Equal(t, 64, opts.tasks)
	assert.Equal(t, 300, opts.generations)
	assert.Equal(t, 9, opts.maxConformations)
	assert.Equal(t, "output", opts.outputFolder)
	assert.Equal(t, "log.csv", opts.logPath)
}

func TestLoadOptionsMissingRequired(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--receptor", "rec.pdbqt"}))
	err := loadOptions(cmd, &options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required option")
}

func TestLoadOptionsFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "dock.conf")
	require.NoError(t, os.WriteFile(cfg, []byte(`receptor = rec.pdbqt
input_folder = ligands
center_x = 0
center_y = 0
center_z = 0
size_x = 18
size_y = 18
size_z = 18
granularity = 0.25
`), 0o644))

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfg, "--size_x", "22"}))
	opts := &options{}
	require.NoError(t, loadOptions(cmd, opts))
	assert.Equal(t, "rec.pdbqt", opts.receptor)
	assert.Equal(t, 0.25, opts.granularity)
	// An explicit flag wins over the configuration file.
	assert.Equal(t, 22.0, opts.size[0])
	assert.Equal(t, 18.0, opts.size[1])
}

func TestListLigands(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdbqt", "a.pdbqt", "c.pdbqt.gz", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	paths, err := listLigands(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "a.pdbqt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "b.pdbqt"), paths[1])
	assert.Equal(t, filepath.Join(dir, "c.pdbqt.gz"), paths[2])
}
