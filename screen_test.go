/*
 * screen_test.go, part of idock.
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

package dock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

func TestFlexibilityPenaltyTwoTorsions(t *testing.T) {
	lig := parseLines(t, "twobranch",
		"ROOT",
		atomLine("ATOM", 1, "C1", 0, 0, 0, "C"),
		atomLine("ATOM", 2, "C2", 1.5, 0, 0, "C"),
		"ENDROOT",
		"BRANCH   1   3",
		atomLine("ATOM", 3, "C3", -1.5, 0, 0, "C"),
		atomLine("ATOM", 4, "C4", -2.0, 1.2, 0, "C"),
		"ENDBRANCH   1   3",
		"BRANCH   2   5",
		atomLine("ATOM", 5, "C5", 3.0, 0, 0, "C"),
		atomLine("ATOM", 6, "C6", 3.5, 1.2, 0, "C"),
		"ENDBRANCH   2   5",
		"TORSDOF 2",
	)
	require.Equal(t, 2, lig.NumActiveTorsions)
	assert.InDelta(t, 1/(1+0.05846*2), lig.FlexibilityPenalty, 1e-9)
	assert.InDelta(t, 0.8953, lig.FlexibilityPenalty, 5e-4)
}

// TestDockLigandDeterministicAcrossThreadCounts is the reproducibility
// contract: same seed and inputs give identical rows no matter how many
// workers execute the tasks.
func TestDockLigandDeterministicAcrossThreadCounts(t *testing.T) {
	sfPool := newTestPool(t, 2)
	sf := NewScoringFunction(sfPool)
	box := NewBox(v3.Zero, v3.Vec{6, 6, 6}, DefaultGranularity)

	run := func(threads int) []float64 {
		pool := NewPool(threads)
		defer pool.Close()
		lig := branchedLigand(t)
		rec, err := parseReceptor("rec",
			strings.NewReader(atomLine("ATOM", 1, "C1", 0, 0, 0, "C")), box)
		require.NoError(t, err)

		params := ScreenParams{SearchParams: testSearchParams()}
		params.Seed = 99
		recRow, err := DockLigand(lig, rec, sf, pool, params)
		require.NoError(t, err)
		return recRow.Energies
	}

	one := run(1)
	eight := run(8)
	require.NotEmpty(t, one)
	assert.Equal(t, one, eight)
}

func TestDockLigandAppliesFlexibilityPenalty(t *testing.T) {
	pool := newTestPool(t, 4)
	sf := NewScoringFunction(pool)
	box := NewBox(v3.Vec{3, 0, 0}, v3.Vec{16, 16, 16}, DefaultGranularity)
	lig := bentChainLigand(t)
	rec := emptyReceptor(t, box, sf, pool, lig.AtomTypes())

	params := ScreenParams{SearchParams: testSearchParams()}
	params.Seed = 5
	params.NumTasks = 2
	recRow, err := DockLigand(lig, rec, sf, pool, params)
	require.NoError(t, err)
	require.NotEmpty(t, recRow.Energies)

	// With an empty receptor the energy is pure intra-ligand, and the
	// reported value carries the flexibility penalty. The best reachable
	// raw energy is the pair potential at its optimal torsion, which is
	// negative. This checks that the best reported energy is negative and
	// that the ligand's penalty factor is below one; it does not compare
	// the reported value with a raw energy.
	best := recRow.Energies[0]
	require.Negative(t, best)
	assert.Less(t, lig.FlexibilityPenalty, 1.0)
}

func TestLogRecordsSortAndCSV(t *testing.T) {
	records := LogRecords{
		{Stem: "b", Energies: []float64{}},
		{Stem: "a", Energies: []float64{-7.234, -6.1}},
		{Stem: "c", Energies: []float64{-9.017}},
	}
	records.Sort()
	require.Equal(t, "c", records[0].Stem)
	require.Equal(t, "a", records[1].Stem)
	require.Equal(t, "b", records[2].Stem, "ligands without poses sink to the bottom")

	path := filepath.Join(t.TempDir(), "log.csv")
	require.NoError(t, records.WriteCSV(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "c,-9.02", lines[0])
	assert.Equal(t, "a,-7.23,-6.10", lines[1])
	assert.Equal(t, "b", lines[2])
}
