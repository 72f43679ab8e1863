/*
 * screen.go, part of idock.
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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SearchParams controls one ligand's conformational search.
type SearchParams struct {
	Seed             uint64
	NumTasks         int  // independent Monte Carlo tasks per ligand
	NumGenerations   int  // BFGS iterations per local optimization
	MaxConformations int  // poses retained and written per ligand
	ClashCheck       bool // see Workspace.ClashCheck
}

// DefaultSearchParams returns the stock search configuration.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		NumTasks:         256,
		NumGenerations:   300,
		MaxConformations: 9,
	}
}

// ScreenParams extends SearchParams with per-screen IO and the optional
// affinity rescorer. A nil Rescore reports the scoring function's own
// energies.
type ScreenParams struct {
	SearchParams
	OutputFolder string
	Rescore      func(*Result) float64
}

// LogRecord is one ligand's row of the final ranking.
type LogRecord struct {
	Stem     string
	Energies []float64
}

// LogRecords collects per-ligand rows; ordering across ligands is by
// completion until Sort is called.
type LogRecords []*LogRecord

// Sort orders the records ascending by best predicted affinity. Ligands
// without any pose sink to the bottom.
func (l LogRecords) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if len(l[i].Energies) == 0 {
			return false
		}
		if len(l[j].Energies) == 0 {
			return true
		}
		return l[i].Energies[0] < l[j].Energies[0]
	})
}

// WriteCSV writes the records to path, one row per ligand: the stem
// followed by the pose energies with two decimals.
func (l LogRecords) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, rec := range l {
		fmt.Fprint(w, rec.Stem)
		for _, e := range rec.Energies {
			fmt.Fprintf(w, ",%.2f", e)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// DockLigand docks one ligand: it makes sure the grid maps for the
// ligand's atom types exist, fans the Monte Carlo tasks out over the pool,
// merges the per-task pose lists in task order, applies the flexibility
// penalty, optionally rescored, and writes the output models.
func DockLigand(lig *Ligand, rec *Receptor, sf *ScoringFunction, pool *Pool, params ScreenParams) (*LogRecord, error) {
	rec.EnsureMaps(lig.AtomTypes(), sf, pool)

	sets := make([]*ResultSet, params.NumTasks)
	var cnt Counter
	cnt.Init(params.NumTasks)
	for i := 0; i < params.NumTasks; i++ {
		i := i
		pool.Post(func() {
			sets[i] = MonteCarlo(lig, rec, sf, params.Seed+uint64(i), params.SearchParams)
			cnt.Increment()
		})
	}
	cnt.Wait()

	// Merging in task order keeps the outcome independent of worker
	// scheduling, so a run is reproducible for a given seed.
	merged := NewResultSet(params.MaxConformations, lig.NumHeavyAtoms)
	for _, s := range sets {
		merged.Merge(s)
	}
	results := merged.Results()

	for _, r := range results {
		r.E *= lig.FlexibilityPenalty
	}

	energies := make([]float64, len(results))
	for i, r := range results {
		if params.Rescore != nil {
			energies[i] = params.Rescore(r)
		} else {
			energies[i] = r.E
		}
	}

	if params.OutputFolder != "" && len(results) > 0 {
		out := filepath.Join(params.OutputFolder, lig.Stem+".pdbqt")
		if err := WriteModels(out, lig, results); err != nil {
			return nil, err
		}
	}
	return &LogRecord{Stem: lig.Stem, Energies: energies}, nil
}
