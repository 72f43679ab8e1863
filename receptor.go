/*
 * receptor.go, part of idock.
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
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

// openInput opens a PDBQT file, decompressing transparently when the name
// ends in .gz.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	z, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &gzFile{z, f}, nil
}

type gzFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzFile) Close() error {
	err := g.Reader.Close()
	if err2 := g.f.Close(); err == nil {
		err = err2
	}
	return err
}

type mapState int

const (
	mapAbsent mapState = iota
	mapPopulating
	mapPopulated
)

// Receptor is the rigid protein: its typed atoms near the search box and
// the lazily populated per-XS-type grid maps. A map slot goes absent ->
// populating -> populated under the receptor mutex; once populated it is
// read-only and lookups take no lock.
type Receptor struct {
	Atoms []Atom
	Box   *Box

	mu    sync.Mutex
	cond  *sync.Cond
	state [NumXSTypes]mapState
	maps  [NumXSTypes][]float64
}

// ParseReceptor reads a receptor PDBQT file and keeps the atoms within the
// scoring cutoff of the search box.
func ParseReceptor(path string, box *Box) (*Receptor, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec, err := parseReceptor(path, f, box)
	if err != nil {
		return nil, errDecorate(err, "ParseReceptor")
	}
	return rec, nil
}

func parseReceptor(name string, r io.Reader, box *Box) (*Receptor, error) {
	rec := &Receptor{Box: box}
	rec.cond = sync.NewCond(&rec.mu)

	atoms := make([]Atom, 0, 5000)
	resStart := 0    // index of the first heavy atom of the current residue
	residue := ""    // chain + resSeq + iCode of the current residue
	numLines := 0

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := scan.Text()
		numLines++
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		serial, coord, ad, perr := parseAtomLine(name, numLines, line)
		if perr != nil {
			return nil, perr
		}
		if res := residueID(line); res != residue {
			residue = res
			resStart = len(atoms)
		}
		a := newAtom(serial, coord, ad)
		if a.IsHydrogen() {
			// A polar hydrogen marks its bonded hetero atom as donor.
			if ad == adHD {
				for i := len(atoms); i > resStart; {
					b := &atoms[i-1]
					i--
					if !b.IsHetero() {
						continue
					}
					if a.IsNeighbor(b) {
						b.Donorize()
						break
					}
				}
			}
			continue // receptor hydrogens are not scored
		}
		// Carbons bonded to a hetero atom of the same residue lose their
		// hydrophobic typing, in either arrival order.
		if a.IsHetero() {
			for i := resStart; i < len(atoms); i++ {
				b := &atoms[i]
				if !b.IsHetero() && a.IsNeighbor(b) {
					b.Dehydrophobicize()
				}
			}
		} else {
			for i := resStart; i < len(atoms); i++ {
				b := &atoms[i]
				if b.IsHetero() && a.IsNeighbor(b) {
					a.Dehydrophobicize()
					break
				}
			}
		}
		atoms = append(atoms, a)
	}
	if err := scan.Err(); err != nil {
		return nil, &ParseError{File: name, Line: numLines, Reason: err.Error()}
	}

	// Only atoms within cutoff of the box can ever contribute to a probe.
	rec.Atoms = make([]Atom, 0, len(atoms))
	for i := range atoms {
		if box.WithinCutoff(atoms[i].Coord) {
			rec.Atoms = append(rec.Atoms, atoms[i])
		}
	}
	return rec, nil
}

// residueID extracts the chain/sequence/insertion columns that identify a
// residue, tolerating short lines.
func residueID(line string) string {
	if len(line) >= 27 {
		return line[21:27]
	}
	return line
}

// Map returns the grid map of XS type t. It must have been populated by
// EnsureMaps first; populated maps are immutable so no locking is needed.
func (r *Receptor) Map(t XSType) []float64 {
	return r.maps[t]
}

// EnsureMaps guarantees that the grid maps for all given XS types are
// populated, computing the missing ones as per-z-slab tasks on the pool.
// Concurrent callers needing only populated maps do not block; callers
// racing on the same absent map wait for the one that claimed it.
func (r *Receptor) EnsureMaps(types []XSType, sf *ScoringFunction, pool *Pool) {
	r.mu.Lock()
	var need []XSType
	for _, t := range types {
		if r.state[t] == mapAbsent {
			r.state[t] = mapPopulating
			r.maps[t] = make([]float64, r.Box.MapSize())
			need = append(need, t)
		}
	}
	r.mu.Unlock()

	if len(need) > 0 {
		var cnt Counter
		cnt.Init(r.Box.NumProbes[2])
		for z := 0; z < r.Box.NumProbes[2]; z++ {
			z := z
			pool.Post(func() {
				r.populateSlab(sf, need, z)
				cnt.Increment()
			})
		}
		cnt.Wait()
		r.mu.Lock()
		for _, t := range need {
			r.state[t] = mapPopulated
		}
		r.cond.Broadcast()
		r.mu.Unlock()
	}

	r.mu.Lock()
	for {
		done := true
		for _, t := range types {
			if r.state[t] != mapPopulated {
				done = false
				break
			}
		}
		if done {
			break
		}
		r.cond.Wait()
	}
	r.mu.Unlock()
}

// populateSlab fills one z layer of every requested map. Receptor atoms
// further than the cutoff from the slab plane cannot reach any of its
// probes and are pruned up front.
func (r *Receptor) populateSlab(sf *ScoringFunction, types []XSType, z int) {
	b := r.Box
	zc := b.Corner1[2] + b.Granularity*float64(z)

	pruned := make([]int, 0, len(r.Atoms))
	for i := range r.Atoms {
		dz := r.Atoms[i].Coord[2] - zc
		if dz*dz < CutoffSqr {
			pruned = append(pruned, i)
		}
	}

	// Base offsets into the scoring table, per pruned atom and probe type.
	offs := make([][]int, len(pruned))
	for pi, ai := range pruned {
		row := make([]int, len(types))
		for ti, t := range types {
			row[ti] = sf.offset(t, r.Atoms[ai].XS)
		}
		offs[pi] = row
	}

	for y := 0; y < b.NumProbes[1]; y++ {
		for x := 0; x < b.NumProbes[0]; x++ {
			p := b.ProbeCoord(x, y, z)
			idx := b.MapIndex(x, y, z)
			for pi, ai := range pruned {
				r2 := v3.DistSqr(p, r.Atoms[ai].Coord)
				if r2 >= CutoffSqr {
					continue
				}
				bin := int(r2 * scoringFactor)
				for ti, t := range types {
					r.maps[t][idx] += sf.e[offs[pi][ti]+bin]
				}
			}
		}
	}
}
