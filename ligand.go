/*
 * ligand.go, part of idock.
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
	"path/filepath"
	"strconv"
	"strings"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

// Frame is one rigid fragment of a ligand: the ROOT or a BRANCH. After
// assembly every stored atom coordinate is relative to the frame origin,
// which is the frame's first heavy atom (the rotor-Y atom), so that atom
// itself sits at (0,0,0).
type Frame struct {
	Parent       int  // index of the parent frame; ROOT points at itself
	RotorXSerial int  // serial of the parent-side atom of the rotatable bond
	RotorYSerial int  // serial of this frame's first heavy atom
	RotorXIdx    int  // index of the rotor-X atom inside the parent frame
	Active       bool // false iff rotating this frame changes nothing observable

	HeavyAtoms []Atom
	Hydrogens  []Atom
	Serials    []int // heavy atom serials, parallel to HeavyAtoms

	RelativeOrigin v3.Vec // parent origin -> this origin, in the reference pose
	RelativeAxis   v3.Vec // unit rotor-X -> rotor-Y, in the reference pose
}

// pair14 is a 1-4 interacting heavy atom pair: two atoms of different
// frames separated by more than three covalent bonds.
type pair14 struct {
	k1, i1 int
	k2, i2 int
	offset int // base offset of the XS type pair in the scoring table
}

// Ligand is a parsed, assembled ligand ready for conformational search.
type Ligand struct {
	Stem  string   // file stem, used for output and log naming
	Lines []string // input PDBQT lines that will round-trip into output models

	Frames            []*Frame
	NumFrames         int
	NumTorsions       int
	NumActiveTorsions int
	NumHeavyAtoms     int
	NumHydrogens      int

	// FlexibilityPenalty is the factor in (0, 1] that down-weights the raw
	// energy of a flexible ligand at final ranking.
	FlexibilityPenalty float64

	pairs   []pair14
	xsTypes []XSType
	origin0 v3.Vec // absolute position of the ROOT origin in the input pose
}

// ParseLigand reads and assembles a ligand PDBQT file (.pdbqt or
// .pdbqt.gz).
func ParseLigand(path string) (*Ligand, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stem := filepath.Base(path)
	stem = strings.TrimSuffix(stem, ".gz")
	stem = strings.TrimSuffix(stem, ".pdbqt")
	return ParseLigandReader(stem, f)
}

// parseAtomLine extracts serial, coordinates and AD type from a fixed-width
// ATOM/HETATM record.
func parseAtomLine(file string, lineNo int, line string) (int, v3.Vec, ADType, *ParseError) {
	fail := func(reason string) (int, v3.Vec, ADType, *ParseError) {
		return 0, v3.Zero, 0, &ParseError{File: file, Line: lineNo, Reason: reason}
	}
	if len(line) < 78 {
		return fail("Atom record is too short")
	}
	serial, err := strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return fail("Malformed atom serial number")
	}
	var coord v3.Vec
	for i, span := range [3][2]int{{30, 38}, {38, 46}, {46, 54}} {
		coord[i], err = strconv.ParseFloat(strings.TrimSpace(line[span[0]:span[1]]), 64)
		if err != nil {
			return fail("Malformed atom coordinate")
		}
	}
	end := 79
	if len(line) < end {
		end = len(line)
	}
	typ := strings.TrimSpace(line[77:end])
	ad, ok := ParseADType(typ)
	if !ok {
		return fail("Atom type " + typ + " is not supported")
	}
	return serial, coord, ad, nil
}

// ParseLigandReader parses a ligand from r. The name is used for error
// reporting and output naming.
func ParseLigandReader(name string, r io.Reader) (*Ligand, error) {
	lig := &Ligand{Stem: name}
	root := &Frame{Parent: 0, Active: true}
	lig.Frames = []*Frame{root}

	current := 0
	f := root
	numLines := 0

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := scan.Text()
		numLines++
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			lig.Lines = append(lig.Lines, line)
			serial, coord, ad, perr := parseAtomLine(name, numLines, line)
			if perr != nil {
				return nil, perr
			}
			a := newAtom(serial, coord, ad)
			if a.IsHydrogen() {
				f.Hydrogens = append(f.Hydrogens, a)
				// A polar hydrogen turns its bonded hetero atom into a
				// hydrogen bond donor. Scan backwards: the bonded atom is
				// almost always the one just parsed.
				if ad == adHD {
					for i := len(f.HeavyAtoms); i > 0; {
						b := &f.HeavyAtoms[i-1]
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
			} else {
				f.HeavyAtoms = append(f.HeavyAtoms, a)
				f.Serials = append(f.Serials, serial)
				lig.NumHeavyAtoms++
			}
		case strings.HasPrefix(line, "BRANCH"):
			lig.Lines = append(lig.Lines, line)
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, &ParseError{File: name, Line: numLines, Reason: "Malformed BRANCH record"}
			}
			x, err1 := strconv.Atoi(fields[1])
			y, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return nil, &ParseError{File: name, Line: numLines, Reason: "Malformed BRANCH record"}
			}
			rotorXIdx := -1
			for i, s := range f.Serials {
				if s == x {
					rotorXIdx = i
					break
				}
			}
			if rotorXIdx < 0 {
				return nil, &ParseError{File: name, Line: numLines, Reason: "BRANCH rotor X atom not found in the current frame"}
			}
			lig.Frames = append(lig.Frames, &Frame{
				Parent:       current,
				RotorXSerial: x,
				RotorYSerial: y,
				RotorXIdx:    rotorXIdx,
				Active:       true,
			})
			current = len(lig.Frames) - 1
			f = lig.Frames[current]
		case strings.HasPrefix(line, "ENDBRANCH"):
			lig.Lines = append(lig.Lines, line)
			if len(f.HeavyAtoms) == 0 {
				return nil, &ParseError{File: name, Line: numLines, Reason: "An empty BRANCH has been detected; the ligand structure is probably invalid"}
			}
			// A leaf frame of rotor Y plus hydrogens only (-OH, -NH2, a
			// lone halogen) contributes no observable torsion.
			if current == len(lig.Frames)-1 && len(f.HeavyAtoms) == 1 {
				f.Active = false
			} else {
				lig.NumActiveTorsions++
			}
			current = f.Parent
			f = lig.Frames[current]
		case strings.HasPrefix(line, "ROOT") || strings.HasPrefix(line, "ENDROOT") || strings.HasPrefix(line, "TORSDOF"):
			lig.Lines = append(lig.Lines, line)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, &ParseError{File: name, Line: numLines, Reason: err.Error()}
	}
	if current != 0 {
		return nil, &ParseError{File: name, Line: numLines, Reason: "Unmatched BRANCH record"}
	}
	if len(root.HeavyAtoms) == 0 {
		return nil, &ParseError{File: name, Line: numLines, Reason: "No heavy atom in ROOT"}
	}

	lig.assemble()
	return lig, nil
}

// frameAtom addresses a heavy atom by frame and in-frame index.
type frameAtom struct {
	k, i int
}

// assemble derives everything the evaluator needs from the parsed frames:
// counts, carbon depolarization, relative frame geometry, the 1-4 pair
// list, and frame-relative atom coordinates.
func (lig *Ligand) assemble() {
	lig.NumFrames = len(lig.Frames)
	lig.NumTorsions = lig.NumFrames - 1
	lig.FlexibilityPenalty = 1 / (1 + 0.05846*(float64(lig.NumActiveTorsions)+
		0.5*float64(lig.NumTorsions-lig.NumActiveTorsions)))
	for _, f := range lig.Frames {
		lig.NumHydrogens += len(f.Hydrogens)
	}
	lig.origin0 = lig.Frames[0].HeavyAtoms[0].Coord

	// Carbons bonded to a hetero atom, within a frame or across a rotor
	// bond, lose their hydrophobic typing.
	for k, f := range lig.Frames {
		for i := range f.HeavyAtoms {
			a := &f.HeavyAtoms[i]
			if !a.IsHetero() {
				continue
			}
			for j := range f.HeavyAtoms {
				b := &f.HeavyAtoms[j]
				if b.IsHetero() {
					continue
				}
				if a.IsNeighbor(b) {
					b.Dehydrophobicize()
				}
			}
		}
		if k > 0 {
			rotorY := &f.HeavyAtoms[0]
			rotorX := &lig.Frames[f.Parent].HeavyAtoms[f.RotorXIdx]
			if rotorY.IsHetero() && !rotorX.IsHetero() {
				rotorX.Dehydrophobicize()
			}
			if rotorX.IsHetero() && !rotorY.IsHetero() {
				rotorY.Dehydrophobicize()
			}
		}
	}

	// Relative frame geometry, from the reference (input) pose.
	for k := 1; k < lig.NumFrames; k++ {
		f := lig.Frames[k]
		pf := lig.Frames[f.Parent]
		origin := f.HeavyAtoms[0].Coord
		f.RelativeOrigin = origin.Sub(pf.HeavyAtoms[0].Coord)
		f.RelativeAxis = origin.Sub(pf.HeavyAtoms[f.RotorXIdx].Coord).Normalize()
	}

	// The heavy atom bond table: bonds within a frame plus the rotor-X to
	// rotor-Y bond across each rotatable bond.
	bonds := make([][][]frameAtom, lig.NumFrames)
	for k, f := range lig.Frames {
		bonds[k] = make([][]frameAtom, len(f.HeavyAtoms))
		for i := range f.HeavyAtoms {
			a1 := &f.HeavyAtoms[i]
			for j := i + 1; j < len(f.HeavyAtoms); j++ {
				if a1.IsNeighbor(&f.HeavyAtoms[j]) {
					bonds[k][i] = append(bonds[k][i], frameAtom{k, j})
					bonds[k][j] = append(bonds[k][j], frameAtom{k, i})
				}
			}
		}
	}
	for k := 1; k < lig.NumFrames; k++ {
		f := lig.Frames[k]
		bonds[k][0] = append(bonds[k][0], frameAtom{f.Parent, f.RotorXIdx})
		bonds[f.Parent][f.RotorXIdx] = append(bonds[f.Parent][f.RotorXIdx], frameAtom{k, 0})
	}

	// Enumerate 1-4 pairs: for each heavy atom collect the neighbors
	// within three consecutive bonds, then pair it with every later-frame
	// atom outside that set and outside the rotor pair exclusions.
	var neighbors []frameAtom
	seen := func(fa frameAtom) bool {
		for _, n := range neighbors {
			if n == fa {
				return true
			}
		}
		return false
	}
	for k1 := 0; k1 < lig.NumFrames; k1++ {
		f1 := lig.Frames[k1]
		for i := range f1.HeavyAtoms {
			for _, b1 := range bonds[k1][i] {
				if !seen(b1) {
					neighbors = append(neighbors, b1)
				}
				for _, b2 := range bonds[b1.k][b1.i] {
					if !seen(b2) {
						neighbors = append(neighbors, b2)
					}
					for _, b3 := range bonds[b2.k][b2.i] {
						if !seen(b3) {
							neighbors = append(neighbors, b3)
						}
					}
				}
			}
			for k2 := k1 + 1; k2 < lig.NumFrames; k2++ {
				f2 := lig.Frames[k2]
				for j := range f2.HeavyAtoms {
					if k1 == f2.Parent && (j == 0 || i == f2.RotorXIdx) {
						continue
					}
					if seen(frameAtom{k2, j}) {
						continue
					}
					lig.pairs = append(lig.pairs, pair14{
						k1: k1, i1: i, k2: k2, i2: j,
						offset: permissiveIndex(f1.HeavyAtoms[i].XS, f2.HeavyAtoms[j].XS) * scoringSamples,
					})
				}
			}
			neighbors = neighbors[:0]
		}
	}

	// Rebase atom coordinates onto their frame origin.
	for _, f := range lig.Frames {
		origin := f.HeavyAtoms[0].Coord
		for i := range f.HeavyAtoms {
			f.HeavyAtoms[i].Coord = f.HeavyAtoms[i].Coord.Sub(origin)
		}
		for i := range f.Hydrogens {
			f.Hydrogens[i].Coord = f.Hydrogens[i].Coord.Sub(origin)
		}
	}

	// Distinct XS types, for grid map bookkeeping.
	var present [NumXSTypes]bool
	for _, f := range lig.Frames {
		for i := range f.HeavyAtoms {
			present[f.HeavyAtoms[i].XS] = true
		}
	}
	for t := XSType(0); t < NumXSTypes; t++ {
		if present[t] {
			lig.xsTypes = append(lig.xsTypes, t)
		}
	}
}

// AtomTypes returns the distinct XS types of the ligand's heavy atoms, in
// ascending order.
func (lig *Ligand) AtomTypes() []XSType {
	return lig.xsTypes
}

// InitialConformation returns the kinematic state reproducing the input
// pose: the ROOT origin at its input position, identity orientation, and
// all torsions at zero.
func (lig *Ligand) InitialConformation() *Conformation {
	return &Conformation{
		Position:    lig.origin0,
		Orientation: v3.QuatIdentity,
		Torsions:    make([]float64, lig.NumActiveTorsions),
	}
}
