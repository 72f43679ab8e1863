/*
 * output.go, part of idock.
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
	"strings"

	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

// WriteModels dumps the given poses as MODEL blocks in PDBQT format, best
// first. Atom records get their coordinate columns rewritten in place;
// every other column and every structural record round-trips from the
// input untouched.
func WriteModels(path string, lig *Ligand, results []*Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := writeModels(w, lig, results); err != nil {
		return err
	}
	return w.Flush()
}

func writeModels(w *bufio.Writer, lig *Ligand, results []*Result) error {
	for i, r := range results {
		fmt.Fprintf(w, "MODEL     %4d\n", i+1)
		fmt.Fprintf(w, "REMARK     FREE ENERGY PREDICTED BY IDOCK:%8.2f KCAL/MOL\n", r.E)
		frame, heavy, hydrogen := 0, 0, 0
		for _, line := range lig.Lines {
			if strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM") {
				var c v3.Vec
				if len(line) > 77 && line[77] == 'H' {
					c = r.Hydrogens[frame][hydrogen]
					hydrogen++
				} else {
					c = r.HeavyAtoms[frame][heavy]
					heavy++
				}
				fmt.Fprintf(w, "%s%8.3f%8.3f%8.3f%s\n", line[:30], c[0], c[1], c[2], line[54:])
			} else {
				fmt.Fprintln(w, line)
				if strings.HasPrefix(line, "BRANCH") {
					frame++
					heavy = 0
					hydrogen = 0
				}
			}
		}
		if _, err := fmt.Fprintln(w, "ENDMDL"); err != nil {
			return err
		}
	}
	return nil
}
