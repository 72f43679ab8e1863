/*
 * doc.go, part of idock.
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

/*
Package dock is a virtual screening engine for molecular docking. Given a
rigid receptor and a library of flexible small-molecule ligands in PDBQT
format, it predicts binding poses and free energies: each ligand is modeled
as a tree of rigid frames joined by rotatable bonds, scored against
precomputed per-atom-type receptor grid maps plus an intra-ligand pair
potential, and searched by many independent Monte Carlo tasks, each
refining its poses with a BFGS local optimizer.

The cmd/idock binary wires the engine to a command line; the library can
equally be driven programmatically through ParseReceptor, ParseLigand and
DockLigand.
*/
package dock
