/*
Copyright © 2026 the darcyflow authors.
This file is part of darcyflow.

darcyflow is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

darcyflow is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with darcyflow.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package project implements loading of geological-snapshot endpoint
// data from NetCDF-formatted project files, and saving/loading the
// solver's persisted per-element state between runs. Grounded on the
// teacher's sr/srreader.go (cdf.Reader wrapping a named-variable NetCDF
// file) and save.go (gob-encoded persisted-state checkpoints).
package project

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"

	"github.com/spatialmodel/darcyflow"
	"github.com/spatialmodel/darcyflow/pvt"
)

// SnapshotReader wraps a NetCDF project file holding one formation's
// endpoint field set, following the naming convention
// "<prefix>PorePressure", "<prefix>Temperature", "<prefix>VES",
// "<prefix>MaxVES", "<prefix>Depth", and optionally
// "<prefix>ChemicalCompaction", each a length-nElements 1D variable.
type SnapshotReader struct {
	file *cdf.File
}

// OpenSnapshotReader reads the NetCDF header from rw and returns a
// reader ready to load named snapshot variables.
func OpenSnapshotReader(rw cdf.ReaderWriterAt) (*SnapshotReader, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("project: opening snapshot file: %w", err)
	}
	return &SnapshotReader{file: f}, nil
}

// readFullVar64 reads an entire 1D float64 variable, matching the
// teacher's identically named helper in sr/srreader.go.
func (r *SnapshotReader) readFullVar64(name string) ([]float64, error) {
	rd := r.file.Reader(name, nil, nil)
	buf := rd.Zero(-1)
	if _, err := rd.Read(buf); err != nil {
		return nil, fmt.Errorf("project: reading variable %q: %w", name, err)
	}
	return buf.([]float64), nil
}

// hasVariable reports whether the underlying file defines name.
func (r *SnapshotReader) hasVariable(name string) bool {
	for _, v := range r.file.Header.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

// ReadSnapshot loads one formation's endpoint Snapshot at ageMa from the
// variables named with the given prefix, per spec.md §6's project file
// layout.
func (r *SnapshotReader) ReadSnapshot(prefix string, ageMa float64) (darcyflow.Snapshot, error) {
	var snap darcyflow.Snapshot
	snap.AgeMa = ageMa

	fields := []struct {
		name string
		dst  *[]float64
	}{
		{prefix + "PorePressure", &snap.PorePressureMPa},
		{prefix + "Temperature", &snap.TemperatureC},
		{prefix + "VES", &snap.VESPa},
		{prefix + "MaxVES", &snap.MaxVESPa},
		{prefix + "Depth", &snap.DepthM},
	}
	for _, fld := range fields {
		v, err := r.readFullVar64(fld.name)
		if err != nil {
			return darcyflow.Snapshot{}, err
		}
		*fld.dst = v
	}

	compactionName := prefix + "ChemicalCompaction"
	if r.hasVariable(compactionName) {
		v, err := r.readFullVar64(compactionName)
		if err != nil {
			return darcyflow.Snapshot{}, err
		}
		snap.ChemicalCompaction = v
	}

	return snap, nil
}

// LoadSnapshots opens path as a NetCDF project file and reads each of
// formations' Start (at startAgeMa) and End (at endAgeMa) snapshot,
// using the formation's Name as the SnapshotReader variable prefix.
// Matches the darcysolve CLI's expectation that ProjectFile holds one
// set of named variables per formation, keyed by name.
func LoadSnapshots(path string, formations []*darcyflow.Formation, startAgeMa, endAgeMa float64) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("project: opening snapshot file: %w", err)
	}
	defer file.Close()

	r, err := OpenSnapshotReader(file)
	if err != nil {
		return err
	}
	for _, f := range formations {
		start, err := r.ReadSnapshot(f.Name, startAgeMa)
		if err != nil {
			return fmt.Errorf("project: reading start snapshot for formation %q: %w", f.Name, err)
		}
		end, err := r.ReadSnapshot(f.Name, endAgeMa)
		if err != nil {
			return fmt.Errorf("project: reading end snapshot for formation %q: %w", f.Name, err)
		}
		f.Start = start
		f.End = end
	}
	return nil
}

// persistedState is the gob-serialisable subset of Formation: the
// per-element arrays the solver carries across runs. Lithology, Fluid,
// and Grid are reconstructed from the project's static description file
// on load (they hold function- and interface-valued fields gob cannot
// round-trip), matching the teacher's save.go split between gob-encoded
// Cells and separately-supplied VarGridConfig/Emissions on Load.
type persistedState struct {
	FormationName         string
	PreviousComponent     []pvt.Composition
	PhaseSaturation       []pvt.Saturation
	TransportedMasses     []float64
	TimeOfElementInvasion []float64
	KValuesCache          []pvt.KValues
}

// SaveState writes the persisted per-element state of every formation in
// order to w, for resuming a solve across process restarts.
func SaveState(w io.Writer, formations []*darcyflow.Formation) error {
	enc := gob.NewEncoder(w)
	for _, f := range formations {
		ps := persistedState{
			FormationName:         f.Name,
			PreviousComponent:     f.PreviousComponent,
			PhaseSaturation:       f.PhaseSaturation,
			TransportedMasses:     f.TransportedMasses,
			TimeOfElementInvasion: f.TimeOfElementInvasion,
			KValuesCache:          f.KValuesCache,
		}
		if err := enc.Encode(ps); err != nil {
			return fmt.Errorf("project: saving formation %q: %w", f.Name, err)
		}
	}
	return nil
}

// LoadState reads persisted per-element state from r and applies it to
// the matching formation (by name) in formations. Formations present in
// r but not in formations are skipped; the caller is responsible for
// constructing formations with the correct grid/lithology beforehand.
func LoadState(r io.Reader, formations []*darcyflow.Formation) error {
	byName := make(map[string]*darcyflow.Formation, len(formations))
	for _, f := range formations {
		byName[f.Name] = f
	}
	dec := gob.NewDecoder(r)
	for {
		var ps persistedState
		if err := dec.Decode(&ps); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("project: loading state: %w", err)
		}
		f, ok := byName[ps.FormationName]
		if !ok {
			continue
		}
		f.PreviousComponent = ps.PreviousComponent
		f.PhaseSaturation = ps.PhaseSaturation
		f.TransportedMasses = ps.TransportedMasses
		f.TimeOfElementInvasion = ps.TimeOfElementInvasion
		f.KValuesCache = ps.KValuesCache
	}
}
