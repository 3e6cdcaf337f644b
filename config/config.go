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

// Package config loads a darcyflow.Config plus the run-level file paths
// (project NetCDF inputs, state checkpoint, interval bounds) from a TOML
// project file, with environment-variable overrides layered on top via
// viper, matching the layered file+env approach of the teacher's
// inmaputil/cmd.go Cfg wrapper, simplified to the flat-file style of
// inmap/cmd/config.go since this solver has no subcommand tree of its
// own flags to merge in.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/spatialmodel/darcyflow"
)

// RunConfig is the full contents of a darcyflow project file: the
// solver's behavioural knobs plus the paths and interval bounds needed
// to actually run a solve.
type RunConfig struct {
	Solver darcyflow.Config

	// FormationsFile is the path to the TOML project-model file
	// describing the formation stack's static geometry and
	// lithology/fluid models (see project.LoadProjectDescription).
	FormationsFile string

	// ProjectFile is the path to the NetCDF file holding formation
	// snapshot endpoints.
	ProjectFile string

	// StateFile is the path to a gob checkpoint of persisted per-element
	// state; empty means start cold.
	StateFile string

	// OutputStateFile is where the post-solve checkpoint is written;
	// empty means don't save.
	OutputStateFile string

	// IntervalStartMa, IntervalEndMa bound the geological-age interval
	// to solve over (Ma, decreasing forward in time).
	IntervalStartMa float64
	IntervalEndMa   float64
}

// envPrefix is the environment-variable namespace viper overlays onto
// the decoded file, e.g. DARCYFLOW_INTERVALENDMA.
const envPrefix = "DARCYFLOW"

// Read decodes path as TOML into a RunConfig seeded with
// darcyflow.DefaultConfig, then overlays any DARCYFLOW_* environment
// variables set for its file-path fields (FormationsFile, ProjectFile,
// StateFile, OutputStateFile) and interval bounds (IntervalStartMa,
// IntervalEndMa). The Solver knobs are not overlaid from the
// environment.
func Read(path string) (*RunConfig, error) {
	cfg := RunConfig{Solver: darcyflow.DefaultConfig()}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"formationsfile", "projectfile", "statefile", "outputstatefile"} {
		v.BindEnv(key)
		if s := v.GetString(key); s != "" {
			switch key {
			case "formationsfile":
				cfg.FormationsFile = s
			case "projectfile":
				cfg.ProjectFile = s
			case "statefile":
				cfg.StateFile = s
			case "outputstatefile":
				cfg.OutputStateFile = s
			}
		}
	}
	for _, key := range []string{"intervalstartma", "intervalendma"} {
		v.BindEnv(key)
		if v.IsSet(key) {
			switch key {
			case "intervalstartma":
				cfg.IntervalStartMa = v.GetFloat64(key)
			case "intervalendma":
				cfg.IntervalEndMa = v.GetFloat64(key)
			}
		}
	}

	return &cfg, nil
}
