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

// Command darcysolve is a command-line interface for the darcyflow
// basin-modeling Darcy transport solver. Grounded on the teacher's thin
// cmd/inmap/main.go entrypoint delegating to a cobra root command, and
// inmap/cmd/root.go's subcommand-registration style.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/darcyflow"
	"github.com/spatialmodel/darcyflow/config"
	"github.com/spatialmodel/darcyflow/project"
)

// version is set at build time via -ldflags; the zero value prints as
// "dev", matching the teacher's inmap.Version convention.
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "darcysolve",
	Short: "A basin-modeling multi-component Darcy transport solver.",
	Long: `darcysolve advances hydrocarbon composition and saturation through a
subdomain of geological formations over geological time, using an explicit
finite-element Darcy transport scheme coupled to PVT flash equilibrium and
optional oil-to-gas cracking kinetics.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("darcysolve v%s\n", version)
	},
	DisableAutoGenTag: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a project file for structural errors without running the solver.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.Read(configFile)
		if err != nil {
			return err
		}
		fmt.Println("project file is valid")
		return nil
	},
	DisableAutoGenTag: true,
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run the Darcy transport solver over the configured interval.",
	RunE: func(cmd *cobra.Command, args []string) error {
		runCfg, err := config.Read(configFile)
		if err != nil {
			return err
		}

		desc, err := project.LoadProjectDescription(runCfg.FormationsFile)
		if err != nil {
			return err
		}
		subdomain, err := project.BuildSubdomain(desc)
		if err != nil {
			return err
		}

		if runCfg.ProjectFile != "" {
			if err := project.LoadSnapshots(runCfg.ProjectFile, subdomain.Formations, runCfg.IntervalStartMa, runCfg.IntervalEndMa); err != nil {
				return err
			}
		}

		if runCfg.StateFile != "" {
			stateFile, err := os.Open(runCfg.StateFile)
			if err != nil {
				return fmt.Errorf("darcysolve: opening state file: %w", err)
			}
			loadErr := project.LoadState(stateFile, subdomain.Formations)
			stateFile.Close()
			if loadErr != nil {
				return loadErr
			}
		}

		solver := darcyflow.NewDarcySolver(runCfg.Solver)
		if err := solver.Solve(cmd.Context(), subdomain, runCfg.IntervalStartMa, runCfg.IntervalEndMa); err != nil {
			return err
		}

		if runCfg.OutputStateFile != "" {
			outFile, err := os.Create(runCfg.OutputStateFile)
			if err != nil {
				return fmt.Errorf("darcysolve: creating output state file: %w", err)
			}
			saveErr := project.SaveState(outFile, subdomain.Formations)
			outFile.Close()
			if saveErr != nil {
				return saveErr
			}
		}

		return nil
	},
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "darcyflow.toml", "path to the project configuration file")
	rootCmd.AddCommand(versionCmd, validateCmd, solveCmd)
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
