/*
 * main.go, part of idock.
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

// Command idock screens a folder of flexible ligands against a rigid
// receptor and writes the best binding poses with their predicted free
// energies.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	dock "github.com/annanguyen99/FixedRandom-idock"
	v3 "github.com/annanguyen99/FixedRandom-idock/v3"
)

const version = "3.0.0"

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

type options struct {
	receptor     string
	inputFolder  string
	outputFolder string
	logPath      string
	configPath   string

	center [3]float64
	size   [3]float64

	seed             uint64
	threads          int
	tasks            int
	generations      int
	maxConformations int
	granularity      float64
	clashCheck       bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "idock",
		Short:         "idock — multithreaded virtual screening by flexible ligand docking",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadOptions(cmd, opts); err != nil {
				return err
			}
			return run(opts)
		},
	}

	f := cmd.Flags()
	f.String("receptor", "", "receptor in PDBQT format")
	f.String("input_folder", "", "folder of ligands in PDBQT format")
	f.Float64("center_x", 0, "x coordinate of the search space center")
	f.Float64("center_y", 0, "y coordinate of the search space center")
	f.Float64("center_z", 0, "z coordinate of the search space center")
	f.Float64("size_x", 0, "size in the x dimension in Angstrom")
	f.Float64("size_y", 0, "size in the y dimension in Angstrom")
	f.Float64("size_z", 0, "size in the z dimension in Angstrom")
	f.String("output_folder", "output", "folder of output models in PDBQT format")
	f.String("log", "log.csv", "log file")
	f.Uint64("seed", uint64(time.Now().UnixNano()), "explicit non-negative random seed")
	f.Int("threads", runtime.NumCPU(), "number of worker threads to use")
	f.Int("tasks", 256, "number of Monte Carlo tasks for global search")
	f.Int("generations", 300, "number of generations in BFGS")
	f.Int("max_conformations", 9, "number of binding conformations to write")
	f.Float64("granularity", dock.DefaultGranularity, "density of probe atoms of grid maps")
	f.Bool("clash_check", false, "reject poses with steric clashes between frames")
	f.String("config", "", "options can be loaded from a configuration file")
	return cmd
}

// loadOptions merges flags with the optional key = value configuration
// file and validates the required ones.
func loadOptions(cmd *cobra.Command, opts *options) error {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
		v.SetConfigFile(cfg)
		v.SetConfigType("properties")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: %w", cfg, err)
		}
	}

	for _, key := range []string{"receptor", "input_folder",
		"center_x", "center_y", "center_z", "size_x", "size_y", "size_z"} {
		if !v.IsSet(key) {
			return fmt.Errorf("required option --%s is missing", key)
		}
	}

	opts.receptor = v.GetString("receptor")
	opts.inputFolder = v.GetString("input_folder")
	opts.outputFolder = v.GetString("output_folder")
	opts.logPath = v.GetString("log")
	opts.center = [3]float64{v.GetFloat64("center_x"), v.GetFloat64("center_y"), v.GetFloat64("center_z")}
	opts.size = [3]float64{v.GetFloat64("size_x"), v.GetFloat64("size_y"), v.GetFloat64("size_z")}
	opts.seed = v.GetUint64("seed")
	opts.threads = v.GetInt("threads")
	opts.tasks = v.GetInt("tasks")
	opts.generations = v.GetInt("generations")
	opts.maxConformations = v.GetInt("max_conformations")
	opts.granularity = v.GetFloat64("granularity")
	opts.clashCheck = v.GetBool("clash_check")

	if opts.size[0] <= 0 || opts.size[1] <= 0 || opts.size[2] <= 0 {
		return errors.New("the search space sizes must be positive")
	}
	if opts.granularity <= 0 {
		return errors.New("granularity must be positive")
	}
	if opts.tasks < 1 || opts.generations < 1 || opts.maxConformations < 1 {
		return errors.New("tasks, generations and max_conformations must be at least 1")
	}
	return nil
}

func run(opts *options) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if opts.threads < 1 {
		return &exitError{code: 2, msg: "no usable worker threads detected"}
	}
	if st, err := os.Stat(opts.receptor); err != nil || st.IsDir() {
		return fmt.Errorf("receptor %s does not exist or is not a regular file", opts.receptor)
	}
	if st, err := os.Stat(opts.inputFolder); err != nil || !st.IsDir() {
		return fmt.Errorf("input folder %s does not exist or is not a directory", opts.inputFolder)
	}
	if err := os.MkdirAll(opts.outputFolder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", opts.outputFolder, err)
	}

	logger.Info("creating worker pool", zap.Int("threads", opts.threads))
	pool := dock.NewPool(opts.threads)
	defer pool.Close()

	logger.Info("precalculating scoring function", zap.Int("xs_types", dock.NumXSTypes))
	sf := dock.NewScoringFunction(pool)

	box := dock.NewBox(v3.Vec(opts.center), v3.Vec(opts.size), opts.granularity)

	logger.Info("parsing receptor", zap.String("path", opts.receptor))
	rec, err := dock.ParseReceptor(opts.receptor, box)
	if err != nil {
		return err
	}

	ligands, err := listLigands(opts.inputFolder)
	if err != nil {
		return err
	}
	logger.Info("screening ligands",
		zap.Int("ligands", len(ligands)),
		zap.Int("tasks", opts.tasks),
		zap.Int("generations", opts.generations),
		zap.Uint64("seed", opts.seed))

	params := dock.ScreenParams{
		SearchParams: dock.SearchParams{
			Seed:             opts.seed,
			NumTasks:         opts.tasks,
			NumGenerations:   opts.generations,
			MaxConformations: opts.maxConformations,
			ClashCheck:       opts.clashCheck,
		},
		OutputFolder: opts.outputFolder,
	}

	var safePrint dock.SafePrint
	safePrint.Do(func() {
		fmt.Println("   Index        Ligand     1     2     3     4     5     6     7     8     9")
	})

	var records dock.LogRecords
	for _, path := range ligands {
		lig, err := dock.ParseLigand(path)
		if err != nil {
			var perr *dock.ParseError
			if errors.As(err, &perr) {
				logger.Warn("skipping ligand", zap.String("path", path), zap.Error(perr))
				continue
			}
			return err
		}
		recRow, err := dock.DockLigand(lig, rec, sf, pool, params)
		if err != nil {
			return err
		}
		records = append(records, recRow)
		safePrint.Do(func() {
			fmt.Printf("%8d %13s", len(records), recRow.Stem)
			for i, e := range recRow.Energies {
				if i == 9 {
					break
				}
				fmt.Printf(" %5.2f", e)
			}
			fmt.Println()
		})
	}

	if len(records) == 0 {
		return nil
	}
	logger.Info("writing log", zap.String("path", opts.logPath), zap.Int("ligands", len(records)))
	records.Sort()
	return records.WriteCSV(opts.logPath)
}

// newLogger builds the stderr console logger; stdout stays reserved for
// the ranking table.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// listLigands returns the sorted ligand files of a folder.
func listLigands(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".pdbqt") || strings.HasSuffix(name, ".pdbqt.gz") {
			paths = append(paths, filepath.Join(folder, name))
		}
	}
	return paths, nil
}
