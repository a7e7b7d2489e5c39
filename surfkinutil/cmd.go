/*
Copyright © 2018 the surfkin authors.
This file is part of surfkin.

surfkin is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

surfkin is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with surfkin.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package surfkinutil contains the command-line interface for surfkin.
package surfkinutil

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/surfkin"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// options are the configuration options available to surfkin.
var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "mechanism",
			usage: `
              mechanism is the path to the TOML file describing the phases
              and reactions.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel sets the verbosity of the log messages. Options are
              "debug", "info", "warning" and "error".`,
			defaultVal: "warning",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Temperature",
			usage: `
              Temperature, if > 0, overrides the temperature of every phase
              in the mechanism [K].`,
			shorthand:  "T",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Pressure",
			usage: `
              Pressure, if > 0, overrides the pressure of the gas and bulk
              phases in the mechanism [Pa].`,
			shorthand:  "P",
			defaultVal: 0.,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Potentials",
			usage: `
              Potentials maps phase names to electric potentials [V]. It is
              given as a JSON object on the command line, for example
              '{"metal":"0.1"}', and as a table in a configuration file.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Existence",
			usage: `
              Existence maps phase names to "true" or "false". Reactions
              that need a phase that does not exist as a reactant are
              switched off.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Stability",
			usage: `
              Stability maps phase names to "true" or "false". Reactions
              that touch an unstable phase are switched off.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "TimeStep",
			usage: `
              TimeStep is the time interval that the surface coverages are
              advanced by [s].`,
			defaultVal: 1.0e-3,
			flagsets:   []*pflag.FlagSet{advanceCmd.Flags()},
		},
		{
			name: "MaxTime",
			usage: `
              MaxTime is the longest simulated time allowed when searching
              for the pseudo-steady-state coverages [s].`,
			defaultVal: 1.0e3,
			flagsets:   []*pflag.FlagSet{steadyCmd.Flags()},
		},
		{
			name: "MaxSteps",
			usage: `
              MaxSteps, if > 0, is the largest number of integrator steps
              allowed in one call.`,
			defaultVal: 20000,
			flagsets:   []*pflag.FlagSet{advanceCmd.Flags(), steadyCmd.Flags()},
		},
		{
			name: "RelativeTolerance",
			usage: `
              RelativeTolerance is the relative error tolerance of the
              coverage integrator.`,
			defaultVal: 1.0e-5,
			flagsets:   []*pflag.FlagSet{advanceCmd.Flags(), steadyCmd.Flags()},
		},
		{
			name: "AbsoluteTolerance",
			usage: `
              AbsoluteTolerance is the absolute error tolerance of the
              coverage integrator.`,
			defaultVal: 1.0e-10,
			flagsets:   []*pflag.FlagSet{advanceCmd.Flags(), steadyCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SURFKIN")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 {
				// Flags shared between commands are defined once and
				// added to the other sets.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case int:
				set.Int(option.name, v, option.usage)
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(v)
				set.String(option.name, b.String(), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	Root.AddCommand(versionCmd)
	Root.AddCommand(ratesCmd)
	Root.AddCommand(advanceCmd)
	Root.AddCommand(steadyCmd)
	Root.AddCommand(equilCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "surfkin",
	Short: "Surface and edge reaction kinetics.",
	Long: `surfkin evaluates reaction rates at phase interfaces and edges.
The mechanism is read from a TOML file; see the subcommands for the
available calculations.

Configuration can be set with command-line flags, a configuration file
given with --config, or environment variables of the form 'SURFKIN_var'.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogLevel()
	},
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("surfkin: problem reading configuration file: %v", err)
		}
	}
	return nil
}

func setLogLevel() error {
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("surfkin: %v", err)
	}
	logrus.SetLevel(level)
	return nil
}

// versionCmd prints the version number.
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number",
	Long:              "version prints the version number of this version of surfkin.",
	DisableAutoGenTag: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("surfkin v%s\n", surfkin.Version)
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Print rate constants and rates of progress.",
	Long: `rates prints the forward and reverse rate constants, the rates of
progress of every reaction and the production rates of every species
at the configured state.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Load(Cfg)
		if err != nil {
			return err
		}
		return Rates(cmd.OutOrStdout(), m)
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Advance the surface coverages in time.",
	Long: `advance integrates the surface coverages over TimeStep with the
bulk phases held fixed and prints the resulting coverages.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Load(Cfg)
		if err != nil {
			return err
		}
		return Advance(cmd.OutOrStdout(), m, Cfg.GetFloat64("TimeStep"))
	},
}

var steadyCmd = &cobra.Command{
	Use:   "steady",
	Short: "Find the pseudo-steady-state surface coverages.",
	Long: `steady integrates the surface coverages until the net production
rates of the surface species vanish, or until MaxTime is reached.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Load(Cfg)
		if err != nil {
			return err
		}
		return Steady(cmd.OutOrStdout(), m, Cfg.GetFloat64("MaxTime"))
	},
}

var equilCmd = &cobra.Command{
	Use:   "equil",
	Short: "Check how far each reaction is from equilibrium.",
	Long: `equil prints the equilibrium constants, the electrochemical
potential change of every reaction in units of RT and the ratio of its
net to forward rate of progress.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := Load(Cfg)
		if err != nil {
			return err
		}
		return Equil(cmd.OutOrStdout(), m)
	},
}

// GetStringMapString returns a map of strings from the configuration
// variable varName. The variable may be a map or a JSON-encoded string.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return map[string]string{}, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if v == "" {
			return map[string]string{}, nil
		}
		o := make(map[string]string)
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, fmt.Errorf("surfkin: reading configuration variable %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("surfkin: invalid type %T for configuration variable %s", i, varName)
	}
}
