package cli

import (
	"fmt"
	"time"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version of the mcml command.
const Version = "0.3.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	physics := []*pflag.FlagSet{runCmd.Flags(), experimentCmd.Flags()}
	d := mcml.DefaultParams()

	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location (TOML, YAML or JSON).`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose enables debug level logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "trace",
			usage: `
              trace additionally logs every boundary event of every photon.
              This is very slow and meant for small runs only.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "trials",
			usage: `
              trials is the number of photon packets to launch.`,
			shorthand:  "n",
			defaultVal: d.NumTrials,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "n1",
			usage: `
              n1 is the refractive index of the slab.`,
			defaultVal: d.N1,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "angle",
			usage: `
              angle is the incidence angle of the beam in degrees, 0 is normal incidence.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the result file. The extension selects the format:
              .nc for NetCDF, .bin.zst for a compressed raw dump. An empty value
              derives the name from the run parameters.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "n0",
			usage: `
              n0 is the refractive index of the medium the beam comes from.`,
			defaultVal: d.N0,
			flagsets:   physics,
		},
		{
			name: "ma",
			usage: `
              ma is the absorption coefficient [1/cm].`,
			defaultVal: d.Ma,
			flagsets:   physics,
		},
		{
			name: "ms",
			usage: `
              ms is the scattering coefficient [1/cm].`,
			defaultVal: d.Ms,
			flagsets:   physics,
		},
		{
			name: "g",
			usage: `
              g is the scattering anisotropy in [-1, 1].`,
			defaultVal: d.G,
			flagsets:   physics,
		},
		{
			name: "wth",
			usage: `
              wth is the weight below which packets play the survival roulette.`,
			defaultVal: d.Wth,
			flagsets:   physics,
		},
		{
			name: "m",
			usage: `
              m is the roulette factor: survivors have their weight multiplied by m.`,
			defaultVal: d.M,
			flagsets:   physics,
		},
		{
			name: "res",
			usage: `
              res is the grid cell size [cm].`,
			defaultVal: d.Res,
			flagsets:   physics,
		},
		{
			name: "nz",
			usage: `
              nz is the number of depth grid lines.`,
			defaultVal: d.Nz,
			flagsets:   physics,
		},
		{
			name: "nr",
			usage: `
              nr is the number of radial grid lines.`,
			defaultVal: d.Nr,
			flagsets:   physics,
		},
		{
			name: "seed",
			usage: `
              seed initialises the random streams. 0 seeds from the clock.`,
			defaultVal: 0,
			flagsets:   physics,
		},
		{
			name: "workers",
			usage: `
              workers is the number of parallel workers. 0 uses all CPUs.`,
			shorthand:  "w",
			defaultVal: 0,
			flagsets:   physics,
		},
		{
			name: "photons",
			usage: `
              photons lists the packet counts of an experiment.`,
			defaultVal: []int{1000, 10000, 100000, 1000000},
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "n1s",
			usage: `
              n1s lists the slab refractive indices of an experiment.`,
			defaultVal: []string{"1.0", "1.37"},
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "angles",
			usage: `
              angles lists the incidence angles of an experiment in degrees.`,
			defaultVal: []string{"0"},
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "outdir",
			usage: `
              outdir is the directory receiving one timestamped folder per experiment.`,
			defaultVal: "results",
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "raw",
			usage: `
              raw also writes zstd compressed raw dumps of every run.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "plot",
			usage: `
              plot renders one fluence figure per packet count.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{experimentCmd.Flags()},
		},
		{
			name: "figure",
			usage: `
              figure is the output image of the plot command.`,
			defaultVal: "fluence.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "title",
			usage: `
              title is the figure title of the plot command.`,
			defaultVal: "Fluence",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("MCML")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case []int:
				set.IntSliceP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			if err := Cfg.BindPFlag(option.name, set.Lookup(option.name)); err != nil {
				panic(err)
			}
		}
	}

	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(experimentCmd)
	Root.AddCommand(plotCmd)
}

// setConfig reads in the configuration file, if there is one, and sets up
// logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("mcml: problem reading configuration file: %v", err)
		}
	}
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	mcml.Debug = mcml.Debug || Cfg.GetBool("trace")
	logger.SetLevel(logrus.InfoLevel)
	if Cfg.GetBool("verbose") || mcml.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	mcml.Log = logger
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "mcml",
	Short: "Monte Carlo light transport in a homogeneous slab.",
	Long: `mcml simulates photon packets entering a homogeneous semi-infinite slab,
scattering and being absorbed inside it and escaping through its surface.
The absorbed weight is accumulated on a (depth, radius) grid.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'MCML_var' where 'var' is the
name of the variable to be set.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of mcml.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("mcml v%s\n", Version)
	},
	DisableAutoGenTag: true,
}
