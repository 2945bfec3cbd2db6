package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/lukaszgryglicki/mcml/internal/mcml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// signalContext is cancelled on the first interrupt; running workers stop
// launching photons and the partial result is kept.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation.",
	Long: `run traces the configured number of photon packets through the slab and
writes the absorbed weight grid to a result file.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := runParams(Cfg)
		if err != nil {
			return err
		}
		workers, err := getInt(Cfg, "workers")
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		res, runErr := mcml.RunParallel(ctx, p, workers)
		if res == nil {
			return runErr
		}
		if runErr != nil {
			mcml.Log.Warnf("Run interrupted after %d of %d photons: %v", res.Params.NumTrials, p.NumTrials, runErr)
		}
		out := Cfg.GetString("output")
		if out == "" {
			out = mcml.RunName(res.Params) + mcml.ExtCDF
		}
		if err := mcml.Save(out, res); err != nil {
			return err
		}
		res.Tally.Log()
		launched := float64(res.Params.NumTrials)
		if launched == 0 {
			launched = 1
		}
		mcml.Log.WithFields(logrus.Fields{
			"photons":     res.Params.NumTrials,
			"rsp":         res.Rsp,
			"absorbed":    res.Tally.Absorbed / launched,
			"transmitted": res.Tally.Transmitted / launched,
			"residual":    res.Tally.Residual(),
			"grid_error":  res.ConservationError(),
			"elapsed":     res.Elapsed,
		}).Info("run finished")
		cmd.Printf("Wrote %s\n", out)
		return runErr
	},
}

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Sweep packet counts, refractive indices and incidence angles.",
	Long: `experiment runs every combination of the configured packet counts, slab
refractive indices and incidence angles. Results, a metadata.toml summary and
fluence figures are written to a new timestamped directory below --outdir.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := experiment(Cfg)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		dir, err := e.Run(ctx)
		if dir != "" {
			cmd.Printf("Results in %s\n", dir)
		}
		return err
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot file...",
	Short: "Plot fluence against depth for saved results.",
	Long: `plot loads result files written by run or experiment (.nc or .bin.zst)
and draws their fluence against depth on a logarithmic axis.`,
	Args:              cobra.MinimumNArgs(1),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		series := make([]mcml.FluenceSeries, 0, len(args))
		for _, path := range args {
			res, err := mcml.Load(path)
			if err != nil {
				return err
			}
			label := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), mcml.ExtCDF), mcml.ExtRaw)
			series = append(series, mcml.FluenceSeries{Label: label, Result: res})
		}
		out := Cfg.GetString("figure")
		if err := mcml.PlotFluence(out, Cfg.GetString("title"), series); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", out)
		return nil
	},
}
