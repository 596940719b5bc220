package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"motionbake/cmd/bake/bakery"
	"motionbake/cmd/bake/config"
	"motionbake/cmd/bake/curvefile"
	"motionbake/cmd/bake/ledger"
	"motionbake/cmd/bake/tracker"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	rootCmd = &cobra.Command{
		Use:   "bake",
		Short: "Bake tracker motion into Transform, RotoPaint and CornerPin curves",
		Long: `Reads the tracks of a tracker (and optionally its solved transform curves)
and writes the curves of a baked match-move, stabilize, roto layer or corner pin.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	tracksFile    string
	transformFile string
	outFile       string
	configFile    string
	trackerName   string
	sourceMode    string
	refFrame      int
	colorGroup    string
	selected      []int
	markAll       bool
	record        bool
	askPassword   bool
	verbose       bool
	flags         config.Flags
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&tracksFile, "tracks", "i", "./tracks.csv", "track file: track,frame,x,y,t,r,s")
	pf.StringVarP(&transformFile, "transform", "t", "", "tracker transform curves (default: solved from the tracks)")
	pf.StringVarP(&outFile, "out", "o", "", "output curve file (default: stdout)")
	pf.StringVarP(&configFile, "config", "c", "", "YAML settings file")
	pf.StringVarP(&trackerName, "name", "n", "", "tracker name (default: track file name)")
	pf.StringVar(&sourceMode, "source-mode", "matchmove", "mode of the tracker transform: matchmove or stabilize")
	pf.IntVarP(&refFrame, "ref-frame", "r", 0, "reference frame (default: first tracked frame)")
	pf.StringVar(&colorGroup, "color", "", "colour group as hex RRGGBBAA (default: the tracker's, else random)")
	pf.BoolVar(&markAll, "mark-all", false, "mark every track for computation")
	pf.BoolVar(&record, "record", false, "record the bake in the ledger database")
	pf.BoolVar(&askPassword, "ask-password", false, "prompt for the ledger database password")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&flags.RotoNode, "roto-node", "", "roto node class: Roto or RotoPaint")
	pf.StringVar(&flags.DBHost, "db-host", "", "ledger database host")
	pf.IntVar(&flags.DBPort, "db-port", 0, "ledger database port")
	pf.StringVar(&flags.DBUser, "db-user", "", "ledger database user")
	pf.StringVar(&flags.DBName, "db-name", "", "ledger database name")

	for _, m := range bakery.Modes {
		mode := m
		cmd := &cobra.Command{
			Use:   string(mode),
			Short: mode.Description(),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, mode)
			},
		}
		if mode == bakery.CornerPin {
			cmd.Flags().IntSliceVarP(&selected, "select", "s", nil, "indices of the four corner tracks (default: first four)")
		}
		rootCmd.AddCommand(cmd)
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(flags)
	return cfg, cfg.Validate()
}

func loadTracker(cmd *cobra.Command) (*tracker.Tracker, error) {
	f, err := os.Open(tracksFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tracks, err := tracker.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tracksFile, err)
	}

	name := trackerName
	if name == "" {
		base := filepath.Base(tracksFile)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	tr := &tracker.Tracker{Name: name, Tracks: tracks}

	if cmd.Flags().Changed("ref-frame") {
		tr.ReferenceFrame = refFrame
	} else if len(tracks) > 0 {
		if times := tracks[0].Position.KeyTimes(0); len(times) > 0 {
			tr.ReferenceFrame = int(times[0])
		}
	}

	if colorGroup != "" {
		c, err := strconv.ParseUint(strings.TrimPrefix(colorGroup, "#"), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q: %w", colorGroup, err)
		}
		tr.Color = uint32(c)
	} else {
		k, err := tracker.LoadKnobs(tracker.KnobsPath(tracksFile))
		if err != nil {
			return nil, err
		}
		tr.Color = k.ColorGroup
	}

	if transformFile != "" {
		stabilize := false
		switch sourceMode {
		case "matchmove":
		case "stabilize":
			stabilize = true
		default:
			return nil, fmt.Errorf("invalid source mode %q", sourceMode)
		}
		tf, err := os.Open(transformFile)
		if err != nil {
			return nil, err
		}
		defer tf.Close()
		tr.Transform, err = curvefile.ReadState(tf, stabilize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", transformFile, err)
		}
	}
	return tr, nil
}

func password() (string, error) {
	if p := os.Getenv("MOTIONBAKE_DB_PASSWORD"); p != "" || !askPassword {
		return p, nil
	}
	fmt.Fprint(os.Stderr, "Enter Password: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func writeCurves(res *bakery.Result) error {
	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return curvefile.Write(w, curvefile.Rows(res))
}

func recordBake(ctx context.Context, cfg config.Config, tr *tracker.Tracker, res *bakery.Result) error {
	pw, err := password()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	settings := ledger.Settings{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: pw,
		Database: cfg.Database.Name,
	}
	l, err := ledger.Open(settings.DSN())
	if err != nil {
		return err
	}
	defer l.Close()
	if err := l.Migrate(ctx); err != nil {
		return err
	}
	id, err := l.Record(ctx, tr.Name, res)
	if err != nil {
		return err
	}
	logrus.WithField("bake_id", id).Infof("recorded in %s@%s", settings.Database, settings.Host)
	return nil
}

func run(cmd *cobra.Command, mode bakery.Mode) error {
	cfg, err := loadConfig()
	if err != nil {
		logrus.WithError(err).Error("can't load config")
		return err
	}
	tr, err := loadTracker(cmd)
	if err != nil {
		logrus.WithError(err).Error("can't load tracker")
		return err
	}
	logrus.Infof("Baking %s from %s: %d tracks, reference frame %d", mode, tr.Name, len(tr.Tracks), tr.ReferenceFrame)

	res, err := bakery.Bake(tr, bakery.Options{
		Mode:       mode,
		Selected:   selected,
		MarkAll:    markAll,
		RotoNode:   cfg.RotoNode,
		ColorRange: cfg.ColorRange,
	})
	if err != nil {
		logrus.WithError(err).WithField("kind", bakery.KindOf(err)).Error("bake aborted")
		return err
	}
	if res.Color != tr.Color || colorGroup != "" {
		path := tracker.KnobsPath(tracksFile)
		if err := tracker.SaveKnobs(path, tracker.Knobs{ColorGroup: res.Color}); err != nil {
			logrus.WithError(err).Warn("can't keep the colour group")
		} else {
			logrus.Debugf("colour group %08x kept in %s", res.Color, path)
		}
	}

	if err := writeCurves(res); err != nil {
		logrus.WithError(err).Error("can't write curves")
		return err
	}
	if record {
		if err := recordBake(cmd.Context(), cfg, tr, res); err != nil {
			logrus.WithError(err).Error("can't record bake")
			return err
		}
	}
	logrus.Infof("Done: %s (%s), colour %08x", res.Name, res.Class, res.Color)
	return nil
}
