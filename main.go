package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/tdpong/agent/tabular/table"
	"github.com/samuelfneumann/tdpong/environment/pong/render"
	"github.com/samuelfneumann/tdpong/experiment"
	"github.com/samuelfneumann/tdpong/experiment/report"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	// A .env file only supplies defaults, it is fine for it not to exist
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithError(err).Fatal("could not load .env")
	}

	configFile := flag.String("config", os.Getenv("TDPONG_CONFIG"),
		"JSON experiment configuration; defaults are used if empty")
	seed := flag.String("seed", os.Getenv("TDPONG_SEED"),
		"seed overriding the configured seed")
	level := flag.String("log-level", envOr("TDPONG_LOG_LEVEL", "info"),
		"logging level")
	writeConfig := flag.String("write-config", "",
		"write the configuration to this file and exit")
	loadTable := flag.String("table", "",
		"evaluate a saved utility table instead of training")
	saveTable := flag.String("save-table", "",
		"save the utility table to this file after the run")
	frames := flag.String("frames", "",
		"save PNG frames of the visual trials to this directory")
	frameSize := flag.Int("frame-size", 400, "width and height of frames")
	chart := flag.String("chart", "",
		"save an HTML chart of all bounce histograms to this file")
	data := flag.String("data", "",
		"save per-episode bounces and lengths to files with this prefix")
	progress := flag.Bool("progress", false, "show a training progress bar")
	noColor := flag.Bool("no-color", false, "disable coloured reports")
	flag.Parse()

	logLevel, err := logrus.ParseLevel(*level)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(logLevel)

	config := experiment.DefaultConfig()
	if *configFile != "" {
		config, err = experiment.LoadConfig(*configFile)
		if err != nil {
			log.WithError(err).Fatal("could not load config")
		}
	}
	if *seed != "" {
		config.Seed, err = strconv.ParseUint(*seed, 10, 64)
		if err != nil {
			log.WithError(err).Fatal("invalid seed")
		}
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig); err != nil {
			log.WithError(err).Fatal("could not write config")
		}
		return
	}

	// A saved table is only evaluated
	if *loadTable != "" {
		config.TrainEpisodes = 0
	}

	session, err := experiment.NewSession(config, log)
	if err != nil {
		log.WithError(err).Fatal("could not create session")
	}

	session.AddReporter(report.NewConsole(os.Stdout, !*noColor))
	var charts *report.Chart
	if *chart != "" {
		charts = report.NewChart("tdpong " + session.ID().String())
		session.AddReporter(charts)
	}
	if *progress || config.Progress {
		session.ShowProgress(os.Stderr)
	}

	var frameWriter *render.Frames
	if *frames != "" {
		if err := os.MkdirAll(*frames, 0o755); err != nil {
			log.WithError(err).Fatal("could not create frame directory")
		}
		frameWriter, err = render.NewFrames(*frames, *frameSize)
		if err != nil {
			log.WithError(err).Fatal("could not create frame renderer")
		}
		session.AddObserver(frameWriter)
	}

	if *loadTable != "" {
		t, err := table.Load(*loadTable)
		if err != nil {
			log.WithError(err).Fatal("could not load table")
		}
		if err := session.SetTable(t); err != nil {
			log.WithError(err).Fatal("could not use table")
		}
	}

	if err := session.Run(); err != nil {
		log.WithError(err).Fatal("run failed")
	}

	if frameWriter != nil && frameWriter.Err() != nil {
		log.WithError(frameWriter.Err()).Error("could not save all frames")
	}
	if charts != nil {
		if err := charts.Save(*chart); err != nil {
			log.WithError(err).Fatal("could not save chart")
		}
	}
	if *data != "" {
		dir, prefix := filepath.Split(*data)
		err := session.SaveData(
			filepath.Join(dir, prefix+"bounces.gob"),
			filepath.Join(dir, prefix+"lengths.gob"),
		)
		if err != nil {
			log.WithError(err).Fatal("could not save data")
		}
	}
	if *saveTable != "" {
		if err := session.Table().Save(*saveTable); err != nil {
			log.WithError(err).Fatal("could not save table")
		}
	}
}

// envOr returns the value of the environment variable key, or def if
// it is not set
func envOr(key, def string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return def
}
