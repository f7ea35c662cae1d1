package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lomik/zapwriter"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ridegraph/ridegraph/chart"
	"github.com/ridegraph/ridegraph/chart/surface"
	"github.com/ridegraph/ridegraph/report"
	"github.com/ridegraph/ridegraph/ridelog"
	"github.com/ridegraph/ridegraph/stats"
)

var defaultLoggerConfig = zapwriter.Config{
	Logger:           "",
	File:             "stderr",
	Level:            "info",
	Encoding:         "console",
	EncodingTime:     "iso8601",
	EncodingDuration: "seconds",
}

type renderConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Budget int    `mapstructure:"budget"`
	Theme  string `mapstructure:"theme"`
	Gaps   string `mapstructure:"gaps"`
}

var config = struct {
	Logger []zapwriter.Config `mapstructure:"logger"`
	Render renderConfig       `mapstructure:"render"`
	OutDir string             `mapstructure:"outDir"`
}{
	Logger: []zapwriter.Config{defaultLoggerConfig},
}

func loadConfig(path string) error {
	viper.SetDefault("render.width", 1200)
	viper.SetDefault("render.height", 320)
	viper.SetDefault("render.budget", chart.DefaultDrawBudget)
	viper.SetDefault("render.theme", "default")
	viper.SetDefault("render.gaps", "sampled")
	viper.SetDefault("outDir", ".")
	viper.SetEnvPrefix("RIDEGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return err
	}
	if err := loadThemeTemplates(); err != nil {
		return err
	}
	return zapwriter.ApplyConfig(config.Logger)
}

// loadThemeTemplates registers named color themes from the config file's
// "templates" table. Unlisted colors keep their defaults.
func loadThemeTemplates() error {
	for name := range viper.GetStringMap("templates") {
		colors := viper.GetStringMapString("templates." + name)
		t := chart.DefaultTheme()
		for key, val := range colors {
			c, err := chart.ParseColor(val)
			if err != nil {
				return err
			}
			switch strings.ToLower(key) {
			case "background":
				t.Background = c
			case "grid":
				t.Grid = c
			case "axislabel":
				t.AxisLabel = c
			case "axistitle":
				t.AxisTitle = c
			case "hoverline":
				t.HoverLine = c
			case "emptytext":
				t.EmptyText = c
			case "gapsegment":
				t.GapSegment = c
			case "annotationborder":
				t.AnnotationBorder = c
			}
		}
		chart.SetTemplate(name, t)
	}
	return nil
}

func main() {
	err := zapwriter.ApplyConfig([]zapwriter.Config{defaultLoggerConfig})
	if err != nil {
		log.Fatal("failed to initialize logger with default configuration")
	}
	logger := zapwriter.Logger("main")

	configPath := flag.String("config", "", "Path to the `config file`.")
	listDir := flag.String("list", "", "List ride logs under `dir` and exit.")
	renderFile := flag.String("render", "", "Render PNG charts for ride log `file`.")
	reportFile := flag.String("report", "", "Write an interactive HTML report for ride log `file`.")
	statsFile := flag.String("stats", "", "Print the ride summary for ride log `file`.")
	outDir := flag.String("out", "", "Output directory for rendered artifacts.")
	flag.Parse()

	if err := loadConfig(*configPath); err != nil {
		logger.Fatal("failed to load config",
			zap.String("config", *configPath),
			zap.Error(err),
		)
	}
	logger = zapwriter.Logger("main")
	if *outDir != "" {
		config.OutDir = *outDir
	}

	switch {
	case *listDir != "":
		if err := runList(*listDir); err != nil {
			logger.Fatal("listing failed", zap.Error(err))
		}
	case *renderFile != "":
		if err := runRender(logger, *renderFile); err != nil {
			logger.Fatal("render failed", zap.String("file", *renderFile), zap.Error(err))
		}
	case *reportFile != "":
		if err := runReport(*reportFile); err != nil {
			logger.Fatal("report failed", zap.String("file", *reportFile), zap.Error(err))
		}
	case *statsFile != "":
		if err := runStats(*statsFile); err != nil {
			logger.Fatal("stats failed", zap.String("file", *statsFile), zap.Error(err))
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runList(dir string) error {
	entries, err := ridelog.List(dir, nil)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FOLDER\tNAME\tFORMAT\tSIZE\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Folder, e.Name, e.Format, e.HumanSize(), e.Modified.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func gapPolicy() chart.GapPolicy {
	if config.Render.Gaps == "original" {
		return chart.GapOriginal
	}
	return chart.GapSampled
}

func runRender(logger *zap.Logger, path string) error {
	master, format, pstats, err := ridelog.ParseFile(path)
	if err != nil {
		return err
	}
	logger.Info("parsed ride log",
		zap.String("file", path),
		zap.String("format", string(format)),
		zap.Int("rows", pstats.Rows),
		zap.Int("skipped", pstats.SkippedRows),
	)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, kind := range chart.AllKinds {
		spec := chart.Spec(kind)
		ds := spec.Dataset(master)
		if ds.Empty() {
			continue
		}
		c := chart.New(chart.Config{
			Kind:       kind,
			Width:      config.Render.Width,
			Height:     config.Render.Height,
			DrawBudget: config.Render.Budget,
			Theme:      config.Render.Theme,
			GapPolicy:  gapPolicy(),
		}, chart.WithSurfaceFactory(surface.NewRasterSurface))
		c.Init()
		c.SetData(ds)

		out := filepath.Join(config.OutDir, fmt.Sprintf("%s_%s.png", base, kind))
		f, err := os.Create(out)
		if err != nil {
			c.Destroy()
			return err
		}
		err = c.WritePNG(f)
		cerr := f.Close()
		c.Destroy()
		if err != nil {
			return err
		}
		if cerr != nil {
			return cerr
		}

		rs := c.RenderStats()
		logger.Info("rendered chart",
			zap.String("kind", string(kind)),
			zap.String("out", out),
			zap.Int("totalPoints", rs.TotalPoints),
			zap.Int("renderedPoints", rs.RenderedPoints),
			zap.Bool("downsampled", rs.IsDownsampled),
		)
	}
	return nil
}

func runReport(path string) error {
	master, _, _, err := ridelog.ParseFile(path)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(config.OutDir, base+"_report.html")
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := report.Write(f, master, base); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runStats(path string) error {
	master, format, _, err := ridelog.ParseFile(path)
	if err != nil {
		return err
	}
	r := stats.Summarize(master)

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "format\t%s\n", format)
	fmt.Fprintf(tw, "duration\t%s\n", r.Duration.Round(time.Second))
	printStat(tw, "distance", r.DistanceKm, "km")
	printStat(tw, "speed mean", r.SpeedMean, "km/h")
	printStat(tw, "speed max", r.SpeedMax, "km/h")
	printStat(tw, "speed p95", r.SpeedP95, "km/h")
	printStat(tw, "battery start", r.BatteryStart, "%")
	printStat(tw, "battery end", r.BatteryEnd, "%")
	printStat(tw, "battery drop", r.BatteryDrop, "%")
	printStat(tw, "pwm max", r.PWMMax, "%")
	printStat(tw, "temperature max", r.TemperatureMax, "°C")
	return tw.Flush()
}

func printStat(tw *tabwriter.Writer, name string, v float64, unit string) {
	if chart.IsAbsent(v) {
		fmt.Fprintf(tw, "%s\tn/a\n", name)
		return
	}
	fmt.Fprintf(tw, "%s\t%.1f %s\n", name, v, unit)
}
