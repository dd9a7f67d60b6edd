// Command density-select loads a density table, removes duplicate
// samples, selects a time/x/y window and reports the random sample count
// for the window's interpolation grid.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/density.report/internal/config"
	"github.com/banshee-data/density.report/internal/dataset"
	"github.com/banshee-data/density.report/internal/dataset/loader"
	"github.com/banshee-data/density.report/internal/fsutil"
	"github.com/banshee-data/density.report/internal/monitoring"
	"github.com/banshee-data/density.report/internal/store"
	"github.com/banshee-data/density.report/internal/version"
)

// Options holds the command line flags.
type Options struct {
	ConfigPath string
	DataPath   string
	DBPath     string
	Quiet      bool
	Debug      bool
}

// Summary is the outcome of one selection.
type Summary struct {
	Source       string
	Stats        dataset.Stats
	Params       dataset.SelectionParams
	SelectedRows int
	GridPoints   int
	RunID        string
	Bounds       *dataset.Bounds
}

// summaryJSON is the stdout form of Summary. Open limit ends are omitted
// because JSON has no infinity.
type summaryJSON struct {
	Source         string             `json:"source"`
	Stats          dataset.Stats      `json:"stats"`
	TimeLim        config.LimitConfig `json:"time_lim"`
	XLim           config.LimitConfig `json:"x_lim"`
	YLim           config.LimitConfig `json:"y_lim"`
	CellSize       float64            `json:"cell_size"`
	BufferDistance float64            `json:"buffer_distance"`
	SelectedRows   int                `json:"selected_rows"`
	GridPoints     int                `json:"grid_points"`
	RunID          string             `json:"run_id,omitempty"`
}

func (s Summary) toJSON() summaryJSON {
	return summaryJSON{
		Source:         s.Source,
		Stats:          s.Stats,
		TimeLim:        config.LimitFrom(s.Params.Time),
		XLim:           config.LimitFrom(s.Params.X),
		YLim:           config.LimitFrom(s.Params.Y),
		CellSize:       s.Params.CellSize,
		BufferDistance: s.Params.BufferDistance,
		SelectedRows:   s.SelectedRows,
		GridPoints:     s.GridPoints,
		RunID:          s.RunID,
	}
}

func main() {
	opts, showVersion := parseFlags(os.Args[1:])
	if showVersion {
		fmt.Println(version.String())
		return
	}
	if opts.Quiet {
		monitoring.SetLogger(nil)
		log.SetOutput(io.Discard)
	}
	monitoring.SetDebug(opts.Debug)

	if err := run(context.Background(), opts, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("density-select: %v", err)
	}
}

func parseFlags(args []string) (Options, bool) {
	var opts Options
	var showVersion bool
	fs := flag.NewFlagSet("density-select", flag.ExitOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to selection config JSON (optional)")
	fs.StringVar(&opts.DataPath, "data", "", "Path to the delimited input table (required)")
	fs.StringVar(&opts.DBPath, "db", "", "SQLite database to record the selection in (optional)")
	fs.BoolVar(&opts.Quiet, "quiet", false, "Suppress diagnostic logging")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.Parse(args)
	return opts, showVersion
}

func run(ctx context.Context, opts Options, fsys fsutil.FileSystem, out io.Writer) error {
	if opts.DataPath == "" {
		return errors.New("-data is required")
	}

	cfg := config.EmptySelectionConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadSelectionConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	raw, err := loader.Load(fsys, opts.DataPath, cfg.LoaderOptions())
	if err != nil {
		return err
	}
	ds := dataset.New(raw)

	summary, selected, err := summarise(cfg, ds)
	if err != nil {
		return err
	}
	summary.Source = opts.DataPath
	if summary.Bounds != nil {
		b := summary.Bounds
		log.Printf("data envelope: time [%g, %g] x [%g, %g] y [%g, %g]",
			b.Min[dataset.ColumnTime], b.Max[dataset.ColumnTime],
			b.Min[dataset.ColumnX], b.Max[dataset.ColumnX],
			b.Min[dataset.ColumnY], b.Max[dataset.ColumnY])
	}
	log.Printf("loaded %d rows (%d unique), selected %d, grid points %d",
		summary.Stats.RawRows, summary.Stats.UniqueRows, summary.SelectedRows, summary.GridPoints)

	if opts.DBPath != "" {
		id, err := record(ctx, opts.DBPath, summary, selected)
		if err != nil {
			return err
		}
		summary.RunID = id
		log.Printf("recorded selection run %s in %s", id, opts.DBPath)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary.toJSON())
}

// summarise selects from ds. Limits the config leaves open are closed
// over the deduplicated data envelope so the grid count stays finite.
// With no data there is no envelope; open limits then size an empty grid.
func summarise(cfg *config.SelectionConfig, ds *dataset.Dataset) (Summary, dataset.Table, error) {
	var bounds *dataset.Bounds
	if b, ok := ds.Bounds(); ok {
		bounds = &b
	}
	params := cfg.Params(bounds)

	selected := ds.Select(params)
	points, err := dataset.RandomPointsCount(params)
	switch {
	case errors.Is(err, dataset.ErrUnboundedExtent) && bounds == nil:
		log.Printf("warning: no samples and open limits; grid point count is 0")
		points = 0
	case err != nil:
		return Summary{}, nil, fmt.Errorf("grid sizing: %w", err)
	case points <= 0:
		log.Printf("warning: grid point count %d; check x_lim and y_lim", points)
	}

	return Summary{
		Stats:        ds.Stats(),
		Params:       params,
		SelectedRows: len(selected),
		GridPoints:   points,
		Bounds:       bounds,
	}, selected, nil
}

func record(ctx context.Context, path string, s Summary, rows dataset.Table) (string, error) {
	st, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer st.Close()

	return st.SaveRun(ctx, store.Run{
		SourcePath: s.Source,
		Params:     s.Params,
		Stats:      s.Stats,
		GridPoints: s.GridPoints,
	}, rows)
}
