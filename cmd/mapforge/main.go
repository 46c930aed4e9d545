package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
	"mapforge/internal/gen/stages"
	"mapforge/internal/gen/tuning"
	"mapforge/internal/persistence/indexdb"
	shapelog "mapforge/internal/persistence/log"
	"mapforge/internal/persistence/snapshot"
	"mapforge/internal/preview"
)

func main() {
	var (
		seed       = flag.Int64("seed", 1337, "master seed (ignored when replaying a snapshot)")
		sizeKey    = flag.String("size", "small", "world size key from worlds.yaml")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		snapPath   = flag.String("snapshot", "", "replay this snapshot instead of a fresh run")
		pngOut     = flag.String("png", "", "preview PNG path (default: <data>/maps/<run-id>.png)")
		shapeLogOn = flag.Bool("shape_log", true, "write the per-run shape record log")
		disableDB  = flag.Bool("disable_db", false, "skip recording the run in the index db")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[mapforge] ", log.LstdFlags|log.Lmicroseconds)

	cat, err := catalogs.Load(filepath.Join(*configDir, "regions.json"))
	if err != nil {
		logger.Fatalf("load regions: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(*configDir, "worlds.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load worlds config: %v", err)
		}
		logger.Printf("worlds.yaml not found; using defaults")
		tune = tuning.Defaults()
	}

	stageList, err := stages.All(cat)
	if err != nil {
		logger.Fatalf("build stages: %v", err)
	}

	runSeed := *seed
	runSize := strings.TrimSpace(*sizeKey)
	if *snapPath != "" {
		snap, err := snapshot.Load(*snapPath)
		if err != nil {
			logger.Fatalf("load snapshot: %v", err)
		}
		if err := snap.Apply(stageList); err != nil {
			logger.Fatalf("apply snapshot: %v", err)
		}
		if len(snap.Layers) > 0 {
			tune.Layers = snap.Layers
		}
		runSeed = snap.Seed
		runSize = snap.WorldSize
		logger.Printf("replaying snapshot %s (seed %d)", snap.Header.RunID, runSeed)
	}

	size, ok := tune.WorldSizes[runSize]
	if !ok {
		logger.Fatalf("unknown world size %q", runSize)
	}

	eng := raster.New(tune.RasterThreshold)
	defer eng.Close()
	if tune.CalibrateRaster {
		logger.Printf("calibrated raster threshold: %d px", eng.Calibrate())
	}

	runID := uuid.NewString()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	var sink *shapelog.ShapeLogger
	cfg := pipeline.Config{
		Stages:  stageList,
		Seed:    runSeed,
		Width:   size.Width,
		Height:  size.Height,
		Tune:    tune,
		Regions: cat,
		Raster:  eng,
	}
	if *shapeLogOn {
		sink, err = shapelog.NewShapeLogger(filepath.Join(*dataDir, "shapes"), runID)
		if err != nil {
			logger.Fatalf("open shape log: %v", err)
		}
		defer func() {
			if err := sink.Close(); err != nil {
				logger.Printf("shape log: %v", err)
			}
		}()
		cfg.Records = sink
	}

	sched := pipeline.New(cfg)
	start := time.Now()
	if err := sched.RunToEnd(); err != nil {
		logger.Fatalf("generation failed at step %d (%s): %v",
			sched.Cursor(), sched.StepName(sched.Cursor()), err)
	}
	digest := sched.Grid().Digest()
	logger.Printf("generated %dx%d world in %s (seed %d, digest %s)",
		size.Width, size.Height, time.Since(start).Round(time.Millisecond), runSeed, digest[:12])

	snapOut := filepath.Join(*dataDir, "snapshots", fmt.Sprintf("%s.json.zst", runID))
	snap := snapshot.Capture(runID, createdAt, runSeed, runSize, size.Width, size.Height, stageList)
	snap.Layers = tune.Layers
	snap.GridDigest = digest
	if err := snapshot.Save(snapOut, snap); err != nil {
		logger.Fatalf("save snapshot: %v", err)
	}

	png := strings.TrimSpace(*pngOut)
	if png == "" {
		png = filepath.Join(*dataDir, "maps", runID+".png")
	}
	if err := preview.WritePNG(png, sched.Grid(), cat); err != nil {
		logger.Fatalf("write preview: %v", err)
	}
	logger.Printf("wrote %s and %s", png, snapOut)

	if !*disableDB {
		idx, err := indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
		err = idx.RecordRun(indexdb.Run{
			RunID:        runID,
			CreatedAt:    createdAt,
			Seed:         runSeed,
			SizeKey:      runSize,
			Width:        size.Width,
			Height:       size.Height,
			GridDigest:   digest,
			SnapshotPath: snapOut,
		})
		if err != nil {
			logger.Fatalf("record run: %v", err)
		}
	}
}
