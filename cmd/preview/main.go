package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"mapforge/internal/gen/catalogs"
	"mapforge/internal/gen/pipeline"
	"mapforge/internal/gen/raster"
	"mapforge/internal/gen/stages"
	"mapforge/internal/gen/tuning"
	"mapforge/internal/transport/observer"
)

func main() {
	var (
		addr      = flag.String("addr", "127.0.0.1:8080", "http listen address")
		seed      = flag.Int64("seed", 1337, "master seed")
		sizeKey   = flag.String("size", "small", "world size key from worlds.yaml")
		configDir = flag.String("configs", "./configs", "config directory")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[preview] ", log.LstdFlags|log.Lmicroseconds)

	cat, err := catalogs.Load(filepath.Join(*configDir, "regions.json"))
	if err != nil {
		logger.Fatalf("load regions: %v", err)
	}
	tune, err := tuning.Load(filepath.Join(*configDir, "worlds.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load worlds config: %v", err)
		}
		tune = tuning.Defaults()
	}
	size, ok := tune.WorldSizes[*sizeKey]
	if !ok {
		logger.Fatalf("unknown world size %q", *sizeKey)
	}

	stageList, err := stages.All(cat)
	if err != nil {
		logger.Fatalf("build stages: %v", err)
	}

	eng := raster.New(tune.RasterThreshold)
	defer eng.Close()

	sched := pipeline.New(pipeline.Config{
		Stages:  stageList,
		Seed:    *seed,
		Width:   size.Width,
		Height:  size.Height,
		Tune:    tune,
		Regions: cat,
		Raster:  eng,
	})

	srv := observer.NewServer(uuid.NewString(), sched, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/bootstrap", srv.BootstrapHandler())
	mux.HandleFunc("/v1/ws", srv.WSHandler())

	logger.Printf("preview on http://%s (seed %d, %dx%d)", *addr, *seed, size.Width, size.Height)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Fatalf("http: %v", err)
	}
}
