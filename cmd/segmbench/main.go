/*
NAME
  main.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// segmbench runs a ViBe or PBAS engine over a directory of still-image
// frames and reports foreground-ratio statistics.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/segm/frameset"
	"github.com/ausocean/segm/precache"
	"github.com/ausocean/segm/segm"
	"github.com/ausocean/utils/logging"
)

// Logging configuration.
const (
	logPath      = "segmbench.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 3
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

const pkg = "segmbench: "

func main() {
	dir := flag.String("dir", "", "directory of input frame images (required)")
	variant := flag.String("variant", "vibe", "engine variant: vibe or pbas")
	width := flag.Int("width", 0, "resize frames to this width (0 keeps source size)")
	height := flag.Int("height", 0, "resize frames to this height (0 keeps source size)")
	gray := flag.Bool("gray", true, "convert frames to grayscale before processing")
	bufferBytes := flag.Int64("buffer", 0, "precacher ring buffer size, in bytes (0 uses the 6 GiB default)")
	learningRate := flag.Float64("rate", 0, "learning rate override for every frame (0 uses the engine default)")
	advancedMorph := flag.Bool("morph", false, "enable advanced morphology post-processing")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "segmbench: -dir is required")
		os.Exit(2)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	log.Info("starting segmbench", "dir", *dir, "variant", *variant)

	src, err := frameset.New(*dir, frameset.Options{
		Width:     *width,
		Height:    *height,
		Grayscale: *gray,
		Logger:    log,
	})
	if err != nil {
		log.Fatal(pkg+"could not open frame source", "error", err.Error())
	}

	pc := precache.New(src.Frame, precache.Options{BufferBytes: *bufferBytes, Logger: log})
	if err := pc.Start(src.Len()); err != nil {
		log.Fatal(pkg+"could not start precacher", "error", err.Error())
	}
	defer pc.Stop()

	params := segm.DefaultParams(log)
	params.AdvancedMorph = *advancedMorph

	engine, err := newEngine(*variant, params)
	if err != nil {
		log.Fatal(pkg+"could not create engine", "error", err.Error())
	}

	first, err := pc.Get(0)
	if err != nil {
		log.Fatal(pkg+"could not fetch first frame", "error", err.Error())
	}
	if err := engine.Initialize(first, nil); err != nil {
		log.Fatal(pkg+"could not initialize engine", "error", err.Error())
	}

	start := time.Now()
	ratios := make([]float64, 0, src.Len())
	for i := 1; i < src.Len(); i++ {
		frame, err := pc.Get(i)
		if err != nil {
			log.Error(pkg+"could not fetch frame", "index", i, "error", err.Error())
			continue
		}
		mask, err := engine.Process(frame, *learningRate)
		if err != nil {
			log.Error(pkg+"could not process frame", "index", i, "error", err.Error())
			continue
		}
		ratios = append(ratios, foregroundRatio(mask))
	}
	elapsed := time.Since(start)

	report(log, *variant, ratios, elapsed, src.Len())
}

func newEngine(variant string, params segm.Params) (segm.Engine, error) {
	switch variant {
	case "vibe":
		return segm.NewViBe(params)
	case "pbas":
		return segm.NewPBAS(params)
	default:
		return nil, fmt.Errorf("%sunknown variant %q, want vibe or pbas", pkg, variant)
	}
}

// foregroundRatio returns the fraction of mask pixels classified
// foreground.
func foregroundRatio(mask segm.Image) float64 {
	if len(mask.Pix) == 0 {
		return 0
	}
	var fg int
	for _, v := range mask.Pix {
		if v != 0 {
			fg++
		}
	}
	return float64(fg) / float64(len(mask.Pix))
}

// report summarizes the per-frame foreground ratio series and prints it to
// stdout, so the output survives independently of the log file.
func report(log logging.Logger, variant string, ratios []float64, elapsed time.Duration, total int) {
	if len(ratios) == 0 {
		log.Warning(pkg + "no frames processed, nothing to report")
		return
	}
	mean := stat.Mean(ratios, nil)
	variance := stat.Variance(ratios, nil)
	min, max := ratios[0], ratios[0]
	for _, r := range ratios {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	fps := float64(len(ratios)) / elapsed.Seconds()

	fmt.Printf("segmbench report (%s)\n", variant)
	fmt.Printf("  frames:              %d / %d\n", len(ratios), total-1)
	fmt.Printf("  elapsed:             %s (%.1f fps)\n", elapsed, fps)
	fmt.Printf("  foreground ratio:    mean=%.4f stddev=%.4f min=%.4f max=%.4f\n", mean, math.Sqrt(variance), min, max)

	log.Info("segmbench done", "frames", len(ratios), "mean_fg_ratio", mean, "fps", fps)
}
