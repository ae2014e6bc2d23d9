//go:build withcv
// +build withcv

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

// segmview plays a directory of frames through a ViBe or PBAS engine and
// shows the source frame and foreground mask side by side, for visual
// inspection of segmentation quality.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"time"

	"gocv.io/x/gocv"

	"github.com/ausocean/segm/frameset"
	"github.com/ausocean/segm/segm"
	"github.com/ausocean/utils/logging"
)

const pkg = "segmview: "

func main() {
	dir := flag.String("dir", "", "directory of input frame images (required)")
	variant := flag.String("variant", "vibe", "engine variant: vibe or pbas")
	delay := flag.Duration("delay", 33*time.Millisecond, "delay between frames")
	morph := flag.Bool("morph", true, "enable advanced morphology post-processing")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "segmview: -dir is required")
		os.Exit(2)
	}

	log := logging.New(logging.Info, os.Stderr, false)

	src, err := frameset.New(*dir, frameset.Options{Logger: log})
	if err != nil {
		log.Fatal(pkg+"could not open frame source", "error", err.Error())
	}

	params := segm.DefaultParams(log)
	params.AdvancedMorph = *morph
	params.UseCVPostProcess = true

	var engine segm.Engine
	switch *variant {
	case "vibe":
		engine, err = segm.NewViBe(params)
	case "pbas":
		engine, err = segm.NewPBAS(params)
	default:
		log.Fatal(pkg + "unknown variant, want vibe or pbas")
	}
	if err != nil {
		log.Fatal(pkg+"could not create engine", "error", err.Error())
	}

	first, err := src.Frame(0)
	if err != nil {
		log.Fatal(pkg+"could not fetch first frame", "error", err.Error())
	}
	if err := engine.Initialize(first, nil); err != nil {
		log.Fatal(pkg+"could not initialize engine", "error", err.Error())
	}

	videoWindow := gocv.NewWindow("segmview: frame")
	defer videoWindow.Close()
	maskWindow := gocv.NewWindow("segmview: mask")
	defer maskWindow.Close()

	for i := 1; i < src.Len(); i++ {
		frame, err := src.Frame(i)
		if err != nil {
			log.Error(pkg+"could not fetch frame", "index", i, "error", err.Error())
			continue
		}
		mask, err := engine.Process(frame, 0)
		if err != nil {
			log.Error(pkg+"could not process frame", "index", i, "error", err.Error())
			continue
		}

		frameMat, err := gocv.ImageToMatRGB(frame.ToGoImage())
		if err != nil {
			log.Error(pkg+"could not convert frame to mat", "error", err.Error())
			continue
		}
		maskMat, err := gocv.ImageToMatRGB(maskToGoImage(mask))
		if err != nil {
			frameMat.Close()
			log.Error(pkg+"could not convert mask to mat", "error", err.Error())
			continue
		}

		videoWindow.IMShow(frameMat)
		maskWindow.IMShow(maskMat)
		frameMat.Close()
		maskMat.Close()

		if videoWindow.WaitKey(int(delay.Milliseconds())) == 27 {
			break
		}
	}
}

// maskToGoImage copies a single-channel mask Image into an image.Gray for
// display.
func maskToGoImage(mask segm.Image) image.Image {
	g := image.NewGray(image.Rect(0, 0, mask.W, mask.H))
	copy(g.Pix, mask.Pix)
	return g
}
