/*
NAME
  frameset.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frameset provides a frame source backed by a directory of image
// files read by index, so that the segmentation engine and precacher can be
// exercised end to end without a video decoder.
package frameset

import (
	"image"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/ausocean/segm/segm"
	"github.com/ausocean/utils/logging"
)

// ErrIndexRange is returned by Frame when idx is outside [0, Len()).
var ErrIndexRange = errors.New("frameset: index out of range")

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Options configures a Source.
type Options struct {
	// Width and Height, if both nonzero, resize every frame to this size
	// using nearest-neighbor scaling, so that a directory of mismatched
	// source image sizes still presents a single fixed frame size to the
	// engine, which requires every frame to share the size Initialize was
	// called with.
	Width, Height int
	// Grayscale converts every frame to a single channel on load.
	Grayscale bool
	// Logger receives diagnostic messages. May be left nil.
	Logger logging.Logger
}

// Source is a frame source over a directory of image files, read by index
// in lexical filename order.
type Source struct {
	mu    sync.Mutex
	files []string
	opts  Options
}

// New returns a Source over every .png/.jpg/.jpeg file directly inside dir,
// sorted by filename.
func New(dir string, opts Options) (*Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "frameset: cannot read directory %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[filepath.Ext(e.Name())] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, errors.Errorf("frameset: no image files found in %s", dir)
	}
	return &Source{files: files, opts: opts}, nil
}

// Len returns the number of frames in the set.
func (s *Source) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Frame decodes and returns the frame at idx. It matches
// precache.FetchFunc's signature so a Source can be used directly as a
// precacher's fetch function.
func (s *Source) Frame(idx int) (segm.Image, error) {
	s.mu.Lock()
	if idx < 0 || idx >= len(s.files) {
		s.mu.Unlock()
		return segm.Image{}, errors.Wrapf(ErrIndexRange, "%d", idx)
	}
	path := s.files[idx]
	opts := s.opts
	s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return segm.Image{}, errors.Wrapf(err, "frameset: cannot open %s", path)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return segm.Image{}, errors.Wrapf(err, "frameset: cannot decode %s", path)
	}

	if opts.Width > 0 && opts.Height > 0 {
		src = resize(src, opts.Width, opts.Height)
	}

	if opts.Grayscale {
		return segm.FromGray(toGray(src)), nil
	}
	return segm.FromNRGBA(toNRGBA(src)), nil
}

func resize(src image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(b)
	stddraw.Draw(dst, b, src, b.Min, stddraw.Src)
	return dst
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	stddraw.Draw(dst, b, src, b.Min, stddraw.Src)
	return dst
}
