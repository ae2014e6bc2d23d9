/*
NAME
  precacher_test.go

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package precache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ausocean/segm/segm"
)

func frameOf(idx int) segm.Image {
	img := segm.NewImage(1, 1, 1)
	img.Pix[0] = byte(idx)
	return img
}

func countingFetch(calls *int64) FetchFunc {
	return func(idx int) (segm.Image, error) {
		atomic.AddInt64(calls, 1)
		return frameOf(idx), nil
	}
}

func TestGetInOrderReturnsExpectedFrames(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{BufferBytes: 4})
	if err := p.Start(10); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	for i := 0; i < 10; i++ {
		img, err := p.Get(i)
		if err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
		if img.Pix[0] != byte(i) {
			t.Fatalf("Get(%d) = %d, want %d", i, img.Pix[0], i)
		}
	}
}

func TestGetOutOfOrderResyncs(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{BufferBytes: 4})
	if err := p.Start(20); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	if _, err := p.Get(0); err != nil {
		t.Fatalf("Get(0): %v", err)
	}
	img, err := p.Get(15)
	if err != nil {
		t.Fatalf("Get(15): %v", err)
	}
	if img.Pix[0] != 15 {
		t.Fatalf("Get(15) = %d, want 15", img.Pix[0])
	}
	// resync should continue in order from 16.
	img, err = p.Get(16)
	if err != nil {
		t.Fatalf("Get(16): %v", err)
	}
	if img.Pix[0] != 16 {
		t.Fatalf("Get(16) = %d, want 16", img.Pix[0])
	}
}

func TestGetRejectsOutOfRangeIndex(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{})
	if err := p.Start(5); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	if _, err := p.Get(-1); err == nil {
		t.Error("expected error for negative index")
	}
	if _, err := p.Get(5); err == nil {
		t.Error("expected error for index == total")
	}
}

func TestStartRejectsBufferBytesOverPlatformCap(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{BufferBytes: maxBufferBytes + 1})
	if err := p.Start(5); err != ErrPrecacheOverflow {
		t.Fatalf("got %v, want ErrPrecacheOverflow", err)
	}
}

func TestStartTwiceFails(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{})
	if err := p.Start(5); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()
	if err := p.Start(5); err != ErrAlreadyRunning {
		t.Fatalf("got %v, want ErrAlreadyRunning", err)
	}
}

func TestGetAfterStopFallsBackToDirectFetch(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{})
	if err := p.Start(5); err != nil {
		t.Fatalf("Start: %v", err)
	}
	p.Stop()
	img, err := p.Get(2)
	if err != nil {
		t.Fatalf("Get after Stop: %v", err)
	}
	if img.Pix[0] != 2 {
		t.Fatalf("got %d, want 2", img.Pix[0])
	}
}

func TestProducerFillsCacheToBudgetWhenIdle(t *testing.T) {
	var calls int64
	p := New(countingFetch(&calls), Options{BufferBytes: 4})
	if err := p.Start(100); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&calls) < 4 {
		t.Errorf("expected at least 4 precache fetches after idling, got %d", calls)
	}
}
