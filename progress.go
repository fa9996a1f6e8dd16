package main

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// tracker wraps a progress bar. A nil tracker does nothing.
type tracker struct {
	bar *progressbar.ProgressBar
}

func newTracker(w io.Writer, label string, total int) *tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &tracker{bar: bar}
}

// Tick increments the progress by 1. Safe for concurrent use.
func (t *tracker) Tick() {
	if t == nil {
		return
	}
	_ = t.bar.Add(1)
}

func (t *tracker) Finish() {
	if t == nil {
		return
	}
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}
