// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner animates while a long request is in flight.
type Spinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
	quit chan struct{}
}

// StartSpinner draws an indeterminate spinner with desc on w until Stop.
func StartSpinner(w io.Writer, desc string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	s := &Spinner{bar: bar, done: make(chan struct{}), quit: make(chan struct{})}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.quit:
				return
			case <-ticker.C:
				s.bar.Add(1)
			}
		}
	}()
	return s
}

// Stop clears the spinner. It is safe to call once.
func (s *Spinner) Stop() {
	close(s.quit)
	<-s.done
	s.bar.Finish()
}
