// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// SpinnerConfig holds the frames of a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration of each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second / 10
	}
	return time.Second / time.Duration(s.FPS)
}

// LineSpinner is a simple line rotation.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner is the classic three-dot animation.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// Spinner animates a label on one terminal line until stopped.
type Spinner struct {
	w      io.Writer
	config SpinnerConfig
	label  string

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	lastLen int
}

// NewSpinner creates a spinner writing to w.
func NewSpinner(w io.Writer, config SpinnerConfig, label string) *Spinner {
	if len(config.Frames) == 0 {
		config = LineSpinner
	}
	return &Spinner{w: w, config: config, label: label}
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

// Stop ends the animation and erases the line. Safe to call when stopped.
func (s *Spinner) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (s *Spinner) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.config.Duration())
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(s.config.Frames[i%len(s.config.Frames)])
		select {
		case <-stop:
			s.clear()
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) draw(frame string) {
	line := lipgloss.NewStyle().Foreground(Cyan).Render(frame) + " " + s.label
	fmt.Fprint(s.w, "\r"+line)
	s.lastLen = runewidth.StringWidth(frame + " " + s.label)
}

func (s *Spinner) clear() {
	if s.lastLen > 0 {
		fmt.Fprint(s.w, "\r"+strings.Repeat(" ", s.lastLen)+"\r")
	}
}
