package main

import (
	"fmt"

	flashfinder "github.com/next-exp/flashfinder_go/pkg"
	"golang.org/x/exp/slices"
)

// selectFrames keeps the pulses of the frames that survive skipping the first
// skip frames and reading at most maxFrames, in ascending frame order.
func selectFrames(pulses []flashfinder.Pulse, skip int, maxFrames int) []flashfinder.Pulse {
	frames := make([]int, 0)
	seen := make(map[int]bool)
	for _, pulse := range pulses {
		if !seen[pulse.Frame] {
			seen[pulse.Frame] = true
			frames = append(frames, pulse.Frame)
		}
	}
	slices.Sort(frames)

	keep := make(map[int]bool)
	for i, frame := range frames {
		if i < skip {
			if VerbosityLevel > 1 {
				message := fmt.Sprintf("Skipping frame %d", frame)
				logger.Info(message, "fileReader")
			}
			continue
		}
		if len(keep) >= maxFrames {
			if VerbosityLevel > 0 {
				logger.Info("Max frames reached", "fileReader")
			}
			break
		}
		keep[frame] = true
	}

	selected := make([]flashfinder.Pulse, 0, len(pulses))
	for _, pulse := range pulses {
		if keep[pulse.Frame] {
			selected = append(selected, pulse)
		}
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Selected %d of %d frames", len(keep), len(frames))
		logger.Info(message, "fileReader")
	}
	return selected
}
