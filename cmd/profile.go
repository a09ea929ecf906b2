package cmd

import (
	"fmt"

	"github.com/pkg/profile"
)

// startProfile starts the pprof profile named by mode and returns the
// function that writes it out. An empty mode profiles nothing.
func startProfile(mode string) (func(), error) {
	var kind func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		kind = profile.CPUProfile
	case "mem":
		kind = profile.MemProfile
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu or mem)", mode)
	}
	p := profile.Start(kind, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook)
	return p.Stop, nil
}
