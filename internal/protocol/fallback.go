package protocol

import (
	"fmt"
	"sort"
)

// ErrNoKnownBuilds is returned when fallback selection has nothing to
// choose from.
var ErrNoKnownBuilds = fmt.Errorf("no known protocol builds")

// UnsupportedBuildError reports a build with no exact decoder under strict
// mode.
type UnsupportedBuildError struct {
	Build int
}

func (e *UnsupportedBuildError) Error() string {
	return fmt.Sprintf("unsupported protocol build %d (strict mode)", e.Build)
}

// SelectBuild picks the decoder build to use for a replay.
//
// If build is among known, it is returned as-is. Otherwise, under strict
// mode the mismatch is fatal; under non-strict mode the nearest known build
// is chosen, with ties resolved toward the older build. Past HighBuild the
// selection shifts one step newer when possible, since up-to-date replays
// decode more reliably with a newer protocol than an older one.
//
// The known slice need not be sorted. fallback reports whether a
// substitution happened, so callers can log the degradation.
func (t Thresholds) SelectBuild(build int, known []int, strict bool) (selected int, fallback bool, err error) {
	for _, b := range known {
		if b == build {
			return build, false, nil
		}
	}

	if strict {
		return 0, false, &UnsupportedBuildError{Build: build}
	}
	if len(known) == 0 {
		return 0, false, ErrNoKnownBuilds
	}

	builds := make([]int, len(known))
	copy(builds, known)
	sort.Ints(builds)

	idx := 0
	best := abs(builds[0] - build)
	for i, b := range builds[1:] {
		if d := abs(b - build); d < best {
			best = d
			idx = i + 1
		}
	}

	if build > t.HighBuild && len(builds) >= idx+2 {
		idx++
	}

	return builds[idx], true, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
