//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package probe

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

type rusageSampler struct {
	// multiplier turning ru_maxrss into bytes
	rssUnit int64
}

func newPlatformSampler() Sampler {
	unit := int64(1024)
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		unit = 1
	}
	return rusageSampler{rssUnit: unit}
}

// Sample reads getrusage(RUSAGE_SELF).
func (s rusageSampler) Sample() (Snapshot, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return Snapshot{}, fmt.Errorf("getrusage: %w", err)
	}
	return Snapshot{
		User:     ru.Utime.Nano() / 1000,
		System:   ru.Stime.Nano() / 1000,
		MaxRSS:   int64(ru.Maxrss) * s.rssUnit,
		InBlock:  int64(ru.Inblock),
		OutBlock: int64(ru.Oublock),
	}, nil
}
