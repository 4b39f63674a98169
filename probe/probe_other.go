//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package probe

type unsupportedSampler struct{}

func newPlatformSampler() Sampler { return unsupportedSampler{} }

func (unsupportedSampler) Sample() (Snapshot, error) {
	return Snapshot{}, ErrUnsupported
}
