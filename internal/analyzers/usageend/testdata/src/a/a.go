package a

import "probe"

func deferred() {
	h, err := probe.StartUsage()
	if err != nil {
		return
	}
	defer probe.EndUsage(h)
}

func method(p *probe.Probe) error {
	h, err := p.StartUsage()
	if err != nil {
		return err
	}
	_, err = p.EndUsage(h)
	return err
}

func handedOff(p *probe.Probe) {
	h, _ := p.StartUsage()
	finish(p, h)
}

func finish(p *probe.Probe, h probe.Handle) {
	_, _ = p.EndUsage(h)
}

func closure(p *probe.Probe) {
	h, _ := p.StartUsage()
	func() {
		_, _ = p.EndUsage(h)
	}()
}

func returned(p *probe.Probe) (probe.Handle, error) {
	h, err := p.StartUsage()
	return h, err
}

type window struct {
	h probe.Handle
}

func stored(p *probe.Probe) window {
	h, _ := p.StartUsage()
	return window{h: h}
}

func discarded() {
	_, _ = probe.StartUsage() // want `result of StartUsage is discarded`
}

func dropped(p *probe.Probe) {
	p.StartUsage() // want `result of StartUsage is discarded`
}

func leaked(p *probe.Probe) {
	h, err := p.StartUsage() // want `handle h from StartUsage is never ended or handed off`
	if err != nil {
		return
	}
	if h == 0 {
		return
	}
}
