//go:build !linux

package platform

// EthtoolProber is a stub that reports no carrier-detect support.
type EthtoolProber struct{}

// NewEthtoolProber returns the stub prober.
func NewEthtoolProber() (*EthtoolProber, error) {
	return &EthtoolProber{}, nil
}

func (p *EthtoolProber) SupportsCarrierDetect(name string) bool {
	return false
}

func (p *EthtoolProber) Close() {}
