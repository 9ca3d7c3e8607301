//go:build linux

package platform

import (
	"fmt"

	"github.com/safchain/ethtool"
)

// EthtoolProber detects carrier-detect support with ETHTOOL_GLINK: a link
// whose driver answers the ioctl can report carrier changes.
type EthtoolProber struct {
	handle *ethtool.Ethtool
}

// NewEthtoolProber opens an ethtool handle.
func NewEthtoolProber() (*EthtoolProber, error) {
	h, err := ethtool.NewEthtool()
	if err != nil {
		return nil, fmt.Errorf("failed to open ethtool handle: %w", err)
	}
	return &EthtoolProber{handle: h}, nil
}

// SupportsCarrierDetect reports whether ETHTOOL_GLINK succeeds for name.
func (p *EthtoolProber) SupportsCarrierDetect(name string) bool {
	_, err := p.handle.LinkState(name)
	return err == nil
}

// Close closes the ethtool handle.
func (p *EthtoolProber) Close() {
	p.handle.Close()
}
