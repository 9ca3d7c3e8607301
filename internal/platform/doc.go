// Package platform mirrors kernel link state for the rest of the daemon.
//
// # Overview
//
// Devices never talk to the kernel directly. They query a [Platform], which
// answers from an in-memory mirror ([Cache]) kept current by a netlink
// subscription. Queries are map lookups and never block on I/O.
//
// # Key Components
//
//   - [Cache]: the mirror; built from a [Netlinker] and a [CarrierProber]
//   - [RealNetlinker]: netlink access, optionally inside a network namespace
//   - [EthtoolProber]: carrier-detect support via the ETHTOOL_GLINK ioctl
//   - [Static]: an in-memory Platform for dry runs and tests
//
// # Dependencies
//
// Uses github.com/vishvananda/netlink, github.com/vishvananda/netns and
// github.com/safchain/ethtool.
package platform
