package platform

import (
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"
)

// MockNetlinker is a mock implementation of the Netlinker interface.
type MockNetlinker struct {
	mock.Mock
}

func (m *MockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkByIndex(index int) (netlink.Link, error) {
	args := m.Called(index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkSubscribe(ch chan<- LinkUpdate, done <-chan struct{}) error {
	args := m.Called(ch, done)
	return args.Error(0)
}

func (m *MockNetlinker) Close() {
	m.Called()
}

// MockCarrierProber is a mock implementation of the CarrierProber interface.
type MockCarrierProber struct {
	mock.Mock
}

func (m *MockCarrierProber) SupportsCarrierDetect(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}
