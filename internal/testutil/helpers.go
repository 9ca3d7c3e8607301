// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"

	"grimm.is/netdevd/internal/brand"
)

// VMTestEnv gates tests that need a real kernel (netlink, ethtool).
const VMTestEnv = brand.ConfigEnvPrefix + "_VM_TEST"

// RequireVM skips the test unless NETDEVD_VM_TEST is set.
func RequireVM(t *testing.T) {
	t.Helper()
	if os.Getenv(VMTestEnv) == "" {
		t.Skip("Skipping test: requires " + VMTestEnv + " environment")
	}
}
