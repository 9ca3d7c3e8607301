// Package setting models connection profiles: the named bundle of settings
// the daemon matches against devices.
//
// A profile carries one [SettingConnection] (identity: id, uuid, declared
// type, interface name) and at most one [TypeSetting]. The type setting is a
// sealed variant: [Generic] tags a profile as applicable to devices the
// daemon has no specialized handling for, [Loopback] to the loopback device.
// Holding the variant in a single field makes "one connection type per
// profile" structural rather than a convention.
package setting
