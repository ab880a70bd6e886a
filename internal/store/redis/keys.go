package redis

import "strings"

// Two key scopes, mirroring the extension storage split: the sync scope is
// small shared settings, the local scope is larger per-machine data.
const (
	KeyPrefixSync  = "tabdeck:sync:"
	KeyPrefixLocal = "tabdeck:local:"

	KeyBlocklist   = KeyPrefixSync + "blocklist"
	KeyBookmarks   = KeyPrefixLocal + "bookmarks"
	KeyFolders     = KeyPrefixLocal + "folders"
	KeyTodos       = KeyPrefixLocal + "todos"
	KeyTimer       = KeyPrefixLocal + "timer"
	KeyTimeEntries = KeyPrefixLocal + "time_entries"
	KeyBackground  = KeyPrefixLocal + "background"
)

// ShortKey strips the scope prefix for wire-level change events, so UI
// surfaces see "blocklist" rather than the Redis namespacing.
func ShortKey(key string) string {
	if k := strings.TrimPrefix(key, KeyPrefixSync); k != key {
		return k
	}
	return strings.TrimPrefix(key, KeyPrefixLocal)
}
