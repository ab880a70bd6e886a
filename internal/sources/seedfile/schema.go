package seedfile

// Config represents the top-level structure of the seed file. Every section
// is optional; a section only seeds its key when the store holds nothing yet.
type Config struct {
	Blocklist []BlockedEntry  `yaml:"blocklist,omitempty"`
	Folders   []FolderEntry   `yaml:"folders,omitempty"`
	Bookmarks []BookmarkEntry `yaml:"bookmarks,omitempty"`
	Todos     []string        `yaml:"todos,omitempty"`
}

// BlockedEntry is one site to block. Active defaults to true when omitted.
type BlockedEntry struct {
	URL    string `yaml:"url"`
	Active *bool  `yaml:"active,omitempty"`
}

type FolderEntry struct {
	Name string `yaml:"name"`
}

type BookmarkEntry struct {
	URL    string `yaml:"url"`
	Title  string `yaml:"title,omitempty"`
	Folder string `yaml:"folder,omitempty"`
}
