package domain

// BlockedItem is a single blocklist entry.
//
// URL holds a normalized host (lowercase, no scheme, no "www.", no path).
// Entries with IsActive=false are kept for the user but never block;
// toggling is a soft-disable that avoids retyping the host later.
type BlockedItem struct {
	URL      string `json:"url"`
	IsActive bool   `json:"isActive"`
}

// TimeEntry is the accumulated dwell time for one (domain, day) pair.
type TimeEntry struct {
	Domain string `json:"domain"`
	// Date is the ISO day ("2006-01-02") derived from the session start,
	// so a session crossing midnight is attributed to its start day.
	Date       string `json:"date"`
	Duration   int64  `json:"duration"` // milliseconds
	StartTime  int64  `json:"startTime"`
	LastUpdate int64  `json:"lastUpdate"` // epoch-ms
}

// TimerState is the singleton persisted countdown. It lives in the store so
// the countdown survives UI reloads and daemon restarts.
type TimerState struct {
	Title       string `json:"title"`
	EndTime     int64  `json:"endTime"` // epoch-ms deadline
	IsPaused    bool   `json:"isPaused"`
	IsCompleted bool   `json:"isCompleted"`
	// PausedAt is the epoch-ms instant Pause was called, zero while running.
	// Resume shifts EndTime by the paused duration so the countdown freezes.
	PausedAt int64 `json:"pausedAt,omitempty"`
}

// Bookmark is a saved page, optionally filed under a folder.
type Bookmark struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	FolderID string `json:"folderId,omitempty"`
}

// Folder groups bookmarks. Deleting a folder deletes its bookmarks.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Todo is a plain checklist item, owned entirely by the UI surfaces.
type Todo struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
