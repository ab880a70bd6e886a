package coordinator

import (
	"encoding/json"
	"fmt"
)

// BrowserEvent is one browser lifecycle event forwarded by a UI surface.
type BrowserEvent interface {
	isBrowserEvent()
}

type Installed struct{}

type ContextMenuClicked struct {
	MenuItemID string `json:"menuItemId"`
	PageURL    string `json:"pageUrl"`
	LinkURL    string `json:"linkUrl,omitempty"`
	Title      string `json:"title,omitempty"`
	TabID      int    `json:"tabId"`
}

type TabCreated struct {
	TabID int    `json:"tabId"`
	URL   string `json:"url,omitempty"`
}

type TabActivated struct {
	TabID int    `json:"tabId"`
	URL   string `json:"url"`
}

type TabUpdated struct {
	TabID int    `json:"tabId"`
	URL   string `json:"url"`
}

type TabRemoved struct {
	TabID int `json:"tabId"`
}

type NavigationBefore struct {
	TabID int    `json:"tabId"`
	URL   string `json:"url"`
}

type IdleStateChanged struct {
	State string `json:"state"` // "active" | "idle" | "locked"
}

type AlarmFired struct {
	Name string `json:"name,omitempty"`
}

func (Installed) isBrowserEvent()          {}
func (ContextMenuClicked) isBrowserEvent() {}
func (TabCreated) isBrowserEvent()         {}
func (TabActivated) isBrowserEvent()       {}
func (TabUpdated) isBrowserEvent()         {}
func (TabRemoved) isBrowserEvent()         {}
func (NavigationBefore) isBrowserEvent()   {}
func (IdleStateChanged) isBrowserEvent()   {}
func (AlarmFired) isBrowserEvent()         {}

// DecodeBrowserEvent parses the wire envelope {"type": "...", ...}.
func DecodeBrowserEvent(data []byte) (BrowserEvent, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	switch head.Type {
	case "installed":
		return Installed{}, nil
	case "contextMenuClicked":
		var ev ContextMenuClicked
		return ev, json.Unmarshal(data, &ev)
	case "tabCreated":
		var ev TabCreated
		return ev, json.Unmarshal(data, &ev)
	case "tabActivated":
		var ev TabActivated
		return ev, json.Unmarshal(data, &ev)
	case "tabUpdated":
		var ev TabUpdated
		return ev, json.Unmarshal(data, &ev)
	case "tabRemoved":
		var ev TabRemoved
		return ev, json.Unmarshal(data, &ev)
	case "navigationBefore":
		var ev NavigationBefore
		return ev, json.Unmarshal(data, &ev)
	case "idleStateChanged":
		var ev IdleStateChanged
		return ev, json.Unmarshal(data, &ev)
	case "alarmFired":
		var ev AlarmFired
		return ev, json.Unmarshal(data, &ev)
	default:
		return nil, fmt.Errorf("unknown event type %q", head.Type)
	}
}

// EventResult is what an event handler tells the surface to do. Only
// navigation events carry a redirect; everything else returns the zero
// value.
type EventResult struct {
	Blocked  bool   `json:"blocked"`
	Redirect string `json:"redirect,omitempty"`
}
