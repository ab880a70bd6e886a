package coordinator

import (
	"encoding/json"
	"fmt"

	"github.com/tabdeck/tabdeck/internal/domain"
)

// Message is one UI→background request. Each wire action gets its own
// variant so an unhandled action is a compile-time hole in the switch, not
// a silently ignored string tag.
type Message interface {
	isMessage()
}

type RegisterTab struct {
	TabID int `json:"tabId"`
}

type GetBookmarks struct{}

type CreateTimerNotification struct {
	Title string `json:"title"`
}

type SetTimerAlarm struct {
	When int64 `json:"when"` // epoch-ms
}

type ClearTimerAlarm struct{}

type UpdateTimerPause struct {
	IsPaused bool `json:"isPaused"`
}

type CancelTimer struct{}

type CheckSearchResults struct {
	URLs []string `json:"urls"`
}

func (RegisterTab) isMessage()             {}
func (GetBookmarks) isMessage()            {}
func (CreateTimerNotification) isMessage() {}
func (SetTimerAlarm) isMessage()           {}
func (ClearTimerAlarm) isMessage()         {}
func (UpdateTimerPause) isMessage()        {}
func (CancelTimer) isMessage()             {}
func (CheckSearchResults) isMessage()      {}

// DecodeMessage parses the wire envelope {"action": "...", ...} into its
// typed variant.
func DecodeMessage(data []byte) (Message, error) {
	var head struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch head.Action {
	case "registerTab":
		var m RegisterTab
		return m, json.Unmarshal(data, &m)
	case "getBookmarks":
		return GetBookmarks{}, nil
	case "createTimerNotification":
		var m CreateTimerNotification
		return m, json.Unmarshal(data, &m)
	case "setTimerAlarm":
		var m SetTimerAlarm
		return m, json.Unmarshal(data, &m)
	case "clearTimerAlarm":
		return ClearTimerAlarm{}, nil
	case "updateTimerPause":
		var m UpdateTimerPause
		return m, json.Unmarshal(data, &m)
	case "cancelTimer":
		return CancelTimer{}, nil
	case "checkSearchResults":
		var m CheckSearchResults
		return m, json.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unknown message action %q", head.Action)
	}
}

// Response payloads.

type OKResponse struct {
	OK bool `json:"ok"`
}

type BookmarksResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

type BlockedURLsResponse struct {
	BlockedURLs []string `json:"blockedUrls"`
}
