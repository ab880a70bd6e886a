package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tabdeck/tabdeck/internal/bus"
	"github.com/tabdeck/tabdeck/internal/coordinator"
	"github.com/tabdeck/tabdeck/internal/index"
	"github.com/tabdeck/tabdeck/internal/logger"
	redisstore "github.com/tabdeck/tabdeck/internal/store/redis"
	"github.com/tabdeck/tabdeck/internal/timer"
	"github.com/tabdeck/tabdeck/internal/tracker"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time // for testing, defaults to time.Now
	AllowedCIDRS    []string         // IPs allowed to reach the API
	TrustProxy      bool             // true if running behind a trusted reverse proxy
	BlockedPagePath string           // where blocked navigations land

	RedisClient    *redis.Client // Redis client connection
	Store          *redisstore.Store
	Coordinator    *coordinator.Coordinator
	Timer          *timer.Engine
	Tracker        *tracker.Tracker
	Events         *bus.Bus              // broadcast bus for UI surfaces
	BlocklistIndex *index.BlocklistIndex // in-memory blocklist snapshot
	PruneTrigger   chan struct{}         // channel to trigger a manual retention prune
}
