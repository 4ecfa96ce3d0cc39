package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/ruangkopi/internal/auth"
	"github.com/MrSnakeDoc/ruangkopi/internal/domain"
	"github.com/MrSnakeDoc/ruangkopi/internal/favorites"
	"github.com/MrSnakeDoc/ruangkopi/internal/index"
	"github.com/MrSnakeDoc/ruangkopi/internal/logger"
	"github.com/MrSnakeDoc/ruangkopi/internal/metrics"
	redisstore "github.com/MrSnakeDoc/ruangkopi/internal/store/redis"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time     // for testing, defaults to time.Now
	AllowedHosts    []string             // Host headers allowed to reach admin endpoints
	AllowedCIDRS    []string             // IPs allowed to access ops endpoints
	TrustProxy      bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst       int                  // submission/login burst per client IP
	RatePerMin      int                  // submission/login refill per client IP
	CafeFile        string               // Path to the cafe dataset
	RedisClient     *redis.Client        // nil when running in-memory only
	Store           *redisstore.Store    // nil when running in-memory only
	CafeIndex       *index.CafeIndex     // In-memory cafe index
	Favorites       *favorites.Clients   // Per-client favorites stores
	Encoder         *domain.HoursEncoder // Opening hours encoder
	DefaultRadiusKm float64              // Radius for nearby queries without one
	Center          domain.GeoPoint      // Position for nearby queries without one
	Auth            *auth.Authenticator  // Admin login and token checks
	Metrics         *metrics.Metrics     // Prometheus collectors
	ReloadTrigger   chan struct{}        // Channel to trigger manual dataset reload
}

// Now returns the current time from TimeNow, or time.Now when unset.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
