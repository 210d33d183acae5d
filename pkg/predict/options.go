package predict

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient swaps the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero keeps requests unbounded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger attaches a zap logger for request diagnostics.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(next func() string) ClientOption {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}

func newRequestID() string {
	return uuid.NewString()
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger attaches a zap logger to the controller.
func WithControllerLogger(logger *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(fn func(State)) ControllerOption {
	return func(c *Controller) {
		if fn != nil {
			c.observers = append(c.observers, fn)
		}
	}
}

// InsightsOption configures an Insights fetcher.
type InsightsOption func(*Insights)

// WithInsightsLogger attaches the diagnostic logger that receives insights
// failures.
func WithInsightsLogger(logger *zap.Logger) InsightsOption {
	return func(i *Insights) {
		if logger != nil {
			i.logger = logger
		}
	}
}
