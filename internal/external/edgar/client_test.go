package edgar

import (
	"testing"

	"github.com/wonny/insidertracker/backend/pkg/config"
	"github.com/wonny/insidertracker/backend/pkg/httputil"
	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// newTestClient builds an EDGAR client without retry so failure tests
// return immediately
func newTestClient(t *testing.T) *Client {
	t.Helper()

	cfg := &config.Config{
		Env:      "test",
		LogLevel: "error",
		SEC: config.SECConfig{
			UserAgent: "test-agent test@example.com",
		},
	}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(httpClient, log)
}
