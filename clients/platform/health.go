package platform

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jdgroup-ug/storefront/logger"
)

// healthCheckTimeout bounds the connectivity check; general data calls rely
// on the client's own timeout instead.
const healthCheckTimeout = 5 * time.Second

// CheckConnection pings the platform with a minimal single-row select. It
// is a single attempt on purpose: the caller falls back to sample data when
// this fails, and retrying would just delay that.
func (c *Client) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	q := c.From("products").Select("id").Limit(1)
	resp, err := c.do(ctx, http.MethodGet, restPath+"/"+q.table, q.query(), nil, "", nil)
	if err != nil {
		logger.Log.Warn("platform connection check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode < 400
}
