package videogen

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"vidgen/internal/domain"
)

// poll drives a single pending job to a terminal state. Each tick waits the
// configured interval, then asks the primary status route; when that route is
// unreachable the legacy status route is tried before the tick is written off.
// The tick budget is a hard ceiling: once spent, the job is reported as timed
// out regardless of its remote state.
func (c *Client) poll(ctx context.Context, jobID string) (string, error) {
	for tick := 0; tick < c.pollMaxTicks; tick++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}

		body, err := c.checkStatus(ctx, jobID)
		if err != nil {
			c.logger.Warn().Err(err).Str("job_id", jobID).Int("tick", tick+1).Msg("videogen: status check failed")
			continue
		}

		status := extractStatus(body)
		switch {
		case isCompleted(status):
			if assetURL := extractAssetURL(body); assetURL != "" {
				c.logger.Debug().Str("job_id", jobID).Int("ticks", tick+1).Msg("videogen: job completed")
				return assetURL, nil
			}
			return "", fmt.Errorf("%w: completed without asset url", domain.ErrProvider)
		case isFailed(status):
			reason := extractFailureReason(body)
			if reason == "" {
				reason = "video generation failed"
			}
			return "", fmt.Errorf("%w: %s", domain.ErrProvider, reason)
		}
	}
	return "", fmt.Errorf("%w: job %s still pending after %d checks", domain.ErrTimeout, jobID, c.pollMaxTicks)
}

func (c *Client) checkStatus(ctx context.Context, jobID string) (map[string]any, error) {
	body, status, err := c.getJSON(ctx, c.baseURL+"/generations/"+url.PathEscape(jobID))
	if err == nil {
		return body, nil
	}
	if !isRouteNotFound(status) && status != 0 {
		return nil, err
	}

	body, _, err = c.getJSON(ctx, c.baseURL+"/video/status?id="+url.QueryEscape(jobID))
	if err != nil {
		return nil, err
	}
	return body, nil
}
