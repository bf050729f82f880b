package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/ecfrdata"
)

const defaultBaseURL = "https://www.ecfr.gov/api"

// ECFRClient fetches structure and content from the eCFR versioner API.
// Retries with exponential backoff; the worker pool above this client is the
// only other rate-limiting mechanism.
type ECFRClient struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries int
	Backoff    float64
}

func NewECFRClient() *ECFRClient {
	return &ECFRClient{
		BaseURL:    defaultBaseURL,
		Client:     &http.Client{Timeout: 60 * time.Second},
		MaxRetries: 3,
		Backoff:    1.5,
	}
}

// ListTitles returns metadata for every CFR title, including amendment dates.
func (c *ECFRClient) ListTitles(ctx context.Context) ([]ecfrdata.TitleInfo, error) {
	body, err := c.get(ctx, "/versioner/v1/titles.json", nil)
	if err != nil {
		return nil, err
	}

	var resp ecfrdata.TitlesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error decoding titles response: %w", err)
	}

	return resp.Titles, nil
}

// GetTitleStructure returns the point-in-time structure tree for a title.
// A 404 maps to data.ErrTitleNotFound so callers can distinguish a missing
// title from an empty one.
func (c *ECFRClient) GetTitleStructure(
	ctx context.Context,
	titleNumber int,
	versionDate time.Time,
) (ecfrdata.Node, error) {
	path := fmt.Sprintf("/versioner/v1/structure/%s/title-%d.json",
		versionDate.Format("2006-01-02"), titleNumber)

	body, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	var node map[string]any
	if err := json.Unmarshal(body, &node); err != nil {
		return nil, fmt.Errorf("error decoding structure for title %d: %w", titleNumber, err)
	}

	return ecfrdata.Node(node), nil
}

// GetPartXML returns the full XML rendering of one part at one date.
func (c *ECFRClient) GetPartXML(
	ctx context.Context,
	titleNumber int,
	partNum string,
	versionDate time.Time,
) (string, error) {
	path := fmt.Sprintf("/versioner/v1/full/%s/title-%d.xml",
		versionDate.Format("2006-01-02"), titleNumber)

	body, err := c.get(ctx, path, url.Values{"part": {partNum}})
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *ECFRClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.BaseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastStatus int
	var lastErr error

	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(math.Pow(c.Backoff, float64(attempt)) * float64(time.Second))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("error building request for %s: %w", u, err)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w", u, data.ErrTitleNotFound)
		default:
			lastStatus = resp.StatusCode
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
	}

	return nil, fmt.Errorf("GET %s failed after %d attempts (last status %d): %w",
		u, c.MaxRetries, lastStatus, lastErr)
}
