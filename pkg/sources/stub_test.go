package sources

import (
	"context"
	"fmt"

	"github.com/HomeDim/news-parser/pkg/httpclient"
)

// stubResponse implements httpclient.Response.
type stubResponse struct {
	body       []byte
	statusCode int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.statusCode }

// routeClient serves canned responses per URL and records calls. URLs
// without a canned response fail, mirroring a fetch error.
type routeClient struct {
	responses map[string]stubResponse
	calls     []string
}

func (c *routeClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	c.calls = append(c.calls, url)
	resp, ok := c.responses[url]
	if !ok {
		return nil, fmt.Errorf("unexpected url %q", url)
	}
	if resp.statusCode == 0 {
		resp.statusCode = 200
	}
	if resp.statusCode < 200 || resp.statusCode >= 300 {
		return resp, &httpclient.FetchError{Kind: httpclient.KindStatus, URL: url, StatusCode: resp.statusCode}
	}
	return resp, nil
}
