package chargepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// Client talks to the upstream charger vendor API.
type Client struct {
	httpClient *http.Client
	apiHost    string
	headers    map[string]string
}

// NewClient creates a vendor API client. headers carries the session headers
// the vendor endpoint requires (cookie, device authorization, user agent);
// they are passed through verbatim on every request.
func NewClient(apiHost string, headers map[string]string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiHost: apiHost,
		headers: headers,
	}
}

// FetchPortReadings fetches the station detail and returns its physical port
// readings, filtered to supported plug types, with OCPP statuses normalized
// into the closed StatusCode set. An empty slice means the vendor reported no
// usable ports for the station.
func (c *Client) FetchPortReadings(ctx context.Context, stationID string) ([]models.PortReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiHost+stationID, nil)
	if err != nil {
		return nil, fmt.Errorf("create station request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch station %s: %w", stationID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch station %s: status=%d body=%s", stationID, resp.StatusCode, string(body))
	}

	var payload stationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode station %s response: %w", stationID, err)
	}

	if len(payload.Data.Evses) == 0 {
		return nil, nil
	}

	var readings []models.PortReading
	for _, p := range payload.Data.Evses[0].Ports {
		if !supportedPlugTypes[p.PlugType] {
			continue
		}
		readings = append(readings, models.PortReading{
			PlugType:   p.PlugType,
			PortStatus: p.PortStatus,
			OcppStatus: models.ParseStatus(p.PortOcppStatus),
		})
	}
	return readings, nil
}
