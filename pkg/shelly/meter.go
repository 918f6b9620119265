// shelly reads the total active power from Shelly energy meters over their local HTTP API.
package shelly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Meter is a Shelly 3EM (Gen 1) or Pro 3EM (Gen 2) energy meter.
type Meter struct {
	Client *http.Client
	Addr   string
	// Gen selects the API generation, 1 or 2.
	Gen int
}

type gen1Status struct {
	TotalPower float64 `json:"total_power"`
}

type gen2EMStatus struct {
	TotalActPower float64 `json:"total_act_power"`
}

// TotalPower returns the power summed over all phases in watt.
// Positive values is power taken from the grid/uplink.
// Negative values is power injected to the grid/uplink.
func (m Meter) TotalPower(ctx context.Context) (float64, error) {
	switch m.Gen {
	case 1:
		var s gen1Status
		err := m.get(ctx, url.URL{Scheme: "http", Host: m.Addr, Path: "/status"}, &s)
		return s.TotalPower, err
	case 2:
		var s gen2EMStatus
		err := m.get(ctx, url.URL{Scheme: "http", Host: m.Addr, Path: "/rpc/EM.GetStatus", RawQuery: "id=0"}, &s)
		return s.TotalActPower, err
	default:
		return 0, fmt.Errorf("unsupported shelly generation %d", m.Gen)
	}
}

func (m Meter) get(ctx context.Context, u url.URL, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to construct request: %w", err)
	}
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to read from shelly device: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code from shelly device: %v", resp.StatusCode)
	}

	// we expect no valid response larger than 1mb
	bodyReader := io.LimitReader(resp.Body, 1024*1024)
	if err := json.NewDecoder(bodyReader).Decode(v); err != nil {
		return fmt.Errorf("failed to parse response from shelly device: %w", err)
	}
	return nil
}
