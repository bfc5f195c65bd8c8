package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// VendorProfile is the directory's view of a registered vendor.
type VendorProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"` // active, suspended, withdrawn
}

type Client interface {
	GetVendor(ctx context.Context, vendorID string) (*VendorProfile, error)
	ListVendors(ctx context.Context) ([]VendorProfile, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("directory %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) GetVendor(ctx context.Context, vendorID string) (*VendorProfile, error) {
	data, err := c.doReq(ctx, "GET", "/vendors/"+vendorID)
	if err != nil {
		return nil, err
	}
	var profile VendorProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *HTTPClient) ListVendors(ctx context.Context) ([]VendorProfile, error) {
	data, err := c.doReq(ctx, "GET", "/vendors")
	if err != nil {
		return nil, err
	}
	var profiles []VendorProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// DisplayName resolves a vendor id to its display name, degrading to the
// raw id when the directory is unreachable or the vendor is unknown.
func DisplayName(ctx context.Context, c Client, vendorID string) string {
	if c == nil {
		return vendorID
	}
	profile, err := c.GetVendor(ctx, vendorID)
	if err != nil || profile == nil || profile.DisplayName == "" {
		return vendorID
	}
	return profile.DisplayName
}
