// seed_event.go — standalone script to seed a demo sourcing event via the tenderd API.
//
// Usage:
//
//	go run scripts/seed_event.go -api http://localhost:8700 -user buyer-demo -vendors acme,globex,initech
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type seedRequest struct {
	VendorIDs      []string `json:"vendor_ids"`
	OrganizationID string   `json:"organization_id,omitempty"`
}

type evaluation struct {
	ID           string   `json:"id"`
	VendorID     string   `json:"vendor_id"`
	CriteriaName string   `json:"criteria_name"`
	AIScore      *float64 `json:"ai_score"`
	Weight       float64  `json:"weight"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "tenderd API base URL")
	userID := flag.String("user", "seed-script", "X-User-ID header value")
	eventID := flag.String("event", "", "sourcing event id (default: random)")
	vendors := flag.String("vendors", "acme,globex,initech", "comma-separated vendor ids")
	org := flag.String("org", "demo-org", "organization id")
	acceptAll := flag.Bool("accept-all", false, "accept every AI recommendation after seeding")
	flag.Parse()

	if *eventID == "" {
		*eventID = uuid.NewString()
	}

	vendorIDs := strings.Split(*vendors, ",")
	body, _ := json.Marshal(seedRequest{VendorIDs: vendorIDs, OrganizationID: *org})

	data, err := post(*apiURL+"/api/v1/events/"+*eventID+"/evaluations/seed", *userID, body)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	var evals []evaluation
	if err := json.Unmarshal(data, &evals); err != nil {
		log.Fatalf("decode seed response: %v", err)
	}
	fmt.Printf("seeded event %s: %d evaluations across %d vendors\n", *eventID, len(evals), len(vendorIDs))

	if *acceptAll {
		for _, e := range evals {
			if _, err := post(*apiURL+"/api/v1/evaluations/"+e.ID+"/accept-recommendation", *userID, nil); err != nil {
				log.Fatalf("accept %s/%s: %v", e.VendorID, e.CriteriaName, err)
			}
		}
		fmt.Printf("accepted all %d AI recommendations\n", len(evals))
		fmt.Printf("event is fully scored; submit with:\n  curl -X POST -H 'X-User-ID: %s' %s/api/v1/events/%s/selection/submit\n",
			*userID, *apiURL, *eventID)
	}
}

func post(url, userID string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: %d %s", url, resp.StatusCode, string(data))
	}
	return data, nil
}
