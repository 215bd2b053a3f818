// seed_vendors.go — standalone script to load a vendor roster from CSV and
// seed vendors via the API.
//
// CSV columns: name, scopes (semicolon separated), rfi_status, rfi_received_at (RFC 3339).
//
// Usage:
//
//	go run scripts/seed_vendors.go -csv vendors.csv -api http://localhost:8700 -token "$ADMIN_TOKEN"
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

type vendorSeed struct {
	Name          string   `json:"name"`
	Scopes        []string `json:"scopes,omitempty"`
	RFIStatus     string   `json:"rfi_status,omitempty"`
	RFIReceivedAt string   `json:"rfi_received_at,omitempty"`
}

func main() {
	csvPath := flag.String("csv", "vendors.csv", "path to vendor roster CSV")
	apiURL := flag.String("api", "http://localhost:8700", "API base URL")
	token := flag.String("token", "", "admin bearer token")
	dryRun := flag.Bool("dry-run", false, "print vendors without posting")
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var vendors []vendorSeed
	for line := 1; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("read roster line %d: %v", line, err)
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		// Header row
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "name") {
			continue
		}

		v := vendorSeed{Name: strings.TrimSpace(rec[0])}
		if len(rec) > 1 && rec[1] != "" {
			for _, s := range strings.Split(rec[1], ";") {
				if s = strings.TrimSpace(s); s != "" {
					v.Scopes = append(v.Scopes, s)
				}
			}
		}
		if len(rec) > 2 {
			v.RFIStatus = strings.TrimSpace(rec[2])
		}
		if len(rec) > 3 {
			v.RFIReceivedAt = strings.TrimSpace(rec[3])
		}
		vendors = append(vendors, v)
	}

	log.Printf("parsed %d vendors from %s", len(vendors), *csvPath)

	if *dryRun {
		for _, v := range vendors {
			data, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(data))
		}
		return
	}

	if *token == "" {
		log.Fatal("-token is required unless -dry-run is set")
	}

	client := &http.Client{}
	created := 0
	for _, v := range vendors {
		data, err := json.Marshal(v)
		if err != nil {
			log.Fatalf("marshal %q: %v", v.Name, err)
		}
		req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/vendors", bytes.NewReader(data))
		if err != nil {
			log.Fatalf("build request for %q: %v", v.Name, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+*token)

		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("post %q: %v", v.Name, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			log.Printf("skip %q: %d %s", v.Name, resp.StatusCode, strings.TrimSpace(string(body)))
			continue
		}
		created++
		log.Printf("created %q", v.Name)
	}

	log.Printf("done: %d/%d created", created, len(vendors))
}
