// Package ntrip implements the NTRIP correction-stream ingestor plus the
// sourcetable lookup casters expose alongside their mountpoints.
package ntrip

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Sourcetable is an NTRIP sourcetable: the list of mountpoints a caster
// serves.
type Sourcetable struct {
	Mounts []MountPoint
}

// MountPoint describes one STR; entry of a sourcetable.
type MountPoint struct {
	Name          string
	Identifier    string
	Format        string
	FormatDetails string
}

// GetSourcetable retrieves and parses the sourcetable from casterURL.
func GetSourcetable(ctx context.Context, casterURL string) (*Sourcetable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, casterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ntrip: creating sourcetable request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Ntrip-Version", ntripVersion)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ntrip: requesting sourcetable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ntrip: sourcetable request returned status %s", strconv.Itoa(resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ntrip: reading sourcetable body: %w", err)
	}
	return parseSourcetable(string(data)), nil
}

func parseSourcetable(data string) *Sourcetable {
	st := &Sourcetable{}
	for _, line := range strings.Split(data, "\r\n") {
		if !strings.HasPrefix(line, "STR;") {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < 5 {
			continue
		}
		st.Mounts = append(st.Mounts, MountPoint{
			Name:          fields[1],
			Identifier:    fields[2],
			Format:        fields[3],
			FormatDetails: fields[4],
		})
	}
	return st
}
