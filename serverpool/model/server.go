package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrConfiguration marks a fatal problem with the catalog, the excluded
	// set or the run configuration. It is raised before any scraping happens.
	ErrConfiguration = errors.New("configuration error")

	// ErrNoQualifyingServer is the normal "not found" outcome of a selection.
	ErrNoQualifyingServer = errors.New("no server satisfied region/exclusion/catalog constraints")
)

// ServerRow 是从服务器负载表格中解析出的一行。
// Utilization 总是已解析的 [0,100] 整数，解析失败的行不会被构造。
type ServerRow struct {
	Identifier  string `json:"identifier"` // e.g. "us-ma-01"
	Region      string `json:"region"`     // e.g. "MA"
	Utilization int    `json:"utilization"`
}

// SelectionResult 是一次筛选选出的服务器。
type SelectionResult struct {
	Identifier  string `json:"identifier"`
	Utilization int    `json:"utilization"`
	IP          string `json:"ip"`
}

// Catalog maps a server identifier to its IP address. The zero value is an
// empty catalog; the contents cannot be changed after NewCatalog.
type Catalog struct {
	ips map[string]string
}

// NewCatalog copies entries into a new Catalog. Keys are lower-cased.
func NewCatalog(entries map[string]string) Catalog {
	ips := make(map[string]string, len(entries))
	for k, v := range entries {
		ips[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return Catalog{ips: ips}
}

// Lookup returns the IP for id.
func (c Catalog) Lookup(id string) (string, bool) {
	ip, ok := c.ips[id]
	return ip, ok
}

func (c Catalog) Len() int {
	return len(c.ips)
}

// ExcludedSet is a set of server identifiers that must never be selected.
type ExcludedSet struct {
	ids map[string]struct{}
}

// NewExcludedSet builds a set from ids. Entries are lower-cased; blanks are dropped.
func NewExcludedSet(ids []string) ExcludedSet {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return ExcludedSet{ids: set}
}

func (e ExcludedSet) Contains(id string) bool {
	_, ok := e.ids[id]
	return ok
}

func (e ExcludedSet) Len() int {
	return len(e.ids)
}

// IDs returns the members in sorted order.
func (e ExcludedSet) IDs() []string {
	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AllowedRegions is the ordered inclusion filter of two-letter region codes.
type AllowedRegions []string

// NewAllowedRegions upper-cases and trims codes, dropping blanks and repeats.
func NewAllowedRegions(codes ...string) AllowedRegions {
	out := make(AllowedRegions, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (a AllowedRegions) Contains(region string) bool {
	for _, r := range a {
		if r == region {
			return true
		}
	}
	return false
}
