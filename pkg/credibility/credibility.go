// Package credibility maps a URL's hostname to a static trust tier.
package credibility

import (
	"net/url"
	"strings"
)

// Tier is a categorical trust label derived from a hostname.
type Tier string

const (
	Tier1          Tier = "tier1"
	Tier2          Tier = "tier2"
	Satire         Tier = "satire"
	Misinformation Tier = "misinformation"
	Unknown        Tier = "unknown"
)

// Lists holds the domain lists per tier, as read from configuration.
type Lists struct {
	Tier1          []string `toml:"tier1"`
	Tier2          []string `toml:"tier2"`
	Satire         []string `toml:"satire"`
	Misinformation []string `toml:"misinformation"`
}

type tierList struct {
	tier    Tier
	domains []string
}

// Table is an immutable lookup built once at startup. It is safe for
// concurrent use.
type Table struct {
	ordered []tierList
}

// NewTable copies the lists so later changes by the caller are not observed.
func NewTable(lists Lists) *Table {
	return &Table{
		ordered: []tierList{
			{tier: Tier1, domains: normalize(lists.Tier1)},
			{tier: Tier2, domains: normalize(lists.Tier2)},
			{tier: Satire, domains: normalize(lists.Satire)},
			{tier: Misinformation, domains: normalize(lists.Misinformation)},
		},
	}
}

func normalize(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Classify checks the lower-cased hostname of rawURL against the tier lists
// in priority order (tier1, tier2, satire, misinformation). The first
// containing match wins; anything else is Unknown.
func (t *Table) Classify(rawURL string) Tier {
	host := Hostname(rawURL)
	if host == "" {
		return Unknown
	}

	for _, list := range t.ordered {
		for _, domain := range list.domains {
			if strings.Contains(host, domain) {
				return list.tier
			}
		}
	}
	return Unknown
}

// Size returns the number of domains per tier.
func (t *Table) Size() map[Tier]int {
	sizes := make(map[Tier]int, len(t.ordered))
	for _, list := range t.ordered {
		sizes[list.tier] = len(list.domains)
	}
	return sizes
}

// Hostname extracts the lower-cased host from rawURL. Bare hosts such as
// "bbc.com/news" are accepted by assuming https.
func Hostname(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
