package model

import "time"

// TrendingArticle is a headline from one of the trending sources, tagged
// with the credibility tier of its host.
type TrendingArticle struct {
	ExternalID  string
	Headline    string
	Detail      string
	URL         string
	Source      string
	Publisher   string
	PublishedAt time.Time
	Symbols     []string
	Credibility string
}
