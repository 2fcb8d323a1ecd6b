package domain

import "time"

// Domain contains the canonical models shared across the parser.

// NewsRecord is the normalized representation of one news article.
// Every field is always set: a record that cannot be fully populated
// (missing link or title) is never constructed. RawContent stays empty
// for items older than the freshness cutoff or when both text
// resolution attempts fail.
type NewsRecord struct {
	Source     string    `json:"source"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	PubDate    time.Time `json:"pub_date"`
	Categories []string  `json:"categories"`
	RawContent string    `json:"raw_content"`
}
