package publishers

import (
	"time"

	"github.com/HomeDim/news-parser/internal/domain"
)

// Event is the payload published downstream for one collected record.
type Event struct {
	Source      string            `json:"source"`
	Record      domain.NewsRecord `json:"record"`
	CollectedAt time.Time         `json:"collected_at"`
}

// NewEvent constructs an Event for the given record.
func NewEvent(record domain.NewsRecord) Event {
	return Event{
		Source:      record.Source,
		Record:      record,
		CollectedAt: time.Now().UTC(),
	}
}
