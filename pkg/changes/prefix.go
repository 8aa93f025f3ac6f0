package changes

import "github.com/agentstation/bookmap/pkg/books"

// NewPrefix returns the events of a newest-first page that precede marker.
// The marker event itself is excluded. When marker is empty or does not
// occur in the page, the whole page is new.
func NewPrefix(events []books.ChangeEvent, marker string) []books.ChangeEvent {
	if marker == "" {
		return events
	}
	for i, ev := range events {
		if ev.ID == marker {
			return events[:i]
		}
	}
	return events
}
