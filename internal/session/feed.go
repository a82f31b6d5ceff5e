package session

import (
	"fmt"
	"slices"
	"time"
)

// FeedEntry is one line of the activity feed
type FeedEntry struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// String renders the entry the way the feed panel shows it
func (e FeedEntry) String() string {
	return fmt.Sprintf("> %s [%s]", e.Message, e.At.Format(time.TimeOnly))
}

// Feed returns the activity feed, newest first
func (s *Session) Feed() []FeedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.feed)
}

// Log appends a host supplied message to the feed
func (s *Session) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLog(msg)
}

// addLog prepends msg to the bounded feed; callers hold the lock
func (s *Session) addLog(msg string) {
	entry := FeedEntry{Message: msg, At: s.now()}
	s.feed = slices.Insert(s.feed, 0, entry)
	if len(s.feed) > s.feedSize {
		s.feed = s.feed[:s.feedSize]
	}
	s.logger.Info(msg, "component", "feed")
	s.emit(NotifyLog, entry.String())
}
