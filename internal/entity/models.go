package entity

import "time"

// Session holds one uploaded source file and the cached result of every action run against it
type Session struct {
	ID        string
	Filename  string
	Source    string
	Results   map[ActionKind]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession returns a session with all result slots empty
func NewSession(id, filename, source string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Filename:  filename,
		Source:    source,
		Results:   make(map[ActionKind]string, len(AllActions)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Result returns the cached result for the action, if any
func (s *Session) Result(action ActionKind) (string, bool) {
	text, ok := s.Results[action]
	return text, ok
}

// CachedActions lists the actions whose slots are filled, in display order
func (s *Session) CachedActions() []ActionKind {
	cached := make([]ActionKind, 0, len(s.Results))
	for _, a := range AllActions {
		if _, ok := s.Results[a]; ok {
			cached = append(cached, a)
		}
	}
	return cached
}

// Clone returns a deep copy so stores never share the results map with callers
func (s *Session) Clone() *Session {
	c := *s
	c.Results = make(map[ActionKind]string, len(s.Results))
	for k, v := range s.Results {
		c.Results[k] = v
	}
	return &c
}

// ActionResult is the outcome of running an action against a session
type ActionResult struct {
	SessionID string
	Action    ActionKind
	Text      string
	Cached    bool
}

// SourceLanguage describes the language of uploaded files
type SourceLanguage struct {
	Name          string
	FenceTag      string
	Extension     string
	TestFramework string
}
