// Package session holds per-chat conversation state. Sessions are
// volatile: they live for one conversation and are discarded on restart
// or process exit. Durable state lives in the profile store only.
package session

import "sync"

// Stage is the conversation driver's current position.
type Stage int

const (
	StageSelecting Stage = iota
	StageCacheChoice
	StageCollecting
	StageConfirming
	StageBlockCollecting
	StageBlockConfirm
	StageBlockDate
)

func (s Stage) String() string {
	switch s {
	case StageSelecting:
		return "selecting"
	case StageCacheChoice:
		return "cache-choice"
	case StageCollecting:
		return "collecting"
	case StageConfirming:
		return "confirming"
	case StageBlockCollecting:
		return "block-collecting"
	case StageBlockConfirm:
		return "block-confirm"
	case StageBlockDate:
		return "block-date"
	default:
		return "unknown"
	}
}

// Block is one repeatable group of answers in the multi-entry flow.
type Block map[string]string

// Session is the mutable per-chat record.
type Session struct {
	ChatID     int64
	Stage      Stage
	TemplateID string

	// Linear flow: ordered field labels, cursor into them, answers by label.
	Fields  []string
	Cursor  int
	Answers map[string]string

	// Block flow: completed blocks plus the one being collected.
	Blocks       []Block
	CurrentBlock Block

	// Profile snapshot loaded at session start, nil when absent.
	CachedProfile map[string]string
}

// Reset returns the session to its initial state: selection stage,
// cursor 0, empty answer set.
func (s *Session) Reset() {
	s.Stage = StageSelecting
	s.TemplateID = ""
	s.Fields = nil
	s.Cursor = 0
	s.Answers = make(map[string]string)
	s.Blocks = nil
	s.CurrentBlock = nil
	s.CachedProfile = nil
}

// ResetCollection restarts field collection for the current template
// without touching the template selection ("no" at confirmation).
func (s *Session) ResetCollection() {
	s.Cursor = 0
	s.Answers = make(map[string]string)
	s.Stage = StageCollecting
}

// Store is an in-memory session registry keyed by chat ID. Access is
// mutex-guarded; each individual session is only ever touched by its own
// chat's sequential event stream.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// Get returns the chat's session, creating a fresh one on first contact.
func (st *Store) Get(chatID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[chatID]
	if !ok {
		s = &Session{ChatID: chatID}
		s.Reset()
		st.sessions[chatID] = s
	}
	return s
}

// Reset discards the chat's session state.
func (st *Store) Reset(chatID int64) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[chatID]
	if !ok {
		s = &Session{ChatID: chatID}
		st.sessions[chatID] = s
	}
	s.Reset()
	return s
}
