package services

import (
	"fmt"
	"sync"
	"time"

	"farmhub/pkg/models"

	"github.com/google/uuid"
)

// UploadState is the explicit state of one upload session. Every state change
// goes through transition so illegal combinations cannot occur.
type UploadState string

const (
	UploadStateIdle                 UploadState = "idle"
	UploadStateFileDropped          UploadState = "file_dropped"
	UploadStateParsed               UploadState = "parsed"
	UploadStateColumnValidated      UploadState = "column_validated"
	UploadStateColumnInvalid        UploadState = "column_invalid"
	UploadStatePasswordRequired     UploadState = "password_required"
	UploadStateOptionMapped         UploadState = "option_mapped"
	UploadStateOptionResolved       UploadState = "option_resolved"
	UploadStateAwaitingConfirmation UploadState = "awaiting_confirmation"
	UploadStateSubmitted            UploadState = "submitted"
)

// uploadTransitions lists the legal state changes of the upload pipeline
var uploadTransitions = map[UploadState][]UploadState{
	UploadStateIdle:                 {UploadStateFileDropped},
	UploadStateFileDropped:          {UploadStateParsed, UploadStatePasswordRequired},
	UploadStatePasswordRequired:     {UploadStateFileDropped},
	UploadStateParsed:               {UploadStateColumnValidated, UploadStateColumnInvalid},
	UploadStateColumnInvalid:        {UploadStateIdle},
	UploadStateColumnValidated:      {UploadStateOptionMapped},
	UploadStateOptionMapped:         {UploadStateAwaitingConfirmation, UploadStateOptionResolved},
	UploadStateOptionResolved:       {UploadStateAwaitingConfirmation, UploadStateSubmitted},
	UploadStateAwaitingConfirmation: {UploadStateSubmitted, UploadStateIdle},
}

// UploadSession is the staging state of a single upload attempt. It is owned
// by that attempt alone, lives in memory only and is discarded on submission,
// cancellation or expiry. Nothing is persisted before submission.
type UploadSession struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	State          UploadState
	FileName       string
	MarketName     string
	SheetDate      string
	FileData       []byte
	Rows           []models.UploadRow
	MappingResults []models.MappingResult
	MappedOrders   int
	Lookup         OptionLookup
	UnmatchedNames []string
	CreatedAt      time.Time
}

// transition moves the session to the next state, rejecting illegal moves
func (s *UploadSession) transition(to UploadState) error {
	for _, allowed := range uploadTransitions[s.State] {
		if allowed == to {
			s.State = to
			return nil
		}
	}
	return fmt.Errorf("illegal upload state transition: %s -> %s", s.State, to)
}

// sessionStore holds upload sessions awaiting user confirmation. Sessions are
// keyed by uuid, scoped to one upload attempt and expired after a TTL so an
// abandoned modal never leaks staging data.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*UploadSession
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[uuid.UUID]*UploadSession),
		ttl:      ttl,
	}
}

func (st *sessionStore) Put(session *UploadSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.purgeLocked()
	st.sessions[session.ID] = session
}

func (st *sessionStore) Get(id uuid.UUID) (*UploadSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	session, exists := st.sessions[id]
	if !exists || time.Since(session.CreatedAt) > st.ttl {
		return nil, false
	}
	return session, true
}

// Take removes and returns the session in one step so only a single caller
// can ever claim it. A concurrent confirm or cancel of the same session sees
// a miss instead of submitting the batch twice.
func (st *sessionStore) Take(id uuid.UUID) (*UploadSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	session, exists := st.sessions[id]
	if !exists || time.Since(session.CreatedAt) > st.ttl {
		return nil, false
	}
	delete(st.sessions, id)
	return session, true
}

func (st *sessionStore) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *sessionStore) purgeLocked() {
	for id, session := range st.sessions {
		if time.Since(session.CreatedAt) > st.ttl {
			delete(st.sessions, id)
		}
	}
}
