package session

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Session represents one naming workshop, keyed by its join code.
type Session struct {
	Code         string `json:"code"`
	AdminKeyHash string `json:"adminKeyHash,omitempty"`
	Phase        Phase  `json:"phase"`
	CreatedAt    int64  `json:"createdAt"`
	Gentile      string `json:"gentile"`
	CommuneName  string `json:"communeName"`
}

const (
	// DefaultGentile is used when the session creator leaves the field blank.
	DefaultGentile = "Moussards"
	// DefaultCommuneName is used when the session creator leaves the field blank.
	DefaultCommuneName = "Mouxy"
)

// New creates a session in the lobby phase with an already-hashed admin key.
func New(code, adminKeyHash, gentile, communeName string) *Session {
	if gentile == "" {
		gentile = DefaultGentile
	}
	if communeName == "" {
		communeName = DefaultCommuneName
	}
	return &Session{
		Code:         code,
		AdminKeyHash: adminKeyHash,
		Phase:        PhaseLobby,
		CreatedAt:    time.Now().UnixMilli(),
		Gentile:      gentile,
		CommuneName:  communeName,
	}
}

// Sanitized returns a copy safe to embed in client-facing payloads.
func (s *Session) Sanitized() *Session {
	c := *s
	c.AdminKeyHash = ""
	return &c
}

// Participant is a workshop attendee identified by a client-held opaque token.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GroupID  int    `json:"groupId,omitempty"`
	JoinedAt int64  `json:"joinedAt"`
}

// NewParticipant registers an attendee, minting an id when the client has none.
func NewParticipant(id, name string, groupID int) *Participant {
	if id == "" {
		id = uuid.New().String()
	}
	return &Participant{
		ID:       id,
		Name:     name,
		GroupID:  groupID,
		JoinedAt: time.Now().UnixMilli(),
	}
}

// codeAlphabet excludes I, O, 0 and 1 to avoid confusion when read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a session join code.
const CodeLength = 6

// GenerateCode produces a random session join code.
func GenerateCode() string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// Phase represents the current phase of a workshop session
type Phase string

const (
	PhaseLobby Phase = "lobby"
	PhaseWords Phase = "phase1"
	PhaseNames Phase = "phase2"
	PhaseVote1 Phase = "vote1"
	PhaseVote2 Phase = "vote2"
	PhaseDone  Phase = "done"
)

// Phases lists every phase in workshop order.
func Phases() []Phase {
	return []Phase{PhaseLobby, PhaseWords, PhaseNames, PhaseVote1, PhaseVote2, PhaseDone}
}

func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is one of the six named phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseLobby, PhaseWords, PhaseNames, PhaseVote1, PhaseVote2, PhaseDone:
		return true
	}
	return false
}

// PhaseFromString converts a string to a Phase
func PhaseFromString(s string) (Phase, bool) {
	p := Phase(s)
	return p, p.Valid()
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (p *Phase) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	phase, valid := PhaseFromString(str)
	if !valid {
		return fmt.Errorf("invalid phase: %s", str)
	}
	*p = phase
	return nil
}
