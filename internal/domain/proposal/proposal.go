package proposal

import (
	"time"

	"github.com/google/uuid"
)

// Form is the naming pattern a proposal follows.
type Form string

const (
	FormEnsemble  Form = "ensemble"  // Ensemble/Unis/Réunis pour X
	FormCommun    Form = "commun"    // X en commun / X, le lien
	FormMouvement Form = "mouvement" // X en mouvement / Élan pour X
	FormIdentite  Form = "identite"  // Les Moussards pour X
	FormAppel     Form = "appel"     // Interjection/appel
)

// Forms lists the fixed set of naming patterns.
func Forms() []Form {
	return []Form{FormEnsemble, FormCommun, FormMouvement, FormIdentite, FormAppel}
}

// Valid reports whether f belongs to the fixed form set.
func (f Form) Valid() bool {
	switch f {
	case FormEnsemble, FormCommun, FormMouvement, FormIdentite, FormAppel:
		return true
	}
	return false
}

// Group bounds for proposal authorship.
const (
	MinGroupID = 1
	MaxGroupID = 5
)

// MaxPerParticipant caps active proposals per participant, enforced
// server-side.
const MaxPerParticipant = 5

// Proposal is an append-only log entry created by a participant. MergedInto
// and IsShortlisted are admin-only annotations patched in place afterwards.
type Proposal struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Justification string `json:"justification"`
	Subtitle      string `json:"subtitle,omitempty"`
	GroupID       int    `json:"groupId"`
	Form          Form   `json:"form"`
	ParticipantID string `json:"participantId"`
	CreatedAt     int64  `json:"createdAt"`
	MergedInto    string `json:"mergedInto,omitempty"`
	IsShortlisted bool   `json:"isShortlisted,omitempty"`
}

// New creates a proposal with a fresh id and server timestamp.
func New(name, justification, subtitle string, groupID int, form Form, participantID string) *Proposal {
	return &Proposal{
		ID:            "prop_" + uuid.New().String()[:8],
		Name:          name,
		Justification: justification,
		Subtitle:      subtitle,
		GroupID:       groupID,
		Form:          form,
		ParticipantID: participantID,
		CreatedAt:     time.Now().UnixMilli(),
	}
}

// Merged reports whether the proposal was folded into another one.
func (p *Proposal) Merged() bool {
	return p.MergedInto != ""
}

// Patch carries the admin-editable fields of a proposal. Nil fields are left
// untouched.
type Patch struct {
	Name          *string `json:"name,omitempty"`
	Justification *string `json:"justification,omitempty"`
	Subtitle      *string `json:"subtitle,omitempty"`
	MergedInto    *string `json:"mergedInto,omitempty"`
	IsShortlisted *bool   `json:"isShortlisted,omitempty"`
}

// Apply writes the patched fields onto p.
func (patch Patch) Apply(p *Proposal) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Justification != nil {
		p.Justification = *patch.Justification
	}
	if patch.Subtitle != nil {
		p.Subtitle = *patch.Subtitle
	}
	if patch.MergedInto != nil {
		p.MergedInto = *patch.MergedInto
	}
	if patch.IsShortlisted != nil {
		p.IsShortlisted = *patch.IsShortlisted
	}
}

// ShortlistItem is an admin-curated snapshot of a proposal published for
// voting. Vote counts are never stored on the item; they are joined in at
// read time.
type ShortlistItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Justification string `json:"justification"`
	Subtitle      string `json:"subtitle,omitempty"`
	GroupID       int    `json:"groupId"`
	Form          Form   `json:"form"`
	FinalSubtitle string `json:"finalSubtitle,omitempty"`
	Risk          string `json:"risk,omitempty"`
}

// ItemPatch carries the admin-editable fields of a shortlist item.
type ItemPatch struct {
	Name          *string `json:"name,omitempty"`
	Justification *string `json:"justification,omitempty"`
	Subtitle      *string `json:"subtitle,omitempty"`
	FinalSubtitle *string `json:"finalSubtitle,omitempty"`
	Risk          *string `json:"risk,omitempty"`
}

// Apply writes the patched fields onto item.
func (patch ItemPatch) Apply(item *ShortlistItem) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Justification != nil {
		item.Justification = *patch.Justification
	}
	if patch.Subtitle != nil {
		item.Subtitle = *patch.Subtitle
	}
	if patch.FinalSubtitle != nil {
		item.FinalSubtitle = *patch.FinalSubtitle
	}
	if patch.Risk != nil {
		item.Risk = *patch.Risk
	}
}
