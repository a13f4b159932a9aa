package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/word"
	"github.com/gravadigital/atelier-api/internal/domain/workshop"
)

// Bounds for participant-submitted text, in runes.
const (
	MinWordLength          = 2
	MaxWordLength          = 30
	MinProposalNameLength  = 3
	MaxProposalNameLength  = 60
	MaxJustificationLength = 140
)

// ValidateWord checks a brainstorm submission: non-empty after trim, 2-30
// runes, Unicode letters, spaces, hyphens and apostrophes only.
func ValidateWord(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return workshop.Invalid("le mot ne peut pas être vide")
	}
	if utf8.RuneCountInString(trimmed) < MinWordLength {
		return workshop.Invalid("le mot doit faire au moins %d caractères", MinWordLength)
	}
	if utf8.RuneCountInString(trimmed) > MaxWordLength {
		return workshop.Invalid("le mot ne peut pas dépasser %d caractères", MaxWordLength)
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '-' && r != '\'' && r != '’' {
			return workshop.Invalid("le mot ne peut contenir que des lettres")
		}
	}
	return nil
}

// ValidateTag checks membership in the fixed tag set.
func ValidateTag(tag word.Tag) error {
	if !tag.Valid() {
		return workshop.Invalid("tag invalide")
	}
	return nil
}

// ValidateProposalName checks a proposed list name: non-empty after trim,
// 3-60 runes.
func ValidateProposalName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return workshop.Invalid("le nom ne peut pas être vide")
	}
	if utf8.RuneCountInString(trimmed) < MinProposalNameLength {
		return workshop.Invalid("le nom doit faire au moins %d caractères", MinProposalNameLength)
	}
	if utf8.RuneCountInString(trimmed) > MaxProposalNameLength {
		return workshop.Invalid("le nom ne peut pas dépasser %d caractères", MaxProposalNameLength)
	}
	return nil
}

// ValidateJustification checks a proposal justification: mandatory, at most
// 140 runes after trim.
func ValidateJustification(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return workshop.Invalid("la justification est obligatoire")
	}
	if utf8.RuneCountInString(trimmed) > MaxJustificationLength {
		return workshop.Invalid("la justification ne peut pas dépasser %d caractères", MaxJustificationLength)
	}
	return nil
}

// ValidateForm checks membership in the fixed naming-pattern set.
func ValidateForm(form proposal.Form) error {
	if !form.Valid() {
		return workshop.Invalid("forme invalide")
	}
	return nil
}

// ValidateGroupID checks the authoring group is in range.
func ValidateGroupID(groupID int) error {
	if groupID < proposal.MinGroupID || groupID > proposal.MaxGroupID {
		return workshop.Invalid("groupe invalide (%d-%d)", proposal.MinGroupID, proposal.MaxGroupID)
	}
	return nil
}

// ValidateAdminKey checks the shared admin secret chosen at session creation.
func ValidateAdminKey(key string) error {
	if utf8.RuneCountInString(key) < session.MinAdminKeyLength {
		return workshop.Invalid("la clé admin doit faire au moins %d caractères", session.MinAdminKeyLength)
	}
	return nil
}

// ValidateParticipantName checks a participant display name.
func ValidateParticipantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return workshop.Invalid("le nom du participant est requis")
	}
	return nil
}
