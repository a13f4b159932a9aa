package vote

import (
	"time"

	"github.com/gravadigital/atelier-api/internal/domain/proposal"
	"github.com/gravadigital/atelier-api/internal/domain/session"
	"github.com/gravadigital/atelier-api/internal/domain/word"
)

// Round identifies one of the two voting rounds.
type Round int

const (
	Round1 Round = 1
	Round2 Round = 2
)

// Valid reports whether r is round 1 or 2.
func (r Round) Valid() bool {
	return r == Round1 || r == Round2
}

// MaxChoices is the ballot size cap for the round: three picks in round 1,
// a single pick in round 2.
func (r Round) MaxChoices() int {
	if r == Round1 {
		return 3
	}
	return 1
}

// Phase is the session phase during which the round accepts ballots.
func (r Round) Phase() session.Phase {
	if r == Round1 {
		return session.PhaseVote1
	}
	return session.PhaseVote2
}

// TopCount is how many round-1 finalists stay eligible for round 2.
const TopCount = 3

// EnrichedItem is a shortlist item joined with both rounds' tallies at read
// time.
type EnrichedItem struct {
	proposal.ShortlistItem
	VotesR1 int `json:"votesR1"`
	VotesR2 int `json:"votesR2"`
}

// Enrich joins shortlist items with vote tallies, preserving snapshot order.
func Enrich(items []proposal.ShortlistItem, talliesR1, talliesR2 map[string]int) []EnrichedItem {
	enriched := make([]EnrichedItem, 0, len(items))
	for _, item := range items {
		enriched = append(enriched, EnrichedItem{
			ShortlistItem: item,
			VotesR1:       talliesR1[item.ID],
			VotesR2:       talliesR2[item.ID],
		})
	}
	return enriched
}

// TopByRound1 returns the ids of the round-1 leaders, at most TopCount of
// them. Ties keep the shortlist snapshot order.
func TopByRound1(items []proposal.ShortlistItem, talliesR1 map[string]int) []string {
	type ranked struct {
		id    string
		votes int
	}
	byVotes := make([]ranked, 0, len(items))
	for _, item := range items {
		byVotes = append(byVotes, ranked{id: item.ID, votes: talliesR1[item.ID]})
	}
	// insertion-stable sort keeps snapshot order between equal counts
	for i := 1; i < len(byVotes); i++ {
		for j := i; j > 0 && byVotes[j].votes > byVotes[j-1].votes; j-- {
			byVotes[j], byVotes[j-1] = byVotes[j-1], byVotes[j]
		}
	}
	n := TopCount
	if len(byVotes) < n {
		n = len(byVotes)
	}
	top := make([]string, 0, n)
	for _, r := range byVotes[:n] {
		top = append(top, r.id)
	}
	return top
}

// FinalResults is the immutable record frozen when the admin closes the
// workshop.
type FinalResults struct {
	Top1         EnrichedItem        `json:"top1"`
	Alt1         EnrichedItem        `json:"alt1"`
	Alt2         EnrichedItem        `json:"alt2"`
	WordsCloud   []word.Word         `json:"wordsCloud"`
	AllProposals []proposal.Proposal `json:"allProposals"`
	SessionInfo  *session.Session    `json:"sessionInfo"`
	CompletedAt  int64               `json:"completedAt"`
}

// NewFinalResults snapshots the workshop outcome.
func NewFinalResults(top1, alt1, alt2 EnrichedItem, words []word.Word, proposals []proposal.Proposal, info *session.Session) *FinalResults {
	return &FinalResults{
		Top1:         top1,
		Alt1:         alt1,
		Alt2:         alt2,
		WordsCloud:   words,
		AllProposals: proposals,
		SessionInfo:  info.Sanitized(),
		CompletedAt:  time.Now().UnixMilli(),
	}
}
