package redis

// Keys derives every session-scoped key from the join code. All session state
// lives under one namespace so nothing leaks across sessions.
type Keys struct {
	code string
}

// KeysFor returns the key namespace for a session code.
func KeysFor(code string) Keys {
	return Keys{code: code}
}

func (k Keys) prefix() string {
	return "session:" + k.code + ":"
}

// Session is the serialized session record.
func (k Keys) Session() string { return k.prefix() + "info" }

// Phase is the current phase value.
func (k Keys) Phase() string { return k.prefix() + "phase" }

// Words is the (tag, word) -> count aggregate hash.
func (k Keys) Words() string { return k.prefix() + "words" }

// Proposals is the append-only proposal log.
func (k Keys) Proposals() string { return k.prefix() + "proposals" }

// Shortlist is the published shortlist snapshot.
func (k Keys) Shortlist() string { return k.prefix() + "shortlist" }

// Votes is the tally hash for a round.
func (k Keys) Votes(round int) string {
	if round == 1 {
		return k.prefix() + "votes:r1"
	}
	return k.prefix() + "votes:r2"
}

// Voters is the ballot-cast set for a round.
func (k Keys) Voters(round int) string {
	if round == 1 {
		return k.prefix() + "voters:r1"
	}
	return k.prefix() + "voters:r2"
}

// Participants is the participant hash keyed by id.
func (k Keys) Participants() string { return k.prefix() + "participants" }

// FinalResults is the write-once finalized record.
func (k Keys) FinalResults() string { return k.prefix() + "final" }

// All lists every key of the namespace, for cleanup.
func (k Keys) All() []string {
	return []string{
		k.Session(),
		k.Phase(),
		k.Words(),
		k.Proposals(),
		k.Shortlist(),
		k.Votes(1),
		k.Votes(2),
		k.Voters(1),
		k.Voters(2),
		k.Participants(),
		k.FinalResults(),
	}
}
