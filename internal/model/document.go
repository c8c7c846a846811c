package model

// DocumentMeta is the side-neutral header of a stored raw match document.
type DocumentMeta struct {
	Hash       string
	Layout     string
	MatchID    string
	MatchDate  string
	League     string
	HomeTeam   string
	AwayTeam   string
	Score      string // "home-away", or "-" without score data
	Source     string
	IngestedAt string
}

// ShortHash returns the first 12 characters of the document hash.
func (d DocumentMeta) ShortHash() string {
	if len(d.Hash) > 12 {
		return d.Hash[:12]
	}
	return d.Hash
}
