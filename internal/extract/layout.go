package extract

import (
	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// Layout identifies which provider schema a document follows.
type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutNative is the provider's deeply nested shape: general/header
	// sections for sides and scores, content.lineup for players.
	LayoutNative
	// LayoutFlat is the optimized shape with top-level home_/away_ keys.
	LayoutFlat
)

func (l Layout) String() string {
	switch l {
	case LayoutNative:
		return "native"
	case LayoutFlat:
		return "flat"
	default:
		return "unknown"
	}
}

// Detect decides the layout of doc from the presence of top-level keys.
func Detect(doc document.Document) Layout {
	switch {
	case doc.Has("home_team") || doc.Has("away_team"):
		return LayoutFlat
	case doc.Has("general") || doc.Has("header"):
		return LayoutNative
	default:
		return LayoutUnknown
	}
}

// decoder reads one layout. Every method is total: missing data comes back
// as zero values, and only scores reports absence explicitly.
type decoder interface {
	sides() (home, away string)
	scores() (home, away int, ok bool)
	header(rec *model.MatchRecord)
	lineup(isHome bool) side
	stats(isHome bool) map[string]float64
}

// side is one team's lineup block in canonical form.
type side struct {
	formation     string
	starters      []model.PlayerAppearance
	subs          []model.PlayerAppearance
	substitutions []model.SubstitutionEvent
}

func newDecoder(doc document.Document, l Layout) decoder {
	switch l {
	case LayoutNative:
		return nativeDecoder{doc: doc}
	case LayoutFlat:
		return flatDecoder{doc: doc}
	default:
		return nil
	}
}
