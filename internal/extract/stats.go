package extract

import (
	"strings"

	"github.com/pable/go-tactics/internal/model"
)

// statAliases maps normalized provider keys and titles to canonical names.
var statAliases = map[string]string{
	"ballpossesion":     model.StatPossession,
	"ball_possession":   model.StatPossession,
	"possession":        model.StatPossession,
	"expected_goals":    model.StatExpectedGoals,
	"expected_goals_xg": model.StatExpectedGoals,
	"xg":                model.StatExpectedGoals,
	"total_shots":       model.StatShots,
	"shots":             model.StatShots,
	"shotsontarget":     model.StatShotsOnTarget,
	"shots_on_target":   model.StatShotsOnTarget,
	"on_target":         model.StatShotsOnTarget,
	"big_chance":        model.StatBigChances,
	"big_chances":       model.StatBigChances,
	"accurate_passes":   model.StatAccuratePasses,
	"passes_accurate":   model.StatAccuratePasses,
	"fouls":             model.StatFouls,
	"fouls_committed":   model.StatFouls,
	"corners":           model.StatCorners,
	"corner_kicks":      model.StatCorners,
}

// normalizeKey lowercases s and collapses every run of non-alphanumerics
// into a single underscore.
func normalizeKey(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// canonicalStat returns the canonical statistic name for a provider key.
func canonicalStat(key string) string {
	k := normalizeKey(key)
	if c, ok := statAliases[k]; ok {
		return c
	}
	return k
}

// putStat records a team/opponent pair unless name is empty or already set.
// Providers repeat some statistics across groups; the first one wins.
func putStat(out map[string]float64, name string, own, opp float64) {
	if name == "" {
		return
	}
	if _, dup := out[name]; dup {
		return
	}
	out[name] = own
	out[model.OpponentStat(name)] = opp
}
