package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/report"
)

// playerCmd prints the season card of one or more players of a team.
var playerCmd = &cobra.Command{
	Use:   "player <player-id-or-name> [<player-id-or-name>...]",
	Short: "Season card for one or more players of a team",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	addTeamFlags(playerCmd)
}

func runPlayer(cmd *cobra.Command, args []string) error {
	p, err := buildProfile(teamFiles, teamName)
	if err != nil || p == nil {
		return err
	}
	for i, arg := range args {
		pl, ok := findPlayer(p.Players, arg)
		if !ok {
			fmt.Fprintf(os.Stderr, "No player %q in %s\n", arg, p.Team)
			continue
		}
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		report.PrintPlayerCard(os.Stdout, p, pl)
	}
	return nil
}

// findPlayer looks a player up by id, then by case-insensitive name.
func findPlayer(pool *aggregator.PlayerPool, key string) (*aggregator.PlayerProfile, bool) {
	if pl, ok := pool.Get(key); ok {
		return pl, true
	}
	for _, pl := range pool.All() {
		if strings.EqualFold(pl.Name, key) {
			return pl, true
		}
	}
	return nil, false
}
