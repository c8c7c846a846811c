package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/cache"
	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/extract"
	"github.com/pable/go-tactics/internal/report"
	"github.com/pable/go-tactics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Profiles are cached for the session; type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds what a REPL session keeps between commands.
type shellSession struct {
	db       *storage.DB
	ext      *extract.Extractor
	docs     []document.Document
	teams    []string
	profiles *cache.Cache
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{db: db, ext: newExtractor(), profiles: cache.New()}
	if err := s.reload(); err != nil {
		return err
	}

	cGreeting.Println("tactics shell")
	cMuted.Printf("%d documents, %d teams. type 'help' or 'exit'\n", len(s.docs), len(s.teams))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("tactics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]
		rest := strings.Join(args, " ")

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "teams":
			s.listTeams()
		case "profile":
			if p := s.profile(rest); p != nil {
				report.WriteReport(os.Stdout, p)
			}
		case "matches":
			if p := s.profile(rest); p != nil {
				report.PrintMatchTable(os.Stdout, p.Matches)
			}
		case "player":
			if len(args) < 2 {
				cError.Fprintln(os.Stderr, "usage: player <player-id> <team>")
				continue
			}
			s.player(args[0], strings.Join(args[1:], " "))
		case "reload":
			if err := s.reload(); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			cMuted.Printf("%d documents, %d teams\n", len(s.docs), len(s.teams))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored match documents"},
		{"teams", "list every team with its match count"},
		{"profile <team>", "print a team's tactical profile"},
		{"matches <team>", "list a team's matches"},
		{"player <player-id> <team>", "season card of one player"},
		{"reload", "re-read documents and drop cached profiles"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-32s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// reload re-reads every stored document and clears the profile cache.
func (s *shellSession) reload() error {
	docs, err := s.db.LoadDocuments()
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	s.docs = docs
	s.teams = extract.TeamNames(docs)
	s.profiles.Invalidate()
	return nil
}

// resolveTeam matches name against known teams, ignoring case.
func (s *shellSession) resolveTeam(name string) (string, bool) {
	for _, t := range s.teams {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}

// profile returns the cached profile of team, building it on first use.
func (s *shellSession) profile(name string) *aggregator.TacticalProfile {
	if name == "" {
		cError.Fprintln(os.Stderr, "usage: profile <team>")
		return nil
	}
	team, ok := s.resolveTeam(name)
	if !ok {
		cWarn.Fprintf(os.Stderr, "No data found for %s\n", name)
		return nil
	}
	p, err := s.profiles.GetOrBuild(team, func() (*aggregator.TacticalProfile, error) {
		return aggregator.ProfileTeam(s.ext, s.docs, team)
	})
	if err != nil {
		cWarn.Fprintf(os.Stderr, "%v\n", err)
		return nil
	}
	return p
}

func (s *shellSession) player(key, team string) {
	p := s.profile(team)
	if p == nil {
		return
	}
	pl, ok := findPlayer(p.Players, key)
	if !ok {
		cWarn.Fprintf(os.Stderr, "No player %q in %s\n", key, p.Team)
		return
	}
	report.PrintPlayerCard(os.Stdout, p, pl)
}

func (s *shellSession) list() {
	docs, err := s.db.ListDocuments()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(docs) == 0 {
		cMuted.Println("No match documents stored yet.")
		return
	}
	report.PrintDocumentList(os.Stdout, docs)
}

func (s *shellSession) listTeams() {
	if len(s.teams) == 0 {
		cMuted.Println("No teams found.")
		return
	}
	cHeader.Fprintf(os.Stdout, "--- %d teams ---\n", len(s.teams))
	_, counts := countTeams(s.docs)
	report.PrintTeamList(os.Stdout, s.teams, counts)
}
