package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/model"
)

// ErrUnknownFormat is returned by Write for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names accepted by Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Write dispatches to the writer for format.
func Write(w io.Writer, format string, profiles []*aggregator.TacticalProfile) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, profiles)
	case FormatXLSX:
		return WriteXLSX(w, profiles)
	case FormatJSON:
		return WriteJSON(w, profiles)
	default:
		return fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

// csvHeader is the column layout of the team summary CSV.
var csvHeader = []string{"Team", "Total_Matches", "Wins", "Draws", "Losses", "Win_Rate"}

// WriteCSV writes one summary row per profile, in the order given.
func WriteCSV(w io.Writer, profiles []*aggregator.TacticalProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range profiles {
		o := p.Overall
		winRate := "0%"
		if o.Matches > 0 {
			winRate = fmt.Sprintf("%.1f%%", o.WinRate()*100)
		}
		row := []string{
			p.Team,
			strconv.Itoa(o.Matches),
			strconv.Itoa(o.Record.Wins),
			strconv.Itoa(o.Record.Draws),
			strconv.Itoa(o.Record.Losses),
			winRate,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", p.Team, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the indented projection of every profile as a JSON array.
func WriteJSON(w io.Writer, profiles []*aggregator.TacticalProfile) error {
	views := make([]View, 0, len(profiles))
	for _, p := range profiles {
		views = append(views, Project(p))
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Sheet names of the XLSX workbook.
const (
	SheetPlayers     = "Players"
	SheetFormations  = "Formations"
	SheetSubstitutes = "Substitutes"
	SheetMatches     = "Matches"
)

// WriteXLSX writes a workbook with one sheet per aggregate. Every row starts
// with the team name, so several profiles share the same sheets.
func WriteXLSX(w io.Writer, profiles []*aggregator.TacticalProfile) error {
	f, err := buildWorkbook(profiles)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(profiles []*aggregator.TacticalProfile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetPlayers); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetFormations, SheetSubstitutes, SheetMatches} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	sheets := map[string][][]any{
		SheetPlayers: {{"Team", "ID", "Name", "Role", "Position", "Formation", "Starts", "Sub_Apps",
			"Start_Rate", "Avg_Rating", "Form", "Goals", "Assists", "xG", "Minutes"}},
		SheetFormations: {{"Team", "Formation", "Uses", "Usage_Share", "Wins", "Draws", "Losses",
			"Win_Rate", "PPG", "GF_per_Game", "GA_per_Game", "Possession", "Shots", "xG", "Style"}},
		SheetSubstitutes: {{"Team", "ID", "Name", "Appearances", "Avg_Entry_Minute", "Goals", "Assists",
			"xG", "Avg_Rating", "Wins", "Draws", "Losses"}},
		SheetMatches: {{"Team", "Date", "Match_ID", "Venue", "Opponent", "Score", "Result",
			"Formation", "League", "Round"}},
	}

	for _, p := range profiles {
		v := Project(p)
		for _, r := range v.Players {
			sheets[SheetPlayers] = append(sheets[SheetPlayers], []any{
				v.Team, r.ID, r.Name, r.Role, r.Position, r.Formation, r.Starts, r.SubAppearances,
				r.StartRate, cell(r.AvgRating), cell(r.Form), r.Goals, r.Assists, r.ExpectedGoals, r.Minutes,
			})
		}
		for _, r := range v.Formations {
			sheets[SheetFormations] = append(sheets[SheetFormations], []any{
				v.Team, r.Formation, r.Uses, r.UsageShare, r.Wins, r.Draws, r.Losses,
				r.WinRate, r.PointsPerGame, r.GoalsForPerGame, r.GoalsAgainstPerGame,
				statCell(r.Stats, model.StatPossession), statCell(r.Stats, model.StatShots),
				statCell(r.Stats, model.StatExpectedGoals), r.Style,
			})
		}
		for _, r := range v.Substitutes {
			sheets[SheetSubstitutes] = append(sheets[SheetSubstitutes], []any{
				v.Team, r.ID, r.Name, r.Appearances, cell(r.AvgEntryMinute), r.Goals, r.Assists,
				r.ExpectedGoals, cell(r.AvgRating), r.Wins, r.Draws, r.Losses,
			})
		}
		for _, r := range v.MatchList {
			sheets[SheetMatches] = append(sheets[SheetMatches], []any{
				v.Team, r.Date, r.MatchID, r.Venue, r.Opponent, r.Score, r.Result, r.Formation, r.League, r.Round,
			})
		}
	}

	for _, name := range []string{SheetPlayers, SheetFormations, SheetSubstitutes, SheetMatches} {
		if err := writeRows(f, name, sheets[name]); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, val := range row {
			index, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, index, val); err != nil {
				return fmt.Errorf("set %s!%s: %w", sheet, index, err)
			}
		}
	}
	return nil
}

// cell renders an optional mean; empty cells mean no sample.
func cell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func statCell(stats map[string]float64, name string) any {
	v, ok := stats[name]
	if !ok {
		return ""
	}
	return v
}
