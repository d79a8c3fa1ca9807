package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/go-portfolio-server/riot"
)

const (
	msgNoRankedData   = "No ranked data found"
	msgLeagueFailed   = "Error - could not fetch League of Legends data"
	msgLeagueDisabled = "League of Legends data is unavailable"
)

type leagueHandlers struct {
	ranked       http.HandlerFunc
	matchHistory http.HandlerFunc
}

func (s *Server) leagueHandlers() (leagueHandlers, error) {
	var h leagueHandlers
	ranked, err := ParsePage("league.html")
	if err != nil {
		return h, err
	}
	history, err := ParsePage("league-match-history.html")
	if err != nil {
		return h, err
	}
	h.ranked = s.LeagueHandler(ranked)
	h.matchHistory = s.MatchHistoryHandler(history)
	return h, nil
}

// LeagueHandler shows the configured player's solo queue standing
func (s *Server) LeagueHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData("League", map[string]any{
			"GameName": s.config.GetRiotGameName(),
			"TagLine":  s.config.GetRiotTagLine(),
		})
		if s.league == nil {
			data["Error"] = msgLeagueDisabled
			render(w, http.StatusOK, tmpl, data)
			return
		}

		account, err := s.league.AccountByRiotID(r.Context(), s.config.GetRiotGameName(), s.config.GetRiotTagLine())
		if err != nil {
			reportUpstreamError(r, err, "riot account lookup failed")
			data["Error"] = msgLeagueFailed
			render(w, http.StatusOK, tmpl, data)
			return
		}
		entries, err := s.league.RankedEntries(r.Context(), account.PUUID)
		if err != nil {
			reportUpstreamError(r, err, "riot ranked lookup failed")
			data["Error"] = msgLeagueFailed
			render(w, http.StatusOK, tmpl, data)
			return
		}

		solo, ok := riot.SoloQueue(entries)
		if !ok {
			data["Error"] = msgNoRankedData
			render(w, http.StatusOK, tmpl, data)
			return
		}
		data["Entry"] = solo
		data["WinPercent"] = solo.WinRate()
		data["LossPercent"] = solo.LossRate()
		render(w, http.StatusOK, tmpl, data)
	}
}

type matchRow struct {
	riot.MatchSummary
	Player riot.Participant
	Found  bool
}

func (s *Server) MatchHistoryHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.pageData("Match History", map[string]any{
			"GameName": s.config.GetRiotGameName(),
			"TagLine":  s.config.GetRiotTagLine(),
		})
		if s.league == nil {
			data["Error"] = msgLeagueDisabled
			render(w, http.StatusOK, tmpl, data)
			return
		}

		account, err := s.league.AccountByRiotID(r.Context(), s.config.GetRiotGameName(), s.config.GetRiotTagLine())
		if err != nil {
			reportUpstreamError(r, err, "riot account lookup failed")
			data["Error"] = msgLeagueFailed
			render(w, http.StatusOK, tmpl, data)
			return
		}
		matches, err := s.league.MatchHistory(r.Context(), account.PUUID, s.config.GetRiotMatchCount())
		if err != nil {
			reportUpstreamError(r, err, "riot match history failed")
			data["Error"] = msgLeagueFailed
			render(w, http.StatusOK, tmpl, data)
			return
		}

		rows := make([]matchRow, 0, len(matches))
		for _, m := range matches {
			player, found := m.Player(account.PUUID)
			rows = append(rows, matchRow{MatchSummary: m, Player: player, Found: found})
		}
		data["PUUID"] = account.PUUID
		data["Matches"] = rows
		render(w, http.StatusOK, tmpl, data)
	}
}
