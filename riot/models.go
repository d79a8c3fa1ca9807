package riot

import (
	"fmt"
	"time"
)

const QueueRankedSolo = "RANKED_SOLO_5x5"

type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RankedEntry is one queue's standing from league-v4
type RankedEntry struct {
	LeagueID     string `json:"leagueId"`
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	PUUID        string `json:"puuid"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Veteran      bool   `json:"veteran"`
	Inactive     bool   `json:"inactive"`
	FreshBlood   bool   `json:"freshBlood"`
	HotStreak    bool   `json:"hotStreak"`
}

func (e RankedEntry) Games() int {
	return e.Wins + e.Losses
}

// WinRate is the percentage of games won, 0 with no games
func (e RankedEntry) WinRate() float64 {
	if e.Games() == 0 {
		return 0
	}
	return float64(e.Wins) * 100 / float64(e.Games())
}

func (e RankedEntry) LossRate() float64 {
	if e.Games() == 0 {
		return 0
	}
	return float64(e.Losses) * 100 / float64(e.Games())
}

// SoloQueue picks the ranked solo/duo entry
func SoloQueue(entries []RankedEntry) (RankedEntry, bool) {
	for _, e := range entries {
		if e.QueueType == QueueRankedSolo {
			return e, true
		}
	}
	return RankedEntry{}, false
}

type Participant struct {
	PUUID        string `json:"puuid"`
	GameName     string `json:"riotIdGameName"`
	TagLine      string `json:"riotIdTagline"`
	ChampionName string `json:"championName"`
	TeamPosition string `json:"teamPosition"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	Win          bool   `json:"win"`
}

// KDA is formatted as kills/deaths/assists
func (p Participant) KDA() string {
	return fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists)
}

type MatchSummary struct {
	MatchID         string
	GameMode        string
	DurationSeconds int
	StartedAt       time.Time
	Participants    []Participant
}

// Player finds the participant with the given puuid
func (m MatchSummary) Player(puuid string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.PUUID == puuid {
			return p, true
		}
	}
	return Participant{}, false
}

func (m MatchSummary) Duration() time.Duration {
	return time.Duration(m.DurationSeconds) * time.Second
}

// match-v5 response, reduced to what MatchSummary needs
type matchDTO struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameMode           string        `json:"gameMode"`
		GameDuration       int           `json:"gameDuration"`
		GameStartTimestamp int64         `json:"gameStartTimestamp"`
		Participants       []Participant `json:"participants"`
	} `json:"info"`
}

func (m matchDTO) summary() MatchSummary {
	s := MatchSummary{
		MatchID:         m.Metadata.MatchID,
		GameMode:        m.Info.GameMode,
		DurationSeconds: m.Info.GameDuration,
		Participants:    m.Info.Participants,
	}
	if m.Info.GameStartTimestamp > 0 {
		s.StartedAt = time.UnixMilli(m.Info.GameStartTimestamp).UTC()
	}
	if s.Participants == nil {
		s.Participants = []Participant{}
	}
	return s
}
