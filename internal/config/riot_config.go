package config

import "time"

type RiotConfig interface {
	GetRiotAPIKey() string
	GetRiotGameName() string
	GetRiotTagLine() string
	GetRiotRegion() string
	GetRiotPlatform() string
	GetRiotMatchCount() int
	GetRiotCacheTTLs() RiotCacheTTLs
}

// RiotCacheTTLs controls how long successful Riot responses are reused
type RiotCacheTTLs struct {
	Account time.Duration
	Ranked  time.Duration
	Matches time.Duration
}

type Riot struct{}

var _ RiotConfig = Riot{}

func (Riot) GetRiotAPIKey() string {
	return GetEnv("RIOT_API_KEY", "")
}

func (Riot) GetRiotGameName() string {
	return GetEnv("RIOT_GAME_NAME", "Weetabicx")
}

func (Riot) GetRiotTagLine() string {
	return GetEnv("RIOT_TAG_LINE", "EUW")
}

// GetRiotRegion is the regional routing value used by account-v1 and match-v5
func (Riot) GetRiotRegion() string {
	return GetEnv("RIOT_REGION", "europe")
}

// GetRiotPlatform is the platform routing value used by league-v4
func (Riot) GetRiotPlatform() string {
	return GetEnv("RIOT_PLATFORM", "euw1")
}

func (Riot) GetRiotMatchCount() int {
	count := GetEnvInt("RIOT_MATCH_COUNT", 10)
	if count > 100 {
		return 100
	}
	return count
}

func (Riot) GetRiotCacheTTLs() RiotCacheTTLs {
	return RiotCacheTTLs{
		Account: 24 * time.Hour,
		Ranked:  5 * time.Minute,
		Matches: 30 * time.Minute,
	}
}
