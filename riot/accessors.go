package riot

import (
	"context"
	"fmt"
	"net/url"
)

const maxMatchCount = 100

// AccountByRiotID resolves a Riot ID (game name + tag line) to an account
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (Account, error) {
	var account Account
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine))
	if err := c.get(ctx, c.regionalBaseURL, path, c.ttls.Account, &account); err != nil {
		return Account{}, fmt.Errorf("[riot AccountByRiotID] %w", err)
	}
	return account, nil
}

// RankedEntries lists the player's standing in every ranked queue they have played
func (c *Client) RankedEntries(ctx context.Context, puuid string) ([]RankedEntry, error) {
	entries := []RankedEntry{}
	path := "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)
	if err := c.get(ctx, c.platformBaseURL, path, c.ttls.Ranked, &entries); err != nil {
		return nil, fmt.Errorf("[riot RankedEntries] %w", err)
	}
	return entries, nil
}

// MatchHistory returns the player's most recent matches, newest first. It costs one request for
// the id list plus one per match not already cached.
func (c *Client) MatchHistory(ctx context.Context, puuid string, count int) ([]MatchSummary, error) {
	if count < 1 {
		count = 1
	}
	if count > maxMatchCount {
		count = maxMatchCount
	}

	var ids []string
	idsPath := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d", url.PathEscape(puuid), count)
	if err := c.get(ctx, c.regionalBaseURL, idsPath, c.ttls.Matches, &ids); err != nil {
		return nil, fmt.Errorf("[riot MatchHistory] %w", err)
	}

	matches := make([]MatchSummary, 0, len(ids))
	for _, id := range ids {
		var dto matchDTO
		if err := c.get(ctx, c.regionalBaseURL, "/lol/match/v5/matches/"+url.PathEscape(id), c.ttls.Matches, &dto); err != nil {
			return nil, fmt.Errorf("[riot MatchHistory] match %s: %w", id, err)
		}
		matches = append(matches, dto.summary())
	}
	return matches, nil
}
