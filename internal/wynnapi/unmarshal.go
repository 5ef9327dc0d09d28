package wynnapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func UnmarshalGuild(data []byte) (Guild, error) {

	// unmarshal
	var raw struct {
		Name    string
		Members json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Guild{}, err
	}
	if len(raw.Members) == 0 {
		return Guild{}, fmt.Errorf("guild document has no members")
	}

	// The members object maps rank -> (player name -> info),
	// plus a synthetic "total" key holding the member count
	var ranks map[string]json.RawMessage
	if err := json.Unmarshal(raw.Members, &ranks); err != nil {
		return Guild{}, err
	}
	rankNames, err := objectKeys(raw.Members)
	if err != nil {
		return Guild{}, err
	}

	guild := Guild{Name: raw.Name}
	for _, rank := range rankNames {

		if rank == "total" {
			continue
		}

		var players map[string]struct {
			Uuid        string
			Contributed int64
			Joined      string
		}
		if err := json.Unmarshal(ranks[rank], &players); err != nil {
			return Guild{}, fmt.Errorf("rank %s is not correctly formatted: %w", rank, err)
		}
		playerNames, err := objectKeys(ranks[rank])
		if err != nil {
			return Guild{}, err
		}

		for _, name := range playerNames {

			info := players[name]

			// Members without a resolvable uuid cannot be looked up,
			// so they do not make it into the roster
			id, err := uuid.Parse(info.Uuid)
			if err != nil {
				continue
			}

			joined := info.Joined
			if joined == "" {
				joined = "Unknown"
			}

			guild.Members = append(guild.Members, Member{Uuid: id, GuildName: name, Rank: rank, Contributed: info.Contributed, Joined: joined})
		}
	}

	return guild, nil
}

func UnmarshalPlayer(data []byte, id uuid.UUID, now time.Time) (PlayerActivity, error) {

	// unmarshal
	var raw struct {
		Username string
		Playtime float64
		LastJoin string
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return PlayerActivity{}, err
	}

	activity := PlayerActivity{Username: raw.Username, Playtime: raw.Playtime}
	if activity.Username == "" {
		activity.Username = id.String()
	}

	// No last join on record means the player never joined,
	// which ranks as most inactive
	if raw.LastJoin == "" {
		activity.Delta = "Never joined"
		activity.InactivitySeconds = InactivityUnknown
		return activity, nil
	}

	lastJoin, err := time.Parse(time.RFC3339, raw.LastJoin)
	if err != nil {
		activity.Delta = "Invalid date"
		activity.InactivitySeconds = InactivityUnknown
		return activity, nil
	}

	activity.LastJoin = lastJoin
	activity.InactivitySeconds = int64(now.UTC().Sub(lastJoin).Seconds())
	activity.Delta = formatDelta(activity.InactivitySeconds)

	return activity, nil
}

// Render elapsed seconds as "{days}d {hours}h {minutes}m ago"
func formatDelta(seconds int64) string {
	days := seconds / 86400
	hours := seconds % 86400 / 3600
	minutes := seconds % 3600 / 60
	return fmt.Sprintf("%dd %dh %dm ago", days, hours, minutes)
}

// Extract the keys of a JSON object in document order.
// Maps lose the order, so walk the tokens instead
func objectKeys(data []byte) ([]string, error) {

	decoder := json.NewDecoder(bytes.NewReader(data))

	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var keys []string
	for decoder.More() {

		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, token.(string))

		// Skip over the value
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return nil, err
		}
	}

	return keys, nil
}
