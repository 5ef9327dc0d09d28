package wynnapi

import (
	"fmt"
	"guildwatch/internal/common"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Wynncraft schema
const WYNN_SCHEMA = "https://api.wynncraft.com/v3"

// Routes inside the Wynncraft API
const ROUTE_GUILD = "/guild/prefix/%s"
const ROUTE_PLAYER = "/player/%s"

type WynnApi struct {
	proxy common.Proxy
	// Base url requests go to. Tests point it at a local server
	BaseURL string
	// Clock inactivity is measured against. Tests freeze it
	Now func() time.Time
}

func NewWynnApi(maxAttempts int, retryDelay time.Duration, timeout time.Duration, restrictions []common.Restriction) WynnApi {

	var wynnapi WynnApi

	wynnapi.proxy = common.NewProxy(map[string]string{}, restrictions, maxAttempts, retryDelay, timeout)
	wynnapi.BaseURL = WYNN_SCHEMA
	wynnapi.Now = time.Now

	return wynnapi
}

// Get the roster of the guild with the provided prefix
func (wynnapi *WynnApi) GetGuild(prefix string) (Guild, error) {

	log.Info().Msg(fmt.Sprintf("Fetching guild data for prefix '%s'", prefix))

	// Request
	url := wynnapi.BaseURL + fmt.Sprintf(ROUTE_GUILD, prefix)
	data, err := wynnapi.request(url)
	if err != nil {
		return Guild{}, err
	}

	// Decode
	guild, err := UnmarshalGuild(data)
	if err != nil {
		return Guild{}, fmt.Errorf("guild document for prefix %s is not correctly formatted: %w", prefix, err)
	}
	log.Info().Msg(fmt.Sprintf("Found %d members in guild '%s'", len(guild.Members), guild.Name))

	return guild, nil
}

// Get the activity data of the player with the provided uuid
func (wynnapi *WynnApi) GetPlayer(id uuid.UUID) (PlayerActivity, error) {

	// Request
	url := wynnapi.BaseURL + fmt.Sprintf(ROUTE_PLAYER, id)
	data, err := wynnapi.request(url)
	if err != nil {
		return PlayerActivity{}, err
	}

	// Decode
	activity, err := UnmarshalPlayer(data, id, wynnapi.Now())
	if err != nil {
		return PlayerActivity{}, fmt.Errorf("player document for uuid %s is not correctly formatted: %w", id, err)
	}

	return activity, nil
}

func (wynnapi *WynnApi) request(url string) ([]byte, error) {
	log.Debug().Msg(fmt.Sprintf("Requesting to url %s", url))
	return wynnapi.proxy.Request(url)
}
