package report

import (
	"cmp"
	"fmt"
	"guildwatch/internal/common"
	"guildwatch/internal/wynnapi"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// How often progress gets logged while walking the roster
const PROGRESS_TIMEOUT = 30 * time.Second

// Row is the merge of a roster member and its activity lookup
type Row struct {
	Uuid              uuid.UUID
	GuildName         string
	CurrentName       string
	Rank              string
	Playtime          float64
	Delta             string
	InactivitySeconds int64
}

// Source is where the builder takes guild and player data from
type Source interface {
	GetGuild(prefix string) (wynnapi.Guild, error)
	GetPlayer(id uuid.UUID) (wynnapi.PlayerActivity, error)
}

type Builder struct {
	source   Source
	delayMin time.Duration
	delayMax time.Duration
}

func NewBuilder(source Source, delayMin time.Duration, delayMax time.Duration) Builder {
	return Builder{source, delayMin, delayMax}
}

// Build fetches the roster of the guild with the provided prefix, then
// the activity of every member, and returns one row per member ranked
// by inactivity, most inactive first.
// A member whose lookup fails degrades to an error row. Only a roster
// failure aborts the build
func (builder *Builder) Build(prefix string) ([]Row, error) {

	guild, err := builder.source.GetGuild(prefix)
	if err != nil {
		return nil, fmt.Errorf("could not fetch roster for guild prefix %s: %w", prefix, err)
	}

	rows := make([]Row, 0, len(guild.Members))
	done := 0
	progress := common.NewTimedExecutor(PROGRESS_TIMEOUT, func() {
		log.Info().Msg(fmt.Sprintf("Processed %d/%d members", done, len(guild.Members)))
	})

	for i, member := range guild.Members {

		log.Debug().Msg(fmt.Sprintf("[%d/%d] Fetching player data for uuid %s (%s)", i+1, len(guild.Members), member.Uuid, member.GuildName))

		activity, err := builder.source.GetPlayer(member.Uuid)
		if err != nil {
			log.Warn().Msg(fmt.Sprintf("Failed to fetch %s: %v", member.Uuid, err))
			rows = append(rows, errorRow(member, err))
		} else {
			log.Debug().Msg(fmt.Sprintf("%s -> %s: %gh | Last join: %s", member.GuildName, activity.Username, activity.Playtime, activity.Delta))
			rows = append(rows, Row{
				Uuid:              member.Uuid,
				GuildName:         member.GuildName,
				CurrentName:       activity.Username,
				Rank:              member.Rank,
				Playtime:          activity.Playtime,
				Delta:             activity.Delta,
				InactivitySeconds: activity.InactivitySeconds,
			})
		}

		done++
		progress.Execute()
		builder.throttle()
	}

	// Most inactive first. The sort is stable, so members with equal
	// inactivity keep their roster order
	slices.SortStableFunc(rows, func(a, b Row) int {
		return cmp.Compare(b.InactivitySeconds, a.InactivitySeconds)
	})

	return rows, nil
}

// A failed lookup still produces a row. It carries the unknown
// inactivity sentinel, so it ranks with the never joined members
// at the top of the report
func errorRow(member wynnapi.Member, err error) Row {
	return Row{
		Uuid:              member.Uuid,
		GuildName:         member.GuildName,
		CurrentName:       "Error",
		Rank:              member.Rank,
		Playtime:          0,
		Delta:             fmt.Sprintf("Error: %v", err),
		InactivitySeconds: wynnapi.InactivityUnknown,
	}
}

// Sleep a random duration inside the configured window, so sequential
// member requests do not hammer the upstream
func (builder *Builder) throttle() {
	delay := builder.delayMin
	if span := builder.delayMax - builder.delayMin; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(delay)
}
