package wynnapi

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// InactivityUnknown ranks above every finite inactivity value.
// It marks members whose last join instant is absent, unparsable
// or could not be fetched
const InactivityUnknown int64 = math.MaxInt64

type Member struct {
	Uuid        uuid.UUID
	GuildName   string
	Rank        string
	Contributed int64
	Joined      string
}

type Guild struct {
	Name    string
	Members []Member
}

type PlayerActivity struct {
	Username          string
	Playtime          float64
	LastJoin          time.Time
	Delta             string
	InactivitySeconds int64
}
