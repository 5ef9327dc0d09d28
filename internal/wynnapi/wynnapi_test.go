package wynnapi

import (
	"fmt"
	"guildwatch/internal/common"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(serverURL string, maxAttempts int) WynnApi {
	api := NewWynnApi(maxAttempts, time.Millisecond, time.Second, nil)
	api.BaseURL = serverURL
	return api
}

func TestGetGuild(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guild/prefix/EXG", r.URL.Path)
		w.Write([]byte(guildDoc))
	}))
	defer server.Close()

	api := newTestApi(server.URL, 3)
	guild, err := api.GetGuild("EXG")
	require.NoError(t, err)

	assert.Equal(t, "Exiled Guardians", guild.Name)
	assert.Len(t, guild.Members, 3)
}

func TestGetGuild_BadDocument(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "NoMembers"}`))
	}))
	defer server.Close()

	api := newTestApi(server.URL, 3)
	_, err := api.GetGuild("EXG")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not correctly formatted")
}

func TestGetPlayer(t *testing.T) {

	id := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/player/%s", id), r.URL.Path)
		w.Write([]byte(`{"username": "Alpha", "playtime": 12.5, "lastJoin": "2024-03-09T12:00:00.000Z"}`))
	}))
	defer server.Close()

	api := newTestApi(server.URL, 3)
	api.Now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

	activity, err := api.GetPlayer(id)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", activity.Username)
	assert.Equal(t, 12.5, activity.Playtime)
	assert.Equal(t, int64(86400), activity.InactivitySeconds)
	assert.Equal(t, "1d 0h 0m ago", activity.Delta)
}

func TestGetPlayer_FetchExhausted(t *testing.T) {

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	api := newTestApi(server.URL, 2)
	_, err := api.GetPlayer(uuid.New())

	var fetchErr *common.FetchExhaustedError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 2, fetchErr.Attempts)
	assert.Equal(t, 2, attempts)
}
