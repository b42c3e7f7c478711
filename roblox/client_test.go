package roblox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/usernames/users", r.URL.Path)

		var body struct {
			Usernames          []string `json:"usernames"`
			ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.False(t, body.ExcludeBannedUsers)

		w.Header().Set("Content-Type", "application/json")
		switch body.Usernames[0] {
		case "builderman":
			w.Write([]byte(`{"data":[{"requestedUsername":"builderman","id":156,"name":"builderman","displayName":"Builderman"}]}`))
		case "broken":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"errors":[{"code":0,"message":"Too many requests"}]}`))
		default:
			w.Write([]byte(`{"data":[]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_Client_UserByName(t *testing.T) {
	var calls atomic.Int32
	client, err := NewClient(newTestServer(t, &calls).URL+"/", 8)
	require.NoError(t, err)

	user, err := client.UserByName(context.Background(), "Builderman ")
	require.NoError(t, err)
	require.Equal(t, &User{ID: 156, Name: "builderman", DisplayName: "Builderman"}, user)
	require.Equal(t, "https://www.roblox.com/users/156/profile", user.ProfileURL())
	require.Contains(t, user.HeadshotURL(), "userId=156")

	// Cached.
	_, err = client.UserByName(context.Background(), "builderman")
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())
}

func Test_Client_UserByName_NotFound(t *testing.T) {
	var calls atomic.Int32
	client, err := NewClient(newTestServer(t, &calls).URL, 8)
	require.NoError(t, err)

	_, err = client.UserByName(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = client.UserByName(context.Background(), "  ")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.EqualValues(t, 1, calls.Load())
}

func Test_Client_UserByName_APIError(t *testing.T) {
	var calls atomic.Int32
	client, err := NewClient(newTestServer(t, &calls).URL, 8)
	require.NoError(t, err)

	_, err = client.UserByName(context.Background(), "broken")
	require.ErrorContains(t, err, "429")
	require.NotErrorIs(t, err, ErrUserNotFound)
}

func Test_NewClient_BadCacheSize(t *testing.T) {
	_, err := NewClient("http://localhost", 0)
	require.Error(t, err)
}
