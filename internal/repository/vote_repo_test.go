package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/loboot/vote-system/internal/gateway"
	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRepo(t *testing.T, handler http.Handler) (*VoteRepository, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.New(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
	require.NoError(t, err)
	gw := gateway.New(srv.URL, 5*time.Second, sess, zap.NewNop())
	return New(gw, sess, zap.NewNop()), sess
}

func TestLoginStoresUserAndToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)
		require.Equal(t, "secret1", req.Password)
		w.Write([]byte(`{"code":200,"token":"jwt-abc","expire":"2026-09-01T00:00:00Z"}`))
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		// the profile call must already carry the fresh token
		require.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"code":200,"data":{"id":3,"username":"alice"}}`))
	})
	repo, sess := testRepo(t, mux)

	user, err := repo.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, 3, user.ID)
	require.Equal(t, "alice", user.Username)

	require.True(t, sess.Authenticated())
	require.Equal(t, "jwt-abc", sess.Token())
	require.Equal(t, 3, sess.User().ID)
}

func TestLoginWrongPasswordLeavesSessionEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":401,"message":"incorrect Username or Password"}`))
	})
	repo, sess := testRepo(t, mux)

	_, err := repo.Login(context.Background(), "alice", "wrong")
	require.ErrorIs(t, err, models.ErrUnauthorized)
	require.False(t, sess.Authenticated())
	require.Nil(t, sess.User())
	require.Empty(t, sess.Token())
}

func TestLoginProfileFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"token":"jwt-abc"}`))
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code":500,"message":"boom"}`))
	})
	repo, sess := testRepo(t, mux)

	_, err := repo.Login(context.Background(), "alice", "secret1")
	require.Error(t, err)
	// no half-logged-in state survives
	require.False(t, sess.Authenticated())
}

func TestAllVotes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /vote/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":[
			{"id":1,"title":"first","options":[{"id":1,"vote_id":1,"content":"A","count":3}]},
			{"id":2,"title":"second","multi":true}
		]}`))
	})
	repo, _ := testRepo(t, mux)

	votes, err := repo.AllVotes(context.Background())
	require.NoError(t, err)
	require.Len(t, votes, 2)
	require.Equal(t, "first", votes[0].Title)
	require.Equal(t, 3, votes[0].Options[0].Count)
	require.True(t, votes[1].Multi)
}

func TestAllVotesNullData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /vote/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":null}`))
	})
	repo, _ := testRepo(t, mux)

	votes, err := repo.AllVotes(context.Background())
	require.NoError(t, err)
	require.Empty(t, votes)
}

func TestGetVote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /vote/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"data":{"id":7,"title":"lunch","deadline":1700000000,
			"options":[{"id":1,"content":"A","count":2},{"id":2,"content":"B","count":0}]}}`))
	})
	repo, _ := testRepo(t, mux)

	vote, err := repo.GetVote(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 7, vote.ID)
	require.Equal(t, int64(1700000000), vote.Deadline)
	require.Len(t, vote.Options, 2)
}

func TestSubmitVote(t *testing.T) {
	var got models.VoteRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /vote/submit", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"code":200}`))
	})
	repo, _ := testRepo(t, mux)

	err := repo.SubmitVote(context.Background(), models.VoteRequest{VoteID: 7, OptionIDs: []int{1, 2}})
	require.NoError(t, err)
	require.Equal(t, 7, got.VoteID)
	require.Equal(t, []int{1, 2}, got.OptionIDs)
}

func TestCreateVote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /vote/create", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateVoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "pick a color", req.Title)
		require.Equal(t, []string{"red", "blue"}, req.Options)
		w.Write([]byte(`{"code":200,"data":{"id":11,"title":"pick a color"}}`))
	})
	repo, _ := testRepo(t, mux)

	vote, err := repo.CreateVote(context.Background(), models.CreateVoteRequest{
		Title:   "pick a color",
		Options: []string{"red", "blue"},
	})
	require.NoError(t, err)
	require.Equal(t, 11, vote.ID)
}

func TestUpdateVoteBarePayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /vote/update", func(w http.ResponseWriter, r *http.Request) {
		// this endpoint answers without the envelope
		w.Write([]byte(`{"id":11,"title":"renamed"}`))
	})
	repo, _ := testRepo(t, mux)

	vote, err := repo.UpdateVote(context.Background(), models.UpdateVoteRequest{ID: 11, Title: "renamed"})
	require.NoError(t, err)
	require.Equal(t, "renamed", vote.Title)
}

func TestDeleteVote(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /vote/11", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusOK)
	})
	repo, _ := testRepo(t, mux)

	require.NoError(t, repo.DeleteVote(context.Background(), 11))
	require.True(t, deleted)
}

func TestSubmitVoteEndedPoll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /vote/submit", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":400,"message":"vote has ended"}`))
	})
	repo, _ := testRepo(t, mux)

	err := repo.SubmitVote(context.Background(), models.VoteRequest{VoteID: 7, OptionIDs: []int{1}})
	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "vote has ended", apiErr.Message)
}
