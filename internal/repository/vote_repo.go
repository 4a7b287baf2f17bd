package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/loboot/vote-system/internal/gateway"
	"github.com/loboot/vote-system/internal/models"
	"github.com/loboot/vote-system/internal/session"
	"go.uber.org/zap"
)

type VoteRepository struct {
	gw   *gateway.Gateway
	sess *session.Store
	l    *zap.Logger
}

func New(gw *gateway.Gateway, sess *session.Store, l *zap.Logger) *VoteRepository {
	return &VoteRepository{
		gw:   gw,
		sess: sess,
		l:    l,
	}
}

// Login authenticates and stores {user, token} into the session as one unit.
// The login payload carries only the token, so the user record comes from a
// follow-up profile call made with that token already in the session.
func (r *VoteRepository) Login(ctx context.Context, username, password string) (*models.User, error) {
	env, err := r.gw.Do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, fmt.Errorf("repository: login response carries no token: %w", models.ErrUnauthorized)
	}
	if err = r.sess.Set(&models.User{Username: username}, env.Token); err != nil {
		return nil, err
	}

	user, err := r.Profile(ctx)
	if err != nil {
		_ = r.sess.Clear()
		return nil, fmt.Errorf("repository: failed to fetch profile after login: %w", err)
	}
	if err = r.sess.Set(user, env.Token); err != nil {
		return nil, err
	}
	r.l.Info("logged in", zap.String("username", user.Username), zap.Int("user_id", user.ID))
	return user, nil
}

func (r *VoteRepository) Register(ctx context.Context, username, password string) error {
	_, err := r.gw.Do(ctx, http.MethodPost, "/auth/register", models.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}
	r.l.Info("registered", zap.String("username", username))
	return nil
}

func (r *VoteRepository) Profile(ctx context.Context) (*models.User, error) {
	env, err := r.gw.Do(ctx, http.MethodGet, "/auth/profile", nil)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err = json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("repository: failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (r *VoteRepository) AllVotes(ctx context.Context) ([]models.Vote, error) {
	return r.listVotes(ctx, "/vote/all")
}

// MyVotes lists polls created by the current user.
func (r *VoteRepository) MyVotes(ctx context.Context) ([]models.Vote, error) {
	return r.listVotes(ctx, "/vote/my")
}

func (r *VoteRepository) listVotes(ctx context.Context, path string) ([]models.Vote, error) {
	env, err := r.gw.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var votes []models.Vote
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err = json.Unmarshal(env.Data, &votes); err != nil {
			return nil, fmt.Errorf("repository: failed to unmarshal votes: %w", err)
		}
	}
	r.l.Debug("fetched votes", zap.String("path", path), zap.Int("count", len(votes)))
	return votes, nil
}

func (r *VoteRepository) GetVote(ctx context.Context, id int) (*models.Vote, error) {
	env, err := r.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/vote/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var vote models.Vote
	if err = json.Unmarshal(env.Data, &vote); err != nil {
		return nil, fmt.Errorf("repository: failed to unmarshal vote: %w", err)
	}
	return &vote, nil
}

func (r *VoteRepository) CreateVote(ctx context.Context, req models.CreateVoteRequest) (*models.Vote, error) {
	env, err := r.gw.Do(ctx, http.MethodPost, "/vote/create", req)
	if err != nil {
		return nil, err
	}
	var vote models.Vote
	if err = json.Unmarshal(env.Data, &vote); err != nil {
		return nil, fmt.Errorf("repository: failed to unmarshal created vote: %w", err)
	}
	r.l.Info("created vote", zap.Int("vote_id", vote.ID), zap.String("title", vote.Title))
	return &vote, nil
}

func (r *VoteRepository) SubmitVote(ctx context.Context, req models.VoteRequest) error {
	if _, err := r.gw.Do(ctx, http.MethodPost, "/vote/submit", req); err != nil {
		return err
	}
	r.l.Info("submitted vote",
		zap.Int("vote_id", req.VoteID),
		zap.Ints("option_ids", req.OptionIDs))
	return nil
}

// UpdateVote uses the raw path: this endpoint answers with a bare Vote
// instead of the envelope.
func (r *VoteRepository) UpdateVote(ctx context.Context, req models.UpdateVoteRequest) (*models.Vote, error) {
	body, err := r.gw.DoRaw(ctx, http.MethodPut, "/vote/update", req)
	if err != nil {
		return nil, err
	}
	var vote models.Vote
	if err = json.Unmarshal(body, &vote); err != nil {
		return nil, fmt.Errorf("repository: failed to unmarshal updated vote: %w", err)
	}
	r.l.Info("updated vote", zap.Int("vote_id", vote.ID))
	return &vote, nil
}

func (r *VoteRepository) DeleteVote(ctx context.Context, id int) error {
	if _, err := r.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/vote/%d", id), nil); err != nil {
		return err
	}
	r.l.Info("deleted vote", zap.Int("vote_id", id))
	return nil
}
