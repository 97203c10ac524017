package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	repo "github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/apperror"
	"github.com/oksasatya/vidtube-api/pkg/events"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

type UserService struct {
	Users    repo.UserRepository
	Media    repo.MediaStore
	JWT      *helpers.JWTManager
	Sessions SessionStore   // nil when Redis is not configured
	Events   EventPublisher // nil when RabbitMQ is not configured
	Logger   logrus.FieldLogger
}

type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"-"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"-"`
}

func NewUserService(users repo.UserRepository, media repo.MediaStore, jwt *helpers.JWTManager, sessions SessionStore, pub EventPublisher, logger logrus.FieldLogger) *UserService {
	return &UserService{Users: users, Media: media, JWT: jwt, Sessions: sessions, Events: pub, Logger: logger}
}

type RegisterInput struct {
	Username   string
	Email      string
	Fullname   string
	Password   string
	Avatar     *entity.MediaFile
	CoverImage *entity.MediaFile
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	var err error
	if in.Fullname, err = requireText("fullname", in.Fullname, "All fields are required"); err != nil {
		return nil, err
	}
	if in.Email, err = requireText("email", in.Email, "All fields are required"); err != nil {
		return nil, err
	}
	if in.Username, err = requireText("username", in.Username, "All fields are required"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, apperror.Validation("password", "All fields are required")
	}
	if in.Avatar == nil {
		return nil, apperror.Validation("avatar", "Avatar file is required")
	}
	username := strings.ToLower(in.Username)
	email := strings.ToLower(in.Email)

	existing, err := s.Users.GetByLogin(ctx, username, email)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("User with email or username already exists")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	avatar, err := s.Media.Upload(ctx, "avatars", *in.Avatar)
	if err != nil {
		return nil, apperror.Upstream("Error while uploading avatar", err)
	}
	var cover entity.MediaAsset
	if in.CoverImage != nil {
		cover, err = s.Media.Upload(ctx, "covers", *in.CoverImage)
		if err != nil {
			discardMedia(ctx, s.Media, s.Logger, avatar.URL)
			return nil, apperror.Upstream("Error while uploading cover image", err)
		}
	}

	u := &entity.User{
		Username:      username,
		Email:         email,
		Fullname:      in.Fullname,
		AvatarURL:     avatar.URL,
		CoverImageURL: cover.URL,
		Password:      hash,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		discardMedia(ctx, s.Media, s.Logger, avatar.URL, cover.URL)
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")

	publish(ctx, s.Events, s.Logger, events.UserRegistered, events.UserRegisteredPayload{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Fullname: u.Fullname,
	})
	return u, nil
}

// Login authenticates by username or email and opens a new session.
func (s *UserService) Login(ctx context.Context, username, email, password string) (*entity.User, TokenPair, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" && email == "" {
		return nil, TokenPair{}, apperror.Validation("username", "username or email is required")
	}
	u, err := s.Users.GetByLogin(ctx, username, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, TokenPair{}, apperror.NotFoundMsg("User does not exist")
		}
		return nil, TokenPair{}, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, apperror.Unauthorized("Invalid user credentials")
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates access/refresh tokens under a fresh session id, stores
// the refresh token on the user and records the session.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		return TokenPair{}, err
	}
	if err := s.Users.SetRefreshToken(ctx, u.ID, refresh); err != nil {
		return TokenPair{}, err
	}
	u.RefreshToken = refresh
	if s.Sessions != nil {
		if err := s.Sessions.Save(ctx, u.ID, sid, s.JWT.RefreshTTL); err != nil {
			return TokenPair{}, apperror.Unavailable("session store unavailable", err)
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Logout(ctx context.Context, userID string) error {
	if err := s.Users.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}
	if s.Sessions != nil {
		if err := s.Sessions.Delete(ctx, userID); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
		}
	}
	return nil
}

// Refresh rotates the token pair. The presented token must be the one stored on the user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	if refreshToken == "" {
		return nil, TokenPair{}, apperror.Unauthorized("Unauthorized request")
	}
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, apperror.Unauthorized("Invalid refresh token")
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, TokenPair{}, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, TokenPair{}, err
	}
	if u.RefreshToken != refreshToken {
		return nil, TokenPair{}, apperror.Unauthorized("Refresh token is expired or used")
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *UserService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperror.Validation("newPassword", "New password is required")
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return apperror.Validation("oldPassword", "Invalid old password")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	return s.Users.Update(ctx, u)
}

func (s *UserService) UpdateAccount(ctx context.Context, userID, fullname, email string) (*entity.User, error) {
	var err error
	if fullname, err = requireText("fullname", fullname, "All fields are required"); err != nil {
		return nil, err
	}
	if email, err = requireText("email", email, "All fields are required"); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Fullname = fullname
	u.Email = strings.ToLower(email)
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, f *entity.MediaFile) (*entity.User, error) {
	if f == nil {
		return nil, apperror.Validation("avatar", "Avatar file is missing")
	}
	return s.replaceImage(ctx, userID, "avatars", *f, func(u *entity.User) *string { return &u.AvatarURL })
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, f *entity.MediaFile) (*entity.User, error) {
	if f == nil {
		return nil, apperror.Validation("coverImage", "Cover image file is missing")
	}
	return s.replaceImage(ctx, userID, "covers", *f, func(u *entity.User) *string { return &u.CoverImageURL })
}

// replaceImage uploads f, points the field at it and deletes the previous object.
func (s *UserService) replaceImage(ctx context.Context, userID, folder string, f entity.MediaFile, field func(*entity.User) *string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	asset, err := s.Media.Upload(ctx, folder, f)
	if err != nil {
		return nil, apperror.Upstream("Error while uploading image", err)
	}
	slot := field(u)
	old := *slot
	*slot = asset.URL
	if err := s.Users.Update(ctx, u); err != nil {
		discardMedia(ctx, s.Media, s.Logger, asset.URL)
		return nil, err
	}
	discardMedia(ctx, s.Media, s.Logger, old)
	return u, nil
}

func (s *UserService) ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	username, err := requireText("username", username, "username is missing")
	if err != nil {
		return nil, err
	}
	return s.Users.ChannelProfile(ctx, strings.ToLower(username), viewerID)
}

func (s *UserService) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	return s.Users.WatchHistory(ctx, userID)
}
