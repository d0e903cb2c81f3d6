package app

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"realtime_chat_service/internal/member/domain"
	"realtime_chat_service/internal/member/repository"
)

// ErrMissingCredentials username or password absent
var ErrMissingCredentials = errors.New("username and password required")

// ErrInvalidCredentials username or password rejected
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier decides whether a username/password pair may log in
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*domain.Member, error)
}

// OpenVerifier accepts any non-empty pair and mints a fresh identity per
// login. Used when no account database is configured.
type OpenVerifier struct{}

// Verify implement CredentialVerifier
func (OpenVerifier) Verify(ctx context.Context, username, password string) (*domain.Member, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	return &domain.Member{
		MemberID: uuid.NewString(),
		Username: username,
	}, nil
}

// RepoVerifier checks the pair against stored accounts
type RepoVerifier struct {
	repo repository.MemberRepository
}

// NewRepoVerifier create RepoVerifier
func NewRepoVerifier(repo repository.MemberRepository) *RepoVerifier {
	return &RepoVerifier{repo: repo}
}

// Verify implement CredentialVerifier
func (v *RepoVerifier) Verify(ctx context.Context, username, password string) (*domain.Member, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	member, err := v.repo.FindByMember(ctx, &domain.MemberQuery{Username: &username})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := member.IsPasswordMatch(password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return member, nil
}
