package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realtime_chat_service/internal/member/domain"
	"realtime_chat_service/internal/member/repository"
	"realtime_chat_service/pkg/database"
	"realtime_chat_service/pkg/encrypt"
	errprocess "realtime_chat_service/pkg/err"
	"realtime_chat_service/pkg/token"
)

// MemberUseCase login lifecycle for chat identities
type MemberUseCase interface {
	Login(ctx context.Context, username, password string) (string, *domain.Member, error)
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context, tokenStr string) error
}

type memberUseCase struct {
	verifier    CredentialVerifier
	memberRepo  repository.MemberRepository
	sessionTTL  time.Duration
	sessionRepo database.RedisRepository[domain.MemberSession]
}

// NewMemberUseCase create MemberUseCase. memberRepo may be nil in open auth
// mode; registration is then rejected.
func NewMemberUseCase(
	verifier CredentialVerifier,
	memberRepo repository.MemberRepository,
	sessionTTL time.Duration,
	sessionRepo database.RedisRepository[domain.MemberSession],
) MemberUseCase {
	return &memberUseCase{
		verifier:    verifier,
		memberRepo:  memberRepo,
		sessionTTL:  sessionTTL,
		sessionRepo: sessionRepo,
	}
}

func (uc *memberUseCase) Login(ctx context.Context, username, password string) (string, *domain.Member, error) {
	member, err := uc.verifier.Verify(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	tokenStr, err := token.GenerateJWTWrapper(member.MemberID, member.Username)
	if err != nil {
		return "", nil, errprocess.Set("generate token failed")
	}

	now := time.Now()
	session := domain.MemberSession{
		Token:        tokenStr,
		MemberID:     member.MemberID,
		CreatedAt:    now,
		LastActivity: now,
		ExpiredAt:    now.Add(uc.sessionTTL),
	}
	if err := uc.sessionRepo.Set(ctx, member.MemberID, session, uc.sessionTTL); err != nil {
		return "", nil, errprocess.Set("save session failed")
	}

	if uc.memberRepo != nil {
		member.Status = domain.MemberStatusOnLine
		if err := uc.memberRepo.UpdateMemberStatus(ctx, member); err != nil {
			return "", nil, errprocess.Set("update member status failed")
		}
	}

	return tokenStr, member, nil
}

func (uc *memberUseCase) Register(ctx context.Context, username, password string) error {
	if uc.memberRepo == nil {
		return errprocess.Set("registration disabled")
	}
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hashed, err := encrypt.HashPassword(password)
	if err != nil {
		return err
	}

	member := &domain.Member{
		MemberID: uuid.NewString(),
		Username: username,
		Password: hashed,
	}
	if err := uc.memberRepo.CreateUser(ctx, member); err != nil {
		return errprocess.Set("create member failed")
	}
	return nil
}

func (uc *memberUseCase) Logout(ctx context.Context, tokenStr string) error {
	claims, err := token.ParseJWTWrapper(tokenStr)
	if err != nil {
		return errprocess.Set("parse token failed")
	}

	if err := uc.sessionRepo.Del(ctx, claims.UserID); err != nil {
		return errprocess.Set("delete session failed")
	}

	if uc.memberRepo != nil {
		member := &domain.Member{MemberID: claims.UserID, Status: domain.MemberStatusOffLine}
		if err := uc.memberRepo.UpdateMemberStatus(ctx, member); err != nil {
			return errprocess.Set("update member status failed")
		}
	}
	return nil
}
