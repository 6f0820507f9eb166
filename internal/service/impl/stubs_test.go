package impl

import (
	"context"
	"errors"

	"taskmasters/internal/domain"

	"github.com/google/uuid"
)

type stubPasswordService struct {
	hashFunc   func(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error)
	verifyFunc func(password string, cred *domain.PasswordCredential) (rehashNeeded bool, ok bool)

	hashCalls   []string
	verifyCalls []string
}

func (s *stubPasswordService) Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error) {
	s.hashCalls = append(s.hashCalls, password)
	if s.hashFunc != nil {
		return s.hashFunc(password)
	}
	return []byte("hash:" + password), []byte("salt"), []byte(`{}`), "argon2id", 1, nil
}

func (s *stubPasswordService) Verify(password string, cred *domain.PasswordCredential) (rehashNeeded bool, ok bool) {
	s.verifyCalls = append(s.verifyCalls, password)
	if s.verifyFunc != nil {
		return s.verifyFunc(password, cred)
	}
	return false, string(cred.Hash) == "hash:"+password
}

type stubTokenService struct {
	accessErr  error
	refreshErr error
	verifyID   uuid.UUID
	verifyErr  error

	accessCalls  []uuid.UUID
	refreshCalls []uuid.UUID
}

func (s *stubTokenService) IssueAccess(accountID domain.AccountID) (string, error) {
	s.accessCalls = append(s.accessCalls, accountID)
	if s.accessErr != nil {
		return "", s.accessErr
	}
	return "access-" + accountID.String(), nil
}

func (s *stubTokenService) IssueRefresh(accountID domain.AccountID) (string, error) {
	s.refreshCalls = append(s.refreshCalls, accountID)
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return "refresh-" + accountID.String(), nil
}

func (s *stubTokenService) Verify(token string) (domain.AccountID, error) {
	if s.verifyErr != nil {
		return uuid.Nil, s.verifyErr
	}
	if s.verifyID == uuid.Nil {
		return uuid.Nil, errors.New("no verify result configured")
	}
	return s.verifyID, nil
}

type sentEmail struct {
	to   string
	body string // code or reset URL
}

type stubEmailService struct {
	verificationErr error
	resetErr        error

	verifications []sentEmail
	resets        []sentEmail
}

func (s *stubEmailService) SendVerificationCode(ctx context.Context, to, code string) error {
	if s.verificationErr != nil {
		return s.verificationErr
	}
	s.verifications = append(s.verifications, sentEmail{to: to, body: code})
	return nil
}

func (s *stubEmailService) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	s.resets = append(s.resets, sentEmail{to: to, body: resetURL})
	return nil
}
