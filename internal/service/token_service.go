package service

import "taskmasters/internal/domain"

type TokenService interface {
	IssueAccess(accountID domain.AccountID) (string, error)
	IssueRefresh(accountID domain.AccountID) (string, error)
	// Verify checks signature and expiry only; it never touches the store.
	Verify(token string) (domain.AccountID, error)
}
