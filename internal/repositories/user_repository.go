package repositories

import (
	"fmt"

	"inventory/internal/models"
)

// AccountRepository defines the interface for looking up login accounts.
type AccountRepository interface {
	GetByUserID(userID string) (*models.Account, error)
}

// StaticAccountRepository serves a fixed set of accounts configured at startup.
type StaticAccountRepository struct {
	accounts map[string]models.Account
}

// NewStaticAccountRepository creates a repository holding a copy of accounts.
func NewStaticAccountRepository(accounts ...models.Account) *StaticAccountRepository {
	byID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.UserID] = a
	}
	return &StaticAccountRepository{accounts: byID}
}

// GetByUserID retrieves an account by its user ID.
func (r *StaticAccountRepository) GetByUserID(userID string) (*models.Account, error) {
	account, ok := r.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account with user ID %s not found", userID)
	}
	return &account, nil
}
