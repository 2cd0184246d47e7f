package user

import (
	"context"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
)

// KeyCurrentUserName is the store key holding the authorized user name.
// Absence of the key means the user is anonymous.
const KeyCurrentUserName = "current_user_name"

// Store is a persisted string key-value storage
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// New creates a current user gateway on top of the store
func New(store Store) (*Gateway, error) {
	if store == nil {
		return nil, errors.New("store not defined")
	}
	return &Gateway{store: store}, nil
}

var _ paysdk.CurrentUserGateway = (*Gateway)(nil)
