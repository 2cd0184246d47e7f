package paysdk

import "context"

// CurrentUser is the identity the SDK works on behalf of.
// It is either AnonymousUser or AuthorizedUser.
type CurrentUser interface {
	isCurrentUser()
}

type AnonymousUser struct{}

type AuthorizedUser struct {
	UserName string `json:"userName"`
}

func (AnonymousUser) isCurrentUser()  {}
func (AuthorizedUser) isCurrentUser() {}

func (AnonymousUser) String() string {
	return "anonymous"
}

func (u AuthorizedUser) String() string {
	return "authorized:" + u.UserName
}

// CurrentUserGateway reads and writes the persisted current user
type CurrentUserGateway interface {
	CurrentUser(ctx context.Context) (CurrentUser, error)
	SetCurrentUser(ctx context.Context, user CurrentUser) error
}
