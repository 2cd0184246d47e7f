package user

import (
	"context"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
)

type Gateway struct {
	store Store
}

func (g *Gateway) CurrentUser(ctx context.Context) (paysdk.CurrentUser, error) {
	name, found, err := g.store.Get(ctx, KeyCurrentUserName)
	if err != nil {
		return nil, errors.Wrap(err, "read current user")
	}
	if !found {
		return paysdk.AnonymousUser{}, nil
	}
	return paysdk.AuthorizedUser{UserName: name}, nil
}

func (g *Gateway) SetCurrentUser(ctx context.Context, user paysdk.CurrentUser) error {
	switch u := user.(type) {
	case paysdk.AuthorizedUser:
		return errors.Wrap(g.store.Put(ctx, KeyCurrentUserName, u.UserName), "write current user")
	case *paysdk.AuthorizedUser:
		if u != nil {
			return errors.Wrap(g.store.Put(ctx, KeyCurrentUserName, u.UserName), "write current user")
		}
	}
	return errors.Wrap(g.store.Remove(ctx, KeyCurrentUserName), "remove current user")
}
