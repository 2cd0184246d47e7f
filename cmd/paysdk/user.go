package main

import (
	"context"
	"fmt"

	"github.com/nooize/paysdk"
	user "github.com/nooize/paysdk/current-user"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var useMemoryStore bool

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Read or change the persisted current user",
}

var userGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserGateway(cmd.Context(), func(ctx context.Context, g *user.Gateway) error {
			u, err := g.CurrentUser(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		})
	},
}

var userSetCmd = &cobra.Command{
	Use:   "set name",
	Short: "Authorize user with the name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserGateway(cmd.Context(), func(ctx context.Context, g *user.Gateway) error {
			return g.SetCurrentUser(ctx, paysdk.AuthorizedUser{UserName: args[0]})
		})
	},
}

var userClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Make the current user anonymous",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUserGateway(cmd.Context(), func(ctx context.Context, g *user.Gateway) error {
			return g.SetCurrentUser(ctx, paysdk.AnonymousUser{})
		})
	},
}

func withUserGateway(ctx context.Context, fn func(context.Context, *user.Gateway) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var store user.Store
	if useMemoryStore {
		store = user.NewMemoryStore()
	} else {
		rdb := redis.NewClient(cfg.Redis.Options())
		defer rdb.Close()
		store = user.NewRedisStore(rdb, cfg.Redis.KeyPrefix)
	}
	g, err := user.New(store)
	if err != nil {
		return err
	}
	return fn(ctx, g)
}

func init() {
	userCmd.PersistentFlags().BoolVar(&useMemoryStore, "memory", false, "Use in-memory store instead of redis")
	userCmd.AddCommand(userGetCmd, userSetCmd, userClearCmd)
	rootCmd.AddCommand(userCmd)
}
