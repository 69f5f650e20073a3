package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"placement-analytics/internal/cache"
)

func newCacheCmd(_ *rootOptions) *cobra.Command {
	var addr, password string
	var db int

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached reports",
	}
	cmd.PersistentFlags().StringVar(&addr, "redis", "localhost:6379", "redis address")
	cmd.PersistentFlags().StringVar(&password, "redis-password", "", "redis password")
	cmd.PersistentFlags().IntVar(&db, "redis-db", 0, "redis database")

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete every cached report",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
			defer client.Close()

			n, err := cache.New(client, 0).Purge(c.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "purged %d cached reports\n", n)
			return nil
		},
	})
	return cmd
}
