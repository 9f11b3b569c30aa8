// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the catalog CMS. It exposes the API
// server and the operator commands (migrations, seeding, user creation and
// product status changes) as subcommands.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"catalogcms/internal/config"
	"catalogcms/internal/database"
	"catalogcms/internal/models"
	"catalogcms/internal/store"
)

func main() {
	// Structured logger, text output at debug level.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cmd := &cli.Command{
		Name:   "catalogcms",
		Usage:  "Product catalog and content API",
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations and start the HTTP server",
				Action: runServe,
			},
			{
				Name:  "migrate",
				Usage: "Apply pending database migrations",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDB(func(_ *config.Config, db *sql.DB) error {
						return database.Migrate(db)
					})
				},
			},
			{
				Name:  "seed",
				Usage: "Insert the default admin and sample catalog when empty",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withDB(func(_ *config.Config, db *sql.DB) error {
						if err := database.Migrate(db); err != nil {
							return err
						}
						return database.Seed(db)
					})
				},
			},
			{
				Name:  "createuser",
				Usage: "Create a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "login email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "initial password", Required: true},
					&cli.StringFlag{Name: "name", Usage: "display name"},
					&cli.StringFlag{Name: "role", Usage: "admin, editor or author", Value: string(models.RoleEditor)},
				},
				Action: createUser,
			},
			{
				Name:  "set-status",
				Usage: "Change the lifecycle status of a product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "slug", Usage: "product slug", Required: true},
					&cli.StringFlag{Name: "status", Usage: "draft, published or archived", Required: true},
				},
				Action: setStatus,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// withDB loads configuration, opens the database and runs fn.
func withDB(fn func(cfg *config.Config, db *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, db)
}

func createUser(ctx context.Context, c *cli.Command) error {
	role := models.Role(strings.ToLower(c.String("role")))
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", c.String("role"))
	}
	email := strings.TrimSpace(c.String("email"))
	name := c.String("name")
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	return withDB(func(_ *config.Config, db *sql.DB) error {
		u, err := store.NewUserStore(db).Create(ctx, email, c.String("password"), name, role)
		if err != nil {
			return err
		}
		slog.Info("user created", "id", u.ID, "email", u.Email, "role", u.Role)
		return nil
	})
}

func setStatus(ctx context.Context, c *cli.Command) error {
	status := models.ProductStatus(strings.ToLower(c.String("status")))
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", c.String("status"))
	}
	slug := c.String("slug")

	return withDB(func(cfg *config.Config, db *sql.DB) error {
		found, err := store.NewProductStore(db).SetStatus(ctx, slug, status)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("product %q not found", slug)
		}
		invalidateResponses(ctx, cfg)
		slog.Info("product status changed", "slug", slug, "status", status)
		return nil
	})
}
