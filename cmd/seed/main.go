package main

import (
	"context"
	"log"

	"github.com/BruksfildServices01/clinic-admin/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-admin/internal/db"
	"github.com/BruksfildServices01/clinic-admin/internal/seed"
)

func main() {
	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	res, err := seed.Run(context.Background(), db, seed.Admin{
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Name:     cfg.SeedAdminName,
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Printf("seeded admin %s (role %q, permission %q)", res.User.Email, res.Role.Name, res.Permission.Name)
}
