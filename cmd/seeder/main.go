package main

import (
	"context"
	"flag"

	"github.com/google/uuid"

	"mindshare/internal/adapters/config"
	pgclient "mindshare/internal/adapters/postgres"
	"mindshare/internal/domain/catalog"
	pgrepo "mindshare/internal/repository/postgres"
	"mindshare/pkg/errors"
	"mindshare/pkg/logger"
)

// Seeds the project catalog with a starter set so a fresh environment has
// something to score. Existing handles are left untouched.
func main() {
	dryRun := flag.Bool("dry-run", false, "List seed projects without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	log := logger.Get()

	projects := seedProjects()

	log.Infow("Starting catalog seeder",
		"projects", len(projects),
		"dry_run", *dryRun,
		"database", cfg.Postgres.Database,
	)

	if *dryRun {
		for _, p := range projects {
			log.Infow("Would seed project", "name", p.Name, "handle", p.Handle)
		}
		return
	}

	pg, err := pgclient.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	repo := pgrepo.NewCatalogRepository(pg.DB())
	ctx := context.Background()

	created := 0
	for _, project := range projects {
		if _, err := repo.GetByHandle(ctx, project.Handle); err == nil {
			log.Debugw("Project already exists, skipping", "handle", project.Handle)
			continue
		} else if !errors.Is(err, errors.ErrNotFound) {
			log.Fatalf("Failed to check project %s: %v", project.Handle, err)
		}

		if err := repo.Create(ctx, &project); err != nil {
			// Lost the race against a concurrent seeder run
			if errors.Is(err, errors.ErrAlreadyExists) {
				log.Debugw("Project already exists, skipping", "handle", project.Handle)
				continue
			}
			log.Fatalf("Failed to seed project %s: %v", project.Handle, err)
		}
		log.Infow("Seeded project", "name", project.Name, "handle", project.Handle)
		created++
	}

	log.Infow("Catalog seeding complete", "created", created, "skipped", len(projects)-created)
}

// seedProjects returns the starter catalog
func seedProjects() []catalog.Project {
	return []catalog.Project{
		{
			ID:        uuid.New(),
			Name:      "Bitcoin",
			Handle:    "bitcoin",
			ShortName: "btc",
			Keywords:  []string{"satoshi", "halving"},
			IsActive:  true,
		},
		{
			ID:        uuid.New(),
			Name:      "Ethereum",
			Handle:    "ethereum",
			ShortName: "eth",
			Keywords:  []string{"vitalik", "evm", "layer 2"},
			IsActive:  true,
		},
		{
			ID:        uuid.New(),
			Name:      "Solana",
			Handle:    "solana",
			ShortName: "sol",
			Keywords:  []string{"proof of history", "spl"},
			IsActive:  true,
		},
		{
			ID:        uuid.New(),
			Name:      "Celestia",
			Handle:    "celestia",
			ShortName: "tia",
			Keywords:  []string{"data availability", "modular blockchain"},
			IsActive:  true,
		},
	}
}
