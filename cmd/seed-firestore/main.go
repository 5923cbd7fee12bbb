package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/dataset"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/state-stats-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/repository"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/util"
)

func main() {
	file := flag.String("file", "", "CSV or JSON dataset to upload (defaults to the embedded seed)")
	dryRun := flag.Bool("dry-run", false, "validate the dataset without writing")
	flag.Parse()

	ctx := context.Background()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	source := dataset.SourceEmbedded
	if *file != "" {
		source = dataset.SourceFile
	}
	records, err := dataset.Load(ctx, source, *file, nil)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	// Same checks the server runs at start-up.
	store, err := dashboard.NewStore(records)
	if err != nil {
		log.Fatalf("Dataset rejected: %v", err)
	}
	fmt.Printf("Loaded %d records from %s source (fingerprint %s)\n", store.Len(), source, store.Version())

	if *dryRun {
		fmt.Println("Dry run: nothing written")
		return
	}

	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()

	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	repo := repository.NewRegionStatRepository(client, cfg.FirestoreCollection)
	all := store.All()
	if err := repo.BatchUpsert(ctx, all); err != nil {
		log.Fatalf("Failed to write records: %v", err)
	}

	meta := model.DatasetMeta{
		Records:     len(all),
		Fingerprint: util.FingerprintRecords(all),
		Source:      source,
	}
	if err := repo.SaveMeta(ctx, meta); err != nil {
		log.Fatalf("Failed to save dataset metadata: %v", err)
	}

	fmt.Printf("✓ Wrote %d records to %s\n", len(all), repo.Collection())
}
