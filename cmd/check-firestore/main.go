package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/state-stats-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/state-stats-dashboard/internal/platform/firestore"
	"github.com/weiwei-tsao/state-stats-dashboard/internal/repository"
	"github.com/weiwei-tsao/state-stats-dashboard/pkg/util"
)

func main() {
	key := flag.String("state", "CA", "state key to print")
	flag.Parse()

	ctx := context.Background()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, credsSource, err := firestoreclient.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer client.Close()
	log.Printf("Connected to Firestore project %s using %s credentials", cfg.FirebaseProjectID, credsSource)

	repo := repository.NewRegionStatRepository(client, cfg.FirestoreCollection)
	records, err := repo.FetchAll(ctx)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", repo.Collection(), err)
	}
	fmt.Printf("Collection %s: %d documents\n", repo.Collection(), len(records))

	store, err := dashboard.NewStore(records)
	if err != nil {
		fmt.Printf("Dataset is NOT servable: %v\n", err)
	} else {
		fmt.Printf("Dataset is servable (fingerprint %s)\n", store.Version())
	}

	if meta, err := repo.GetMeta(ctx); err != nil {
		fmt.Printf("No seed metadata: %v\n", err)
	} else {
		match := "differs from"
		if store != nil && meta.Fingerprint == util.FingerprintRecords(store.All()) {
			match = "matches"
		}
		fmt.Printf("Seeded %s from %s source, %d records; stored data %s the seeded fingerprint\n",
			meta.SeededAt.Format("2006-01-02 15:04:05"), meta.Source, meta.Records, match)
	}

	if store == nil {
		return
	}
	stat, ok := store.Get(*key)
	if !ok {
		fmt.Printf("State %s: DOES NOT EXIST in Firestore\n", *key)
		return
	}
	jsonData, err := json.MarshalIndent(stat, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal: %v", err)
	}
	fmt.Printf("\n=== %s ===\n%s\n", stat.Key, jsonData)
}
