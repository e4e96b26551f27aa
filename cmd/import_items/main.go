package main

import (
	"context"
	"flag"
	"log"
	"os"

	"trading_backend/internal/catalog"
	"trading_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	game := flag.String("game", "PS99", "game the items belong to")
	file := flag.String("file", "", "JSON values file (name -> value); seeds the builtin list when empty")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	importer := catalog.NewImporter(repository.NewCatalogRepository(db))

	var count int
	if *file != "" {
		count, err = importer.ImportFile(context.Background(), *game, *file)
	} else {
		count, err = importer.ImportBuiltin(context.Background(), *game)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("imported %d items for %s", count, *game)
}
