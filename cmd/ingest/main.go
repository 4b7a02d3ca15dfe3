package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"cemeteryhub/internal/ingest"
	"cemeteryhub/internal/store"
	"cemeteryhub/pkg/database"
	"cemeteryhub/pkg/models"
)

func main() {
	var (
		path   = flag.String("path", "", "file or directory to ingest")
		source = flag.String("source", "", "source label for persisted rows (defaults to the path basename)")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("usage: ingest -path <file-or-directory> [-source <label>]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (ok)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	info, err := os.Stat(*path)
	if err != nil {
		log.Fatalf("stat %s: %v", *path, err)
	}

	meta := models.FileMetadata{
		Filename:     filepath.Base(*path),
		DownloadTime: time.Now().UTC().Format(time.RFC3339),
	}
	if *source != "" {
		meta.Filename = *source
	}
	if info.Mode().IsRegular() {
		hash, err := hashFile(*path)
		if err != nil {
			log.Fatalf("hash %s: %v", *path, err)
		}
		meta.FileHash = hash
		meta.Size = info.Size()
	}
	processor := ingest.NewProcessor(store.NewRepo(db))

	var result *models.Result
	if info.IsDir() {
		result, err = processor.ProcessDirectory(ctx, *path, meta)
	} else {
		result, err = processor.ProcessSingleFile(ctx, *path, meta)
	}
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	fmt.Printf("run %s: %d processed, %d failed, %d features\n",
		result.RunID, result.RecordsProcessed, result.RecordsFailed, result.FeaturesCreated)
	for _, e := range result.Errors {
		if e.RecordID != nil {
			fmt.Printf("  record %s: %s\n", *e.RecordID, e.Message)
		} else {
			fmt.Printf("  %s\n", e.Message)
		}
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
