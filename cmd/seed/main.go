// Command seed prepares a database for serving: it applies the schema and
// loads the bundled university and dorm catalogs. Universities upsert by
// slug and dorms skip existing rows, so re-running it refreshes the catalog
// without duplicating anything. Seeded dorms are trusted and enter directly
// as approved, unlike user submissions which start pending.
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"dormbase/internal/db"
	"dormbase/internal/domain/dorms"
	"dormbase/internal/domain/moderation"
	"dormbase/internal/domain/storage"
	"dormbase/internal/domain/universities"
	"dormbase/internal/slug"

	"github.com/joho/godotenv"
)

//go:embed universities.json
var universitiesJSON []byte

//go:embed dorms.json
var dormsJSON []byte

type seedDorm struct {
	UniversitySlug string   `json:"universitySlug"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Amenities      []string `json:"amenities"`
	RoomTypes      []string `json:"roomTypes"`
}

func main() {
	schemaPath := flag.String("schema", "scripts/schema.sql", "path to the schema file; empty skips schema application")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxConns := 5
	if val := os.Getenv("DB_MAX_CONNS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		maxConns = parsed
	}

	pool, err := db.New(os.Getenv("DB_ADDR"), int32(maxConns), "15m")
	if err != nil {
		log.Fatalf("connecting to database: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if *schemaPath != "" {
		schema, err := os.ReadFile(*schemaPath)
		if err != nil {
			log.Fatalf("reading schema: %v", err)
		}
		if _, err := pool.Exec(ctx, string(schema)); err != nil {
			log.Fatalf("applying schema: %v", err)
		}
		log.Printf("schema applied from %s", *schemaPath)
	}

	store := storage.NewContainer(pool)

	var unis []universities.University
	if err := json.Unmarshal(universitiesJSON, &unis); err != nil {
		log.Fatalf("parsing bundled universities: %v", err)
	}

	for i := range unis {
		if err := store.Universities.Upsert(ctx, &unis[i]); err != nil {
			log.Fatalf("seeding %s: %v", unis[i].Slug, err)
		}
		log.Printf("seeded university %s", unis[i].Slug)
	}

	var seedDorms []seedDorm
	if err := json.Unmarshal(dormsJSON, &seedDorms); err != nil {
		log.Fatalf("parsing bundled dorms: %v", err)
	}

	created := 0
	for _, sd := range seedDorms {
		d := &dorms.Dorm{
			UniversitySlug: sd.UniversitySlug,
			Name:           sd.Name,
			Slug:           slug.Make(sd.Name),
			Description:    sd.Description,
			Amenities:      sd.Amenities,
			RoomTypes:      sd.RoomTypes,
			Status:         moderation.StatusApproved,
			SubmittedBy:    "seed",
		}
		if err := store.Dorms.Create(ctx, d); err != nil {
			if errors.Is(err, dorms.ErrDuplicate) {
				log.Printf("dorm %s/%s already present, skipping", d.UniversitySlug, d.Slug)
				continue
			}
			log.Fatalf("seeding dorm %s/%s: %v", d.UniversitySlug, d.Slug, err)
		}
		created++
		log.Printf("seeded dorm %s/%s", d.UniversitySlug, d.Slug)
	}

	log.Printf("done: %d universities, %d new dorms", len(unis), created)
}
