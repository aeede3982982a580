package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	importer "github.com/ieee-vbit/registration-backend-go/importer"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var (
		collection = flag.String("collection", "", "registration collection to import, e.g. CareerLinkParticipants")
		out        = flag.String("out", "registrations.xlsx", "output workbook path")
		zoneName   = flag.String("tz", "Asia/Kolkata", "time zone for rendered timestamps")
	)
	flag.Parse()

	_ = godotenv.Load()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	token := os.Getenv("FIRESTORE_TOKEN")
	if projectID == "" || token == "" || *collection == "" {
		log.Fatal().Msg("FIREBASE_PROJECT_ID, FIRESTORE_TOKEN and -collection are required")
	}

	zone, err := time.LoadLocation(*zoneName)
	if err != nil {
		log.Fatal().Err(err).Str("tz", *zoneName).Msg("unknown time zone")
	}

	client := importer.NewClient(projectID, *collection, token, zone, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	workbook, total, err := client.Export(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	if err := workbook.SaveAs(*out); err != nil {
		log.Fatal().Err(err).Msg("could not write workbook")
	}

	log.Info().Int("records", total).Str("out", *out).Msg("import complete")
}
