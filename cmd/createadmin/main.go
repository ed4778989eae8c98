package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/config"
	"github.com/DJIMIGA/bolibanastock/internal/database"
	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

// createadmin bootstraps a site and its first operator account.
func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	_ = godotenv.Load()

	siteName := flag.String("site", "", "site name (creates the site when no -site-id is given)")
	siteID := flag.Int("site-id", 0, "existing site id to attach the user to")
	email := flag.String("email", "", "operator email")
	password := flag.String("password", "", "operator password")
	name := flag.String("name", "Admin", "operator display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: createadmin -email <email> -password <password> [-site <name> | -site-id <id>] [-name <name>]")
		os.Exit(2)
	}
	if *siteID == 0 && *siteName == "" {
		fmt.Fprintln(os.Stderr, "either -site or -site-id is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	targetSiteID := *siteID
	if targetSiteID != 0 {
		siteRepo := repository.NewSiteRepository(db)
		if _, err := siteRepo.GetByID(targetSiteID); err != nil {
			log.Fatal().Err(utils.ErrSiteNotFound).Int("site_id", targetSiteID).Msg("site does not exist")
		}
	}
	if targetSiteID == 0 {
		var site models.Site
		err := db.QueryRowx(
			`INSERT INTO sites (name) VALUES ($1) RETURNING id, name, created_at, updated_at`,
			*siteName,
		).StructScan(&site)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create site")
		}
		targetSiteID = site.ID
		log.Info().Int("site_id", site.ID).Str("name", site.Name).Msg("Site created")
	}

	authSvc := service.NewAuthService(repository.NewUserRepository(db))
	user, err := authSvc.CreateUser(targetSiteID, *email, *password, *name)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create user")
	}

	log.Info().Int("user_id", user.ID).Int("site_id", user.SiteID).Str("email", user.Email).Msg("Admin user created")
}
