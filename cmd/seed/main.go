package main

import (
	"context"
	"errors"
	"log"

	"schoolhub-be/internal/config"
	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/pkg/logger"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/unitofwork"
	"schoolhub-be/pkg/database"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/theme"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type demoSchool struct {
	Info     onboarding.Info
	Contact  onboarding.Contact
	Branding onboarding.Branding
	Preset   string
}

var demoSchools = []demoSchool{
	{
		Info:     onboarding.Info{Name: "Green Valley High", Slug: "green-valley-high", ContactEmail: "office@greenvalley.example"},
		Contact:  onboarding.Contact{Timezone: "America/Chicago", Language: "en", Currency: "USD"},
		Branding: onboarding.Branding{PrimaryColor: "#2E7D32", SecondaryColor: "#A5D6A7", AccentColor: "#FFB300"},
		Preset:   constant.PresetCore,
	},
	{
		Info:     onboarding.Info{Name: "Riverside Academy", Slug: "riverside-academy", ContactEmail: "admin@riverside.example"},
		Contact:  onboarding.Contact{Timezone: "Europe/London", Language: "en", Currency: "GBP"},
		Branding: onboarding.Branding{PrimaryColor: "#1565C0", FontFamily: "Merriweather"},
		Preset:   constant.PresetStandard,
	},
	{
		Info:    onboarding.Info{Name: "Sekolah Nusantara", Slug: "sekolah-nusantara", ContactEmail: "tu@nusantara.example"},
		Contact: onboarding.Contact{Timezone: "Asia/Jakarta", Language: "id", Currency: "IDR"},
		Preset:  constant.PresetComplete,
	},
}

// seedUserID is stable per slug so reruns hit the unique slug instead of
// creating a second tenant.
func seedUserID(slug string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("schoolhub-seed/"+slug))
}

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	palette := theme.Palette{
		Primary:    cfg.Tenant.PrimaryColor,
		Secondary:  cfg.Tenant.SecondaryColor,
		Accent:     cfg.Tenant.AccentColor,
		FontFamily: cfg.Tenant.FontFamily,
	}
	completer := onboarding.NewCompleter(unitofwork.NewRepositoryFactory(db), constant.DefaultCatalog, palette, logger.NewNopLogger(), nil)

	color.Cyan("Seeding %d demo tenants...", len(demoSchools))

	var created, skipped, failed int
	for _, school := range demoSchools {
		err := seed(context.Background(), completer, school)
		switch {
		case err == nil:
			created++
			color.Green("  ✓ %s (%s, preset %s)", school.Info.Name, school.Info.Slug, school.Preset)
		case errors.Is(err, contract.ErrDuplicateKey):
			skipped++
			color.Yellow("  - %s already exists, skipping", school.Info.Slug)
		default:
			failed++
			color.Red("  ✗ %s: %v", school.Info.Slug, err)
		}
	}

	color.Cyan("Done: %d created, %d skipped, %d failed", created, skipped, failed)
}

func seed(ctx context.Context, completer *onboarding.Completer, school demoSchool) error {
	w := onboarding.NewWizard(seedUserID(school.Info.Slug), constant.DefaultCatalog, completer)

	if err := w.SetInfo(school.Info); err != nil {
		return err
	}
	if err := w.SetContact(school.Contact); err != nil {
		return err
	}
	if err := w.SetBranding(school.Branding); err != nil {
		return err
	}
	if err := w.ApplyPreset(school.Preset); err != nil {
		return err
	}

	for w.Step() != onboarding.StepComplete {
		if _, err := w.Next(ctx); err != nil {
			return err
		}
	}
	return nil
}
