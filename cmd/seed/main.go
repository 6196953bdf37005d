// Seeds sample users, hotels, and the inspection checklist, plus one
// completed example inspection. Safe to re-run: users upsert by email and
// duplicate reference rows are skipped by name.
package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"lodgeiq/internal/adapters/observability"
	"lodgeiq/internal/app"
	"lodgeiq/internal/auth"
	"lodgeiq/internal/domain"
	"lodgeiq/internal/shared"
	mysqlrepo "lodgeiq/internal/storage/mysql"
)

func ptr[T any](v T) *T { return &v }

var users = []domain.User{
	{Email: "john.doe@lodgeiq.com", Name: "John Doe", Role: domain.RoleInspector},
	{Email: "jane.smith@lodgeiq.com", Name: "Jane Smith", Role: domain.RoleInspector},
	{Email: "manager@lodgeiq.com", Name: "Sarah Manager", Role: domain.RoleManager},
}

var hotels = []domain.Hotel{
	{
		Name: "Grand Palace Hotel", Address: "123 Royal Street", City: "Paris", Country: "France",
		Phone: ptr("+33 1 23 45 67 89"), Email: ptr("info@grandpalace.fr"), Website: ptr("https://grandpalace.fr"),
		Description: ptr("Luxury 5-star hotel in the heart of Paris"),
		Latitude:    ptr(48.8566), Longitude: ptr(2.3522),
	},
	{
		Name: "Sunset Beach Resort", Address: "456 Ocean Drive", City: "Miami", Country: "USA",
		Phone: ptr("+1 305 123 4567"), Email: ptr("reservations@sunsetbeach.com"), Website: ptr("https://sunsetbeach.com"),
		Description: ptr("Beachfront resort with stunning ocean views"),
		Latitude:    ptr(25.7617), Longitude: ptr(-80.1918),
	},
	{
		Name: "Mountain View Lodge", Address: "789 Alpine Road", City: "Zurich", Country: "Switzerland",
		Phone: ptr("+41 44 123 45 67"), Email: ptr("info@mountainview.ch"),
		Description: ptr("Cozy lodge with spectacular mountain views"),
		Latitude:    ptr(47.3769), Longitude: ptr(8.5417),
	},
}

type itemSeed struct {
	category, name, desc string
	weight               float64
	order                int
}

var checklist = []itemSeed{
	{"Room Quality", "Bed Comfort", "Check mattress quality, pillows, and bedding", 1.5, 1},
	{"Room Quality", "Room Size", "Adequate space for guests and luggage", 1.0, 2},
	{"Room Quality", "Air Conditioning/Heating", "Temperature control functionality", 1.5, 3},
	{"Cleanliness", "Bathroom Cleanliness", "Check toilet, shower, sink, and floors", 2.0, 1},
	{"Cleanliness", "Room Cleanliness", "Overall room hygiene and tidiness", 1.5, 2},
	{"Cleanliness", "Linen Quality", "Clean, fresh sheets and towels", 1.5, 3},
	{"Safety", "Fire Safety Equipment", "Check smoke detectors, fire extinguishers, exits", 2.0, 1},
	{"Safety", "Door Locks", "Secure locks and peephole functionality", 1.5, 2},
	{"Safety", "Emergency Information", "Visible emergency exits and contact info", 1.0, 3},
	{"Amenities", "WiFi Quality", "Internet speed and reliability", 1.5, 1},
	{"Amenities", "TV and Entertainment", "TV functionality and channel selection", 0.5, 2},
	{"Amenities", "Bathroom Amenities", "Toiletries, hair dryer, etc.", 1.0, 3},
	{"Staff & Service", "Check-in Process", "Efficiency and friendliness at reception", 1.5, 1},
	{"Staff & Service", "Staff Responsiveness", "Staff availability and helpfulness", 1.5, 2},
	{"Staff & Service", "Language Skills", "Staff ability to communicate in required languages", 1.0, 3},
}

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	ctx := context.Background()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	verifier := auth.NewVerifier(cfg.AuthSecret)

	// users (upsert by email)
	seeded := make(map[string]domain.User, len(users))
	for _, u := range users {
		existing, err := repo.GetUserByEmail(ctx, u.Email)
		if err == nil {
			seeded[u.Email] = existing
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Fatal().Err(err).Str("email", u.Email).Msg("lookup user failed")
		}
		u.ID = uuid.NewString()
		if err := repo.CreateUser(ctx, u); err != nil {
			log.Fatal().Err(err).Str("email", u.Email).Msg("create user failed")
		}
		seeded[u.Email] = u
		log.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("user created")
	}

	// hotels (skip ones already present by name)
	existingHotels, err := repo.ListHotels(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list hotels failed")
	}
	haveHotel := make(map[string]string, len(existingHotels))
	for _, h := range existingHotels {
		haveHotel[h.Name] = h.ID
	}
	for _, h := range hotels {
		if _, ok := haveHotel[h.Name]; ok {
			continue
		}
		h.ID = uuid.NewString()
		if err := repo.CreateHotel(ctx, h); err != nil {
			log.Fatal().Err(err).Str("hotel", h.Name).Msg("create hotel failed")
		}
		haveHotel[h.Name] = h.ID
		log.Info().Str("hotel", h.Name).Msg("hotel created")
	}

	// checklist items
	existingItems, err := repo.ListChecklistItems(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list checklist items failed")
	}
	haveItem := make(map[string]domain.ChecklistItem, len(existingItems))
	for _, it := range existingItems {
		haveItem[it.Category+"/"+it.ItemName] = it
	}
	for _, s := range checklist {
		if _, ok := haveItem[s.category+"/"+s.name]; ok {
			continue
		}
		it := domain.ChecklistItem{
			ID:       uuid.NewString(),
			Category: s.category,
			ItemName: s.name,
			Weight:   s.weight,
			Order:    s.order,
			IsActive: true,
		}
		desc := s.desc
		it.Description = &desc
		if err := repo.CreateChecklistItem(ctx, it); err != nil {
			log.Fatal().Err(err).Str("item", s.name).Msg("create checklist item failed")
		}
		haveItem[s.category+"/"+s.name] = it
	}
	log.Info().Int("items", len(checklist)).Msg("checklist ready")

	// one completed sample inspection against the Paris hotel
	inspector := seeded["john.doe@lodgeiq.com"]
	hotelID := haveHotel["Grand Palace Hotel"]
	summaries, err := repo.ListInspections(ctx, domain.InspectionsQuery{HotelID: &hotelID, Limit: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("list inspections failed")
	}
	if len(summaries) == 0 {
		now := time.Now()
		i := domain.Inspection{
			ID:               uuid.NewString(),
			HotelID:          hotelID,
			InspectorID:      inspector.ID,
			Status:           domain.StatusCompleted,
			InspectionDate:   now,
			Notes:            "Excellent property with minor issues in room 305",
			FollowUpRequired: true,
			FollowUpNotes:    ptr("Replace air conditioning unit in room 305"),
			CompletedAt:      &now,
		}
		var results []domain.InspectionResult
		for _, s := range checklist {
			value := domain.ResultPass
			if s.name == "Air Conditioning/Heating" {
				value = domain.ResultNeedsImprovement
			}
			results = append(results, domain.InspectionResult{
				ID:              uuid.NewString(),
				InspectionID:    i.ID,
				ChecklistItemID: haveItem[s.category+"/"+s.name].ID,
				Result:          value,
				Notes:           "Checked during walkthrough",
			})
		}
		i.OverallRating, i.FollowUpRequired = app.Aggregate(results)
		if err := repo.CreateInspection(ctx, i); err != nil {
			log.Fatal().Err(err).Msg("create sample inspection failed")
		}
		for _, res := range results {
			if _, err := repo.UpsertResult(ctx, res); err != nil {
				log.Fatal().Err(err).Msg("seed result failed")
			}
		}
		log.Info().Str("hotel", "Grand Palace Hotel").Msg("sample inspection created")
	}

	// dev tokens so the API can be exercised immediately
	if cfg.AuthSecret != "" {
		for _, u := range users {
			su := seeded[u.Email]
			tok, err := verifier.Mint(su.ID, su.Email, 30*24*time.Hour)
			if err != nil {
				log.Fatal().Err(err).Msg("mint token failed")
			}
			log.Info().Str("email", su.Email).Str("token", tok).Msg("dev token")
		}
	}

	log.Info().Msg("seed completed")
}
