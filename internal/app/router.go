package app

import (
	"net/http"

	"github.com/dunecrest/realty-api/internal/analytics"
	"github.com/dunecrest/realty-api/internal/auth"
	"github.com/dunecrest/realty-api/internal/cms"
	"github.com/dunecrest/realty-api/internal/config"
	"github.com/dunecrest/realty-api/internal/content"
	"github.com/dunecrest/realty-api/internal/deal"
	"github.com/dunecrest/realty-api/internal/hero"
	"github.com/dunecrest/realty-api/internal/httpapi"
	"github.com/dunecrest/realty-api/internal/lead"
	"github.com/dunecrest/realty-api/internal/user"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NewRouter assembles the full HTTP surface. Everything lives under /api;
// writes sit behind the role predicates from the auth package.
func NewRouter(db *gorm.DB, cfg config.Config, logger zerolog.Logger) http.Handler {
	tokens := auth.NewManager(cfg.JWTSecret)

	userHandler := user.NewHandler(db, tokens, cfg.BackendOrigin)
	leadHandler := lead.NewHandler(db)
	dealHandler := deal.NewHandler(db)
	cmsHandler := cms.NewHandler(db)
	heroHandler := hero.NewHandler(db, cfg.BackendOrigin)
	analyticsHandler := analytics.NewHandler(db)

	// Role gates. Predicates compose left to right: authenticate, then
	// check the role, then run the handler.
	admin := func(h http.HandlerFunc) http.Handler {
		return tokens.Authenticate(auth.RequireAdmin(h))
	}
	agent := func(h http.HandlerFunc) http.Handler {
		return tokens.Authenticate(auth.RequireAgent(h))
	}
	staff := func(h http.HandlerFunc) http.Handler {
		return tokens.Authenticate(auth.RequireStaff(h))
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpapi.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Identity.
	api.HandleFunc("/login", userHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/register", userHandler.Register).Methods(http.MethodPost)
	api.Handle("/profile", staff(userHandler.Profile)).Methods(http.MethodGet)
	api.Handle("/profile", staff(userHandler.UpdateProfile)).Methods(http.MethodPut)

	// Users (admin CRUD, self read/update).
	api.Handle("/users", admin(userHandler.ListUsers)).Methods(http.MethodGet)
	api.Handle("/users", admin(userHandler.CreateUser)).Methods(http.MethodPost)
	api.Handle("/users/{id}", staff(userHandler.GetUser)).Methods(http.MethodGet)
	api.Handle("/users/{id}", staff(userHandler.UpdateUser)).Methods(http.MethodPut)
	api.Handle("/users/{id}", admin(userHandler.DeleteUser)).Methods(http.MethodDelete)
	api.Handle("/users/{id}/promote", admin(userHandler.Promote)).Methods(http.MethodPost)

	// Agents (admin management view; public listing below).
	api.Handle("/agents", admin(userHandler.ListAgents)).Methods(http.MethodGet)
	api.Handle("/agents", admin(userHandler.CreateAgent)).Methods(http.MethodPost)
	api.Handle("/agents/{id}", staff(userHandler.GetUser)).Methods(http.MethodGet)
	api.Handle("/agents/{id}", staff(userHandler.UpdateUser)).Methods(http.MethodPut)
	api.Handle("/agents/{id}", admin(userHandler.DeleteUser)).Methods(http.MethodDelete)

	// Marketing content: public read, admin write.
	mountContent(api, "properties", content.NewResource[content.Property](db, cfg.BackendOrigin), admin)
	mountContent(api, "slides", content.NewResource[content.Slide](db, cfg.BackendOrigin), admin)
	mountContent(api, "collaborations", content.NewResource[content.Collaboration](db, cfg.BackendOrigin), admin)
	mountContent(api, "yourperfect", content.NewResource[content.YourPerfect](db, cfg.BackendOrigin), admin)
	mountContent(api, "sidebarcard", content.NewResource[content.SidebarCard](db, cfg.BackendOrigin), admin)
	mountContent(api, "showcases", content.NewResource[content.Showcase](db, cfg.BackendOrigin), admin)

	// Hero (admin CRUD; public current below).
	api.Handle("/hero", admin(heroHandler.List)).Methods(http.MethodGet)
	api.Handle("/hero", admin(heroHandler.Create)).Methods(http.MethodPost)
	api.Handle("/hero/{id}", admin(heroHandler.Get)).Methods(http.MethodGet)
	api.Handle("/hero/{id}", admin(heroHandler.Update)).Methods(http.MethodPut)
	api.Handle("/hero/{id}", admin(heroHandler.Delete)).Methods(http.MethodDelete)

	// CMS settings: public read, admin write.
	api.HandleFunc("/cms-settings", cmsHandler.GetSettings).Methods(http.MethodGet)
	api.Handle("/cms-settings", admin(cmsHandler.UpdateSettings)).Methods(http.MethodPut)

	// Lead pipeline (admin side).
	api.Handle("/leads", admin(leadHandler.List)).Methods(http.MethodGet)
	api.Handle("/leads", admin(leadHandler.Create)).Methods(http.MethodPost)
	api.Handle("/leads/{id}", admin(leadHandler.Get)).Methods(http.MethodGet)
	api.Handle("/leads/{id}", admin(leadHandler.Update)).Methods(http.MethodPut)
	api.Handle("/leads/{id}", admin(leadHandler.Delete)).Methods(http.MethodDelete)
	api.Handle("/leads/{id}/assign", admin(leadHandler.Assign)).Methods(http.MethodPost)
	api.Handle("/leads/{id}/status", admin(leadHandler.UpdateStatus)).Methods(http.MethodPatch)
	api.Handle("/leads/{id}/notes", admin(leadHandler.ListNotes)).Methods(http.MethodGet)
	api.Handle("/leads/{id}/notes", admin(leadHandler.AddNote)).Methods(http.MethodPost)

	// Deals (admin side).
	api.Handle("/deals", admin(dealHandler.List)).Methods(http.MethodGet)
	api.Handle("/deals", admin(dealHandler.Create)).Methods(http.MethodPost)
	api.Handle("/deals/{id}", staff(dealHandler.Get)).Methods(http.MethodGet)
	api.Handle("/deals/{id}", admin(dealHandler.Update)).Methods(http.MethodPut)
	api.Handle("/deals/{id}", admin(dealHandler.Delete)).Methods(http.MethodDelete)

	// Analytics (admin, global).
	api.Handle("/analytics/summary", admin(analyticsHandler.Summary)).Methods(http.MethodGet)
	api.Handle("/analytics/agents", admin(analyticsHandler.Agents)).Methods(http.MethodGet)
	api.Handle("/analytics/revenue", admin(analyticsHandler.Revenue)).Methods(http.MethodGet)
	api.Handle("/analytics/sources", admin(analyticsHandler.Sources)).Methods(http.MethodGet)

	// Agent workspace, scoped to own assignments.
	api.Handle("/agent/leads", agent(leadHandler.AgentList)).Methods(http.MethodGet)
	api.Handle("/agent/leads/{id}", agent(leadHandler.Get)).Methods(http.MethodGet)
	api.Handle("/agent/leads/{id}/status", agent(leadHandler.UpdateStatus)).Methods(http.MethodPatch)
	api.Handle("/agent/leads/{id}/notes", agent(leadHandler.ListNotes)).Methods(http.MethodGet)
	api.Handle("/agent/leads/{id}/notes", agent(leadHandler.AddNote)).Methods(http.MethodPost)
	api.Handle("/agent/deals", agent(dealHandler.AgentList)).Methods(http.MethodGet)
	api.Handle("/agent/revenue", agent(dealHandler.AgentRevenue)).Methods(http.MethodGet)
	api.Handle("/agent/analytics", agent(analyticsHandler.AgentSummary)).Methods(http.MethodGet)

	// Public site endpoints, gated by the CMS flags.
	api.HandleFunc("/public/agents", userHandler.PublicAgents).Methods(http.MethodGet)
	api.HandleFunc("/public/hero", heroHandler.PublicCurrent).Methods(http.MethodGet)
	api.HandleFunc("/public/leads", leadHandler.PublicSubmit).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var handler http.Handler = r
	handler = c.Handler(handler)
	handler = requestLogger(logger)(handler)
	handler = recoverer(logger)(handler)
	return handler
}

type contentResource interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

func mountContent(api *mux.Router, path string, res contentResource, admin func(http.HandlerFunc) http.Handler) {
	api.HandleFunc("/"+path, res.List).Methods(http.MethodGet)
	api.HandleFunc("/"+path+"/{id}", res.Get).Methods(http.MethodGet)
	api.Handle("/"+path, admin(res.Create)).Methods(http.MethodPost)
	api.Handle("/"+path+"/{id}", admin(res.Update)).Methods(http.MethodPut)
	api.Handle("/"+path+"/{id}", admin(res.Delete)).Methods(http.MethodDelete)
}
