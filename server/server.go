// Package server exposes stored listings and on-demand cost projections
// over a small read-only JSON API.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"house_scout/analysis"
	"house_scout/storage"
)

const defaultProjectionYears = 30

type Server struct {
	store    storage.Store
	defaults analysis.Defaults
}

func New(store storage.Store, defaults analysis.Defaults) *Server {
	return &Server{store: store, defaults: defaults}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/listings", s.handleListListings)
		r.Get("/listings/{id}", s.handleGetListing)
		r.Get("/listings/{id}/analysis", s.handleAnalysis)
		r.Get("/compare", s.handleCompare)
	})

	return r
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.GetAllListings(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "list listings failed")
		log.Printf("Warning: list listings: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.store.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusInternalServerError, "get listing failed")
		log.Printf("Warning: get listing: %v", err)
		return
	}
	if listing == nil {
		httpError(w, http.StatusNotFound, "listing not found")
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// analysisResponse bundles one projection run.
type analysisResponse struct {
	Params  analysis.Params           `json:"params"`
	Years   []analysis.YearlyAnalysis `json:"years"`
	Summary *analysis.Summary         `json:"summary"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	listing, err := s.store.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, http.StatusInternalServerError, "get listing failed")
		log.Printf("Warning: get listing: %v", err)
		return
	}
	if listing == nil {
		httpError(w, http.StatusNotFound, "listing not found")
		return
	}
	if listing.Price == nil {
		httpError(w, http.StatusUnprocessableEntity, "listing has no price")
		return
	}

	years := queryInt(r, "years", defaultProjectionYears)
	if years < 1 || years > 100 {
		httpError(w, http.StatusBadRequest, "years must be between 1 and 100")
		return
	}

	params := analysis.ParamsFromListing(listing, s.defaults)
	applyOverrides(&params, r)
	results := analysis.Run(params, years)

	writeJSON(w, http.StatusOK, analysisResponse{
		Params:  params,
		Years:   results,
		Summary: analysis.Summarize(results),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	idsParam := r.URL.Query().Get("ids")
	if idsParam == "" {
		httpError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}
	years := queryInt(r, "years", defaultProjectionYears)
	if years < 1 || years > 100 {
		httpError(w, http.StatusBadRequest, "years must be between 1 and 100")
		return
	}

	var homes []analysis.NamedParams
	for _, id := range strings.Split(idsParam, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		listing, err := s.store.GetListing(r.Context(), id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "get listing failed")
			log.Printf("Warning: get listing: %v", err)
			return
		}
		if listing == nil || listing.Price == nil {
			httpError(w, http.StatusNotFound, "listing "+id+" not found or has no price")
			return
		}
		homes = append(homes, analysis.NamedParams{
			Name:   listing.Address,
			Params: analysis.ParamsFromListing(listing, s.defaults),
		})
	}
	if len(homes) == 0 {
		httpError(w, http.StatusBadRequest, "no listing ids given")
		return
	}

	writeJSON(w, http.StatusOK, analysis.Compare(homes, years))
}

// applyOverrides lets callers tweak individual projection inputs per
// request without touching the stored listing or the defaults.
func applyOverrides(p *analysis.Params, r *http.Request) {
	for key, dst := range map[string]*float64{
		"down_payment_pct":      &p.DownPaymentPct,
		"purchase_fees":         &p.PurchaseFees,
		"property_tax_rate":     &p.PropertyTaxRate,
		"monthly_repair_pct":    &p.MonthlyRepairPct,
		"hoa_monthly":           &p.HOAMonthly,
		"annual_growth_rate":    &p.AnnualGrowthRate,
		"interest_rate":         &p.InterestRate,
		"maintenance_inflation": &p.MaintenanceInflation,
	} {
		if v := r.URL.Query().Get(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	if v := r.URL.Query().Get("loan_term_years"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.LoanTermYears = n
		}
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
