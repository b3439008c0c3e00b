// Package httpapi exposes the storefront REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	app "github.com/aurelia-skincare/storefront/internal/app"
	"github.com/aurelia-skincare/storefront/internal/app/domain/catalog"
	"github.com/aurelia-skincare/storefront/internal/app/domain/formulation"
	configuratorsvc "github.com/aurelia-skincare/storefront/internal/app/services/configurator"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the storefront REST API.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	r.HandleFunc("/catalog/oils", h.listComponents(catalog.KindOil)).Methods(http.MethodGet)
	r.HandleFunc("/catalog/extracts", h.listComponents(catalog.KindExtract)).Methods(http.MethodGet)
	r.HandleFunc("/catalog/functions", h.listComponents(catalog.KindFunction)).Methods(http.MethodGet)
	r.HandleFunc("/catalog/status", h.catalogStatus).Methods(http.MethodGet)

	r.HandleFunc("/configurator/sessions", h.createSession).Methods(http.MethodPost)
	r.HandleFunc("/configurator/sessions/{id}", h.getSession).Methods(http.MethodGet)
	r.HandleFunc("/configurator/sessions/{id}", h.discardSession).Methods(http.MethodDelete)
	r.HandleFunc("/configurator/sessions/{id}/oil", h.selectOil).Methods(http.MethodPut)
	r.HandleFunc("/configurator/sessions/{id}/extracts", h.toggleExtract).Methods(http.MethodPost)
	r.HandleFunc("/configurator/sessions/{id}/function", h.selectFunction).Methods(http.MethodPut)
	r.HandleFunc("/configurator/sessions/{id}/advance", h.advance).Methods(http.MethodPost)
	r.HandleFunc("/configurator/sessions/{id}/retreat", h.retreat).Methods(http.MethodPost)
	r.HandleFunc("/configurator/sessions/{id}/quote", h.quote).Methods(http.MethodGet)
	r.HandleFunc("/configurator/sessions/{id}/finalize", h.finalize).Methods(http.MethodPost)

	r.HandleFunc("/cart/items", h.cartItems).Methods(http.MethodGet)
	r.HandleFunc("/subscriptions", h.subscriptions).Methods(http.MethodGet)

	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Catalog ---------------------------------------------------------------------

type componentResponse struct {
	ID            string   `json:"id"`
	Kind          string   `json:"kind"`
	Name          string   `json:"name"`
	PriceModifier float64  `json:"price_modifier"`
	Icon          string   `json:"icon,omitempty"`
	Ingredients   []string `json:"ingredients,omitempty"`
}

func toComponentResponse(c catalog.Component) componentResponse {
	return componentResponse{
		ID:            c.ID,
		Kind:          string(c.Kind),
		Name:          c.Name,
		PriceModifier: c.PriceModifier,
		Icon:          c.Icon,
		Ingredients:   c.Ingredients,
	}
}

func (h *handler) listComponents(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			items []catalog.Component
			err   error
		)
		switch kind {
		case catalog.KindOil:
			items, err = h.app.Catalog.Oils(r.Context())
		case catalog.KindExtract:
			items, err = h.app.Catalog.Extracts(r.Context())
		default:
			items, err = h.app.Catalog.Functions(r.Context())
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		out := make([]componentResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toComponentResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (h *handler) catalogStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Catalog.Status())
}

// Configurator ----------------------------------------------------------------

type sessionResponse struct {
	ID         string        `json:"id"`
	Step       int           `json:"step"`
	OilID      string        `json:"oil_id,omitempty"`
	ExtractIDs []string      `json:"extract_ids"`
	FunctionID string        `json:"function_id,omitempty"`
	CanAdvance bool          `json:"can_advance"`
	Progress   float64       `json:"progress"`
	Quote      quoteResponse `json:"quote"`
	Applied    *bool         `json:"applied,omitempty"`
}

type quoteResponse struct {
	Status  string  `json:"status"`
	Value   float64 `json:"value,omitempty"`
	Display string  `json:"display,omitempty"`
	Error   string  `json:"error,omitempty"`
}

func toQuoteResponse(q formulation.Quote) quoteResponse {
	out := quoteResponse{Status: string(q.Status), Error: q.Err}
	if q.Status == formulation.QuoteResolved {
		out.Value = q.Value
		out.Display = fmt.Sprintf("%.2f", q.Value)
	}
	return out
}

func toSessionResponse(st configuratorsvc.State, applied *bool) sessionResponse {
	extracts := st.Selection.ExtractIDs
	if extracts == nil {
		extracts = []string{}
	}
	return sessionResponse{
		ID:         st.ID,
		Step:       st.Selection.Step,
		OilID:      st.Selection.OilID,
		ExtractIDs: extracts,
		FunctionID: st.Selection.FunctionID,
		CanAdvance: st.CanAdvance,
		Progress:   st.Progress,
		Quote:      toQuoteResponse(st.Quote),
		Applied:    applied,
	}
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	st := h.app.Configurator.CreateSession(r.Context())
	writeJSON(w, http.StatusCreated, toSessionResponse(st, nil))
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.app.Configurator.GetSession(mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(st, nil))
}

func (h *handler) discardSession(w http.ResponseWriter, r *http.Request) {
	h.app.Configurator.Discard(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

type componentRequest struct {
	ComponentID string `json:"component_id"`
}

type mutateFunc func(ctx context.Context, id, componentID string) (configuratorsvc.State, bool, error)

func (h *handler) selection(w http.ResponseWriter, r *http.Request, op mutateFunc) {
	var payload componentRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	st, applied, err := op(r.Context(), mux.Vars(r)["id"], payload.ComponentID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(st, &applied))
}

func (h *handler) selectOil(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, h.app.Configurator.SelectOil)
}

func (h *handler) toggleExtract(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, h.app.Configurator.ToggleExtract)
}

func (h *handler) selectFunction(w http.ResponseWriter, r *http.Request) {
	h.selection(w, r, h.app.Configurator.SelectFunction)
}

func (h *handler) advance(w http.ResponseWriter, r *http.Request) {
	st, applied, err := h.app.Configurator.Advance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(st, &applied))
}

func (h *handler) retreat(w http.ResponseWriter, r *http.Request) {
	st, applied, err := h.app.Configurator.Retreat(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(st, &applied))
}

func (h *handler) quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.app.Configurator.Quote(mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

type finalizeRequest struct {
	Mode string `json:"mode"`
}

type formulationResponse struct {
	SyntheticID int64   `json:"synthetic_id"`
	DisplayName string  `json:"display_name"`
	Price       float64 `json:"price"`
	Display     string  `json:"display_price"`
	Image       string  `json:"image"`
	SizeLabel   string  `json:"size_label"`
	SKU         string  `json:"sku"`
}

func toFormulationResponse(item formulation.Formulation) formulationResponse {
	return formulationResponse{
		SyntheticID: item.SyntheticID,
		DisplayName: item.DisplayName,
		Price:       item.Price,
		Display:     fmt.Sprintf("%.2f", item.Price),
		Image:       item.Image,
		SizeLabel:   item.SizeLabel,
		SKU:         item.SKU,
	}
}

func (h *handler) finalize(w http.ResponseWriter, r *http.Request) {
	var payload finalizeRequest
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.app.Configurator.Finalize(r.Context(), mux.Vars(r)["id"], formulation.PurchaseMode(payload.Mode))
	if err != nil {
		switch {
		case errors.Is(err, configuratorsvc.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, configuratorsvc.ErrQuoteUnresolved):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, configuratorsvc.ErrUnknownPurchaseMode):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, toFormulationResponse(item))
}

// Cart ------------------------------------------------------------------------

func (h *handler) cartItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.app.Cart.Items(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]formulationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toFormulationResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) subscriptions(w http.ResponseWriter, r *http.Request) {
	plans, err := h.app.Cart.Plans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	type planResponse struct {
		Item    formulationResponse `json:"item"`
		Cadence string              `json:"cadence"`
	}
	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResponse{Item: toFormulationResponse(p.Item), Cadence: p.Cadence})
	}
	writeJSON(w, http.StatusOK, out)
}

// Helpers ---------------------------------------------------------------------

func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, configuratorsvc.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func decodeJSON(r io.Reader, target interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
