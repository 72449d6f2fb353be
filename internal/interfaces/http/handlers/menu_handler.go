package handlers

import (
	"net/http"

	"github.com/turtacn/Joana-OrderBot/internal/domain/catalog"
	"github.com/turtacn/Joana-OrderBot/internal/domain/locale"
	"github.com/turtacn/Joana-OrderBot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Joana-OrderBot/internal/intelligence/order_nlu"
	"github.com/turtacn/Joana-OrderBot/pkg/errors"
)

// MenuHandler serves the catalog and the NLU diagnostics endpoint.
type MenuHandler struct {
	cat      *catalog.Catalog
	nlu      *order_nlu.NLU
	currency string
	logger   logging.Logger
}

func NewMenuHandler(cat *catalog.Catalog, nlu *order_nlu.NLU, currency string, logger logging.Logger) *MenuHandler {
	return &MenuHandler{cat: cat, nlu: nlu, currency: currency, logger: logger}
}

type MenuItem struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	NeedsPreference bool   `json:"needs_preference,omitempty"`
}

type MenuCategory struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Items []MenuItem `json:"items"`
}

type MenuResponse struct {
	Restaurant string         `json:"restaurant"`
	Lang       locale.Lang    `json:"lang"`
	Currency   string         `json:"currency"`
	Categories []MenuCategory `json:"categories"`
}

type BranchView struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// queryLang reads ?lang=, defaulting to English.
func queryLang(r *http.Request) (locale.Lang, error) {
	raw := r.URL.Query().Get("lang")
	if raw == "" {
		return locale.EN, nil
	}
	lang, ok := locale.Parse(raw)
	if !ok {
		return "", errors.InvalidParam("unsupported lang").WithDetail(raw)
	}
	return lang, nil
}

// Menu handles GET /api/v1/menu.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	lang, err := queryLang(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	resp := MenuResponse{
		Restaurant: h.cat.Restaurant.Name(lang),
		Lang:       lang,
		Currency:   h.currency,
		Categories: make([]MenuCategory, 0, len(h.cat.Categories)),
	}
	for _, c := range h.cat.Categories {
		mc := MenuCategory{ID: c.ID, Title: c.Title(lang), Items: []MenuItem{}}
		for _, it := range h.cat.ItemsIn(c.ID) {
			mc.Items = append(mc.Items, MenuItem{
				ID:              it.ID,
				Name:            it.Name(lang),
				Price:           it.Price.StringFixed(2),
				NeedsPreference: it.NeedsPreference,
			})
		}
		resp.Categories = append(resp.Categories, mc)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Branches handles GET /api/v1/branches.
func (h *MenuHandler) Branches(w http.ResponseWriter, r *http.Request) {
	lang, err := queryLang(r)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	out := make([]BranchView, 0, len(h.cat.Branches))
	for _, b := range h.cat.Branches {
		out = append(out, BranchView{ID: b.ID, Name: b.Name(lang), Address: b.Address, Phone: b.Phone})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"branches": out})
}

type ParseRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

type ParseResponse struct {
	order_nlu.ParseResult
	Lang    locale.Lang       `json:"lang,omitempty"`
	Command order_nlu.Command `json:"command,omitempty"`
}

// Parse handles POST /api/v1/nlu/parse.
func (h *MenuHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if req.Text == "" {
		writeAppError(w, h.logger, errors.InvalidParam("text is required"))
		return
	}
	lang, ok := locale.Parse(req.Lang)
	if !ok {
		lang, _ = locale.Detect(req.Text)
	}
	writeJSON(w, http.StatusOK, ParseResponse{
		ParseResult: h.nlu.Extractor.Parse(req.Text),
		Lang:        lang,
		Command:     h.nlu.Detector.Detect(req.Text),
	})
}
