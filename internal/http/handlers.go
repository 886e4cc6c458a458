package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jscartlabs/cart-service/internal/cart"
	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/config"
	"github.com/jscartlabs/cart-service/internal/money"
	"github.com/jscartlabs/cart-service/internal/obs"
	httpopenapi "github.com/jscartlabs/cart-service/internal/http/openapi"
)

// App wires the cart core to the HTTP surface.
type App struct {
	Cfg        config.Config
	Catalog    *catalog.Catalog
	Cart       *cart.Store
	Controller *cart.Controller
	closing    bool
	started    time.Time
}

// NewApp constructs the HTTP application over the cart core.
func NewApp(cfg config.Config, cat *catalog.Catalog, st *cart.Store, ctrl *cart.Controller) *App {
	return &App{Cfg: cfg, Catalog: cat, Cart: st, Controller: ctrl, started: time.Now()}
}

// StartShutdown rejects further cart mutations.
func (a *App) StartShutdown() {
	a.closing = true
	a.Controller.CloseIntake()
}

type addItemInput struct {
	ProductID string `json:"product_id"`
}

type lineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type cartView struct {
	Lines             []lineView `json:"lines"`
	TotalQuantity     int64      `json:"total_quantity"`
	TotalPrice        int64      `json:"total_price"`
	TotalPriceDisplay string     `json:"total_price_display"`
}

type mutationResponse struct {
	Status    string   `json:"status"`
	RequestID string   `json:"request_id"`
	Cart      cartView `json:"cart"`
}

type productView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	Stock        int64  `json:"stock"`
}

// cartView renders the current lines and their totals from one line
// snapshot, so the figures always agree with each other.
func (a *App) cartView() cartView {
	lines := a.Cart.Lines()
	sum := cart.Summarize(a.Catalog, lines)
	v := cartView{
		Lines:             make([]lineView, 0, len(lines)),
		TotalQuantity:     sum.TotalQuantity,
		TotalPrice:        sum.TotalPrice,
		TotalPriceDisplay: money.Format(sum.TotalPrice),
	}
	for _, ln := range lines {
		p, ok := a.Catalog.Get(ln.ProductID)
		if !ok {
			continue
		}
		v.Lines = append(v.Lines, lineView{
			ProductID: ln.ProductID,
			Name:      p.Name,
			Quantity:  ln.Quantity,
			UnitPrice: p.Price,
			LineTotal: ln.Quantity * p.Price,
		})
	}
	return v
}

func (a *App) postCartItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing || a.Controller.IsShuttingDown() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var in addItemInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if in.ProductID == "" {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "product_id is required")
		return
	}
	sum, err := a.Controller.Add(r.Context(), in.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrUnknownProduct):
			WriteJSONError(w, http.StatusNotFound, "unknown_product", "product_id "+in.ProductID+" is not in the catalog")
		case errors.Is(err, cart.ErrShuttingDown):
			WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		default:
			WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	resp := mutationResponse{
		Status:    "ok",
		RequestID: RequestIDFromContext(r.Context()),
		Cart:      a.cartView(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	obs.Logger.Info("cart_item_added",
		"request_id", resp.RequestID,
		"product_id", in.ProductID,
		"total_quantity", sum.TotalQuantity,
		"total_price", sum.TotalPrice,
	)
}

func (a *App) cartHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(a.cartView())
	case http.MethodDelete:
		if a.closing || a.Controller.IsShuttingDown() {
			WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
			return
		}
		sum, err := a.Controller.Clear(r.Context())
		if err != nil {
			if errors.Is(err, cart.ErrShuttingDown) {
				WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
				return
			}
			WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		resp := mutationResponse{
			Status:    "ok",
			RequestID: RequestIDFromContext(r.Context()),
			Cart:      a.cartView(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
		obs.Logger.Info("cart_cleared",
			"request_id", resp.RequestID,
			"total_quantity", sum.TotalQuantity,
			"total_price", sum.TotalPrice,
		)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) listCatalogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	products := a.Catalog.All()
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			PriceDisplay: money.Format(p.Price),
			Stock:        p.Stock,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (a *App) getCatalogItemHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	prefix := "/catalog/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	p, ok := a.Catalog.Get(id)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	v := productView{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: money.Format(p.Price),
		Stock:        p.Stock,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	processed, rejected, changes, pending := a.Controller.Metrics()
	sum := a.Controller.Summary()
	m := map[string]any{
		"actions_processed": processed,
		"actions_rejected":  rejected,
		"change_sequence":   changes,
		"actions_pending":   pending,
		"total_quantity":    sum.TotalQuantity,
		"total_price":       sum.TotalPrice,
		"catalog_size":      a.Catalog.Len(),
		"uptime_sec":        time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
