package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-inventory/httpx"
	"github.com/diewo77/go-inventory/internal/middleware"
	"github.com/diewo77/go-inventory/internal/models"
	"github.com/diewo77/go-inventory/internal/services"
	"github.com/diewo77/go-inventory/internal/uploads"
	"github.com/diewo77/go-inventory/validation"
)

const dateLayout = "2006-01-02"

// ItemHandler serves the per-product item ledger and stock reduction.
type ItemHandler struct {
	inv     *services.InventoryService
	uploads *uploads.Store
}

func NewItemHandler(inv *services.InventoryService, store *uploads.Store) *ItemHandler {
	return &ItemHandler{inv: inv, uploads: store}
}

type reduceInput struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status"`
}

func parseDate(field, raw string, v validation.Violations) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		v[field] = "invalid_date"
		return nil
	}
	return &t
}

func allStatuses() []models.ItemStatus {
	return append([]models.ItemStatus{models.ItemStatusAvailable}, models.KnownItemStatuses...)
}

// List shows the items of a product filtered by status and entry date range.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	q := r.URL.Query()
	v := validation.Violations{}
	filter := services.ItemFilter{
		Status: models.ItemStatus(strings.TrimSpace(q.Get("status"))),
		From:   parseDate("start_date", q.Get("start_date"), v),
		To:     parseDate("end_date", q.Get("end_date"), v),
	}
	if !v.Empty() && !wantsHTML(r) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	p, err := h.inv.GetProduct(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	var items []models.Item
	if v.Empty() {
		items, err = h.inv.ListItems(r.Context(), id, filter)
		if err != nil {
			fail(w, r, err)
			return
		}
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"product": p, "items": items})
		return
	}
	status := http.StatusOK
	if !v.Empty() {
		status = http.StatusBadRequest
	}
	render(w, r, status, "items.html", map[string]any{
		"Product":   p,
		"Items":     items,
		"Status":    string(filter.Status),
		"StartDate": q.Get("start_date"),
		"EndDate":   q.Get("end_date"),
		"Statuses":  allStatuses(),
		"Errors":    v,
		"Flash":     middleware.TakeFlash(w, r),
	})
}

func (h *ItemHandler) ReduceForm(w http.ResponseWriter, r *http.Request) {
	form := map[string]string{
		"product_id": r.URL.Query().Get("product_id"),
		"quantity":   "1",
		"status":     string(models.ItemStatusSold),
	}
	h.renderReduce(w, r, http.StatusOK, form, nil)
}

func (h *ItemHandler) renderReduce(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	products, err := h.inv.ListProducts(r.Context(), "")
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, status, "reduce_product.html", map[string]any{
		"Products": products,
		"Statuses": models.KnownItemStatuses,
		"Form":     form,
		"Errors":   errs,
	})
}

// Reduce moves available items of a product out of stock. The purchase receipt
// upload is only kept for sales.
func (h *ItemHandler) Reduce(w http.ResponseWriter, r *http.Request) {
	v := validation.Violations{}
	var req services.ReduceRequest
	var form map[string]string

	if isJSONBody(r) {
		var body reduceInput
		if err := decodeJSON(w, r, &body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		req = services.ReduceRequest{ProductID: body.ProductID, Quantity: body.Quantity, Status: models.ItemStatus(strings.TrimSpace(body.Status))}
	} else {
		if err := parseForm(r, uploads.MaxSize); err != nil {
			v["form"] = "invalid_form"
		}
		form = formValues(r, "product_id", "quantity", "status")
		if pid, _ := validation.Int("product_id", r.FormValue("product_id"), v); pid > 0 {
			req.ProductID = uint(pid)
		}
		qty, ok := validation.Int("quantity", r.FormValue("quantity"), v)
		if _, bad := v["quantity"]; !ok && !bad {
			v["quantity"] = "required"
		}
		req.Quantity = qty
		req.Status = models.ItemStatus(strings.TrimSpace(r.FormValue("status")))
	}
	if req.ProductID == 0 {
		if _, bad := v["product_id"]; !bad {
			v["product_id"] = "required"
		}
	}
	validation.Required("status", string(req.Status), v)
	validation.NonNegativeInt("quantity", req.Quantity, v)
	if !v.Empty() {
		h.reduceFailed(w, r, http.StatusBadRequest, form, v)
		return
	}

	if req.Status == models.ItemStatusSold {
		receipt, err := h.uploads.FromRequest(r, "purchase_receipt")
		if err != nil {
			h.reduceFailed(w, r, http.StatusBadRequest, form, map[string]string{"purchase_receipt": "upload_failed"})
			return
		}
		req.PurchaseReceipt = receipt
	}

	n, err := h.inv.ReduceItems(r.Context(), req)
	if err != nil {
		h.uploads.Remove(req.PurchaseReceipt)
		switch {
		case violationsFrom(err) != nil:
			h.reduceFailed(w, r, http.StatusBadRequest, form, violationsFrom(err))
		case services.IsNotFound(err):
			h.reduceFailed(w, r, http.StatusNotFound, form, map[string]string{"product_id": "not_found"})
		default:
			fail(w, r, err)
		}
		return
	}
	if n == 0 {
		// nothing was sold, so the receipt is not referenced by any item
		h.uploads.Remove(req.PurchaseReceipt)
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"product_id": req.ProductID, "reduced": n})
		return
	}
	if n > 0 {
		middleware.Flash(w, r, "items_reduced")
	} else {
		middleware.Flash(w, r, "nothing_reduced")
	}
	http.Redirect(w, r, "/products/"+strconv.FormatUint(uint64(req.ProductID), 10), http.StatusSeeOther)
}

func (h *ItemHandler) reduceFailed(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	if !wantsHTML(r) {
		code := "validation_failed"
		if status == http.StatusNotFound {
			code = "not_found"
		}
		httpx.JSONError(w, status, code, errs)
		return
	}
	h.renderReduce(w, r, status, form, errs)
}
