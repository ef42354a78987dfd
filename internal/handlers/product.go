package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-inventory/httpx"
	"github.com/diewo77/go-inventory/internal/middleware"
	"github.com/diewo77/go-inventory/internal/models"
	"github.com/diewo77/go-inventory/internal/services"
	"github.com/diewo77/go-inventory/internal/uploads"
	"github.com/diewo77/go-inventory/validation"
)

type ProductHandler struct {
	inv     *services.InventoryService
	uploads *uploads.Store
}

func NewProductHandler(inv *services.InventoryService, store *uploads.Store) *ProductHandler {
	return &ProductHandler{inv: inv, uploads: store}
}

type productInput struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	SellPrice float64 `json:"sell_price"`
	BuyPrice  float64 `json:"buy_price"`
}

type productPatch struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	SellPrice *float64 `json:"sell_price"`
	BuyPrice  *float64 `json:"buy_price"`
}

var productFields = []string{"name", "category", "quantity", "sell_price", "buy_price"}

func formValues(r *http.Request, fields ...string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = r.FormValue(f)
	}
	return out
}

func requiredFloat(r *http.Request, field string, v validation.Violations) float64 {
	f, ok := validation.Float(field, r.FormValue(field), v)
	if _, bad := v[field]; !ok && !bad {
		v[field] = "required"
	}
	return f
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	products, err := h.inv.ListProducts(r.Context(), category)
	if err != nil {
		fail(w, r, err)
		return
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products), "category": category})
		return
	}
	categories, err := h.inv.Categories(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, "products.html", map[string]any{
		"Products":   products,
		"Categories": categories,
		"Category":   category,
		"Flash":      middleware.TakeFlash(w, r),
	})
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderNew(w, r, http.StatusOK, map[string]string{"quantity": "1"}, nil)
}

func (h *ProductHandler) renderNew(w http.ResponseWriter, r *http.Request, status int, form map[string]string, errs map[string]string) {
	categories, _ := h.inv.Categories(r.Context())
	render(w, r, status, "add_product.html", map[string]any{
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
	})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.NewStock
	v := validation.Violations{}
	var form map[string]string

	if isJSONBody(r) {
		var body productInput
		if err := decodeJSON(w, r, &body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		in = services.NewStock{Name: body.Name, Category: body.Category, Quantity: body.Quantity, SellPrice: body.SellPrice, BuyPrice: body.BuyPrice}
		validation.Required("name", in.Name, v)
	} else {
		if err := parseForm(r, uploads.MaxSize); err != nil {
			v["form"] = "invalid_form"
		}
		form = formValues(r, productFields...)
		in.Name = r.FormValue("name")
		in.Category = r.FormValue("category")
		validation.Required("name", in.Name, v)
		q, ok := validation.Int("quantity", r.FormValue("quantity"), v)
		if _, bad := v["quantity"]; !ok && !bad {
			v["quantity"] = "required"
		}
		in.Quantity = q
		in.SellPrice = requiredFloat(r, "sell_price", v)
		in.BuyPrice = requiredFloat(r, "buy_price", v)
	}
	validation.MaxLength("name", in.Name, 100, v)
	validation.NonNegativeInt("quantity", in.Quantity, v)
	validation.NonNegativeFloat("sell_price", in.SellPrice, v)
	validation.NonNegativeFloat("buy_price", in.BuyPrice, v)
	if !v.Empty() {
		h.createFailed(w, r, form, v)
		return
	}

	receipt, err := h.uploads.FromRequest(r, "sales_receipt")
	if err != nil {
		h.createFailed(w, r, form, validation.Violations{"sales_receipt": "upload_failed"})
		return
	}
	in.SalesReceipt = receipt

	p, err := h.inv.AddProduct(r.Context(), in)
	if err != nil {
		h.uploads.Remove(receipt)
		if errs := violationsFrom(err); errs != nil {
			h.createFailed(w, r, form, errs)
			return
		}
		fail(w, r, err)
		return
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusCreated, p)
		return
	}
	middleware.Flash(w, r, "product_saved")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *ProductHandler) createFailed(w http.ResponseWriter, r *http.Request, form map[string]string, errs map[string]string) {
	if !wantsHTML(r) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", errs)
		return
	}
	h.renderNew(w, r, http.StatusBadRequest, form, errs)
}

// Edit shows the edit form. Unknown products send the user back to the list.
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	var p *models.Product
	if err == nil {
		p, err = h.inv.GetProduct(r.Context(), id)
	}
	if err != nil {
		h.missing(w, r, err)
		return
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	render(w, r, http.StatusOK, "edit_product.html", map[string]any{
		"Product": p,
		"Form":    productForm(p),
	})
}

func productForm(p *models.Product) map[string]string {
	return map[string]string{
		"name":       p.Name,
		"category":   p.Category,
		"sell_price": strconv.FormatFloat(p.SellPrice, 'f', -1, 64),
		"buy_price":  strconv.FormatFloat(p.BuyPrice, 'f', -1, 64),
	}
}

// Update applies the submitted fields. A blank form field leaves the stored
// value alone; an explicit value, including 0, replaces it.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.missing(w, r, err)
		return
	}
	var upd services.ProductUpdate
	v := validation.Violations{}
	var form map[string]string

	if isJSONBody(r) {
		var body productPatch
		if err := decodeJSON(w, r, &body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		upd = services.ProductUpdate{Name: body.Name, Category: body.Category, SellPrice: body.SellPrice, BuyPrice: body.BuyPrice}
	} else {
		if err := parseForm(r, 1<<20); err != nil {
			v["form"] = "invalid_form"
		}
		form = formValues(r, "name", "category", "sell_price", "buy_price")
		if s := strings.TrimSpace(r.FormValue("name")); s != "" {
			upd.Name = &s
		}
		if s := strings.TrimSpace(r.FormValue("category")); s != "" {
			upd.Category = &s
		}
		if f, ok := validation.Float("sell_price", r.FormValue("sell_price"), v); ok {
			upd.SellPrice = &f
		}
		if f, ok := validation.Float("buy_price", r.FormValue("buy_price"), v); ok {
			upd.BuyPrice = &f
		}
	}
	if upd.SellPrice != nil {
		validation.NonNegativeFloat("sell_price", *upd.SellPrice, v)
	}
	if upd.BuyPrice != nil {
		validation.NonNegativeFloat("buy_price", *upd.BuyPrice, v)
	}
	if !v.Empty() {
		h.updateFailed(w, r, id, form, v)
		return
	}

	p, err := h.inv.UpdateProduct(r.Context(), id, upd)
	if err != nil {
		if errs := violationsFrom(err); errs != nil {
			h.updateFailed(w, r, id, form, errs)
			return
		}
		h.missing(w, r, err)
		return
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, p)
		return
	}
	middleware.Flash(w, r, "product_updated")
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

func (h *ProductHandler) updateFailed(w http.ResponseWriter, r *http.Request, id uint, form map[string]string, errs map[string]string) {
	if !wantsHTML(r) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", errs)
		return
	}
	p, err := h.inv.GetProduct(r.Context(), id)
	if err != nil {
		h.missing(w, r, err)
		return
	}
	render(w, r, http.StatusBadRequest, "edit_product.html", map[string]any{
		"Product": p,
		"Form":    form,
		"Errors":  errs,
	})
}

// Delete removes a product with its items. Deleting an unknown product is a no-op.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existed := false
	if id, err := pathID(r); err == nil {
		existed, err = h.inv.DeleteProduct(r.Context(), id)
		if err != nil {
			fail(w, r, err)
			return
		}
	}
	if !wantsHTML(r) {
		httpx.JSON(w, http.StatusOK, map[string]bool{"deleted": existed})
		return
	}
	if existed {
		middleware.Flash(w, r, "product_deleted")
	} else {
		middleware.Flash(w, r, "not_found")
	}
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// missing redirects HTML clients to the product list when the product is gone;
// other failures are reported as usual.
func (h *ProductHandler) missing(w http.ResponseWriter, r *http.Request, err error) {
	if services.IsNotFound(err) && wantsHTML(r) {
		middleware.Flash(w, r, "not_found")
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	fail(w, r, err)
}
