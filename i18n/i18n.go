// Package i18n holds the UI message tables and Accept-Language matching.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Default is used when nothing better matches.
const Default = "en"

// Supported lists the language codes with a message table, in matcher order.
var Supported = []string{"en", "id"}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Indonesian})

var messages = map[string]map[string]string{
	"en": {
		"app_title":            "Inventory",
		"welcome":              "Track products and every unit of stock from entry to exit.",
		"login":                "Log in",
		"logout":               "Log out",
		"username":             "Username",
		"password":             "Password",
		"role":                 "Role",
		"invalid_credentials":  "Invalid username or password",
		"products":             "Products",
		"add_product":          "Add stock",
		"edit_product":         "Edit product",
		"reduce_stock":         "Reduce stock",
		"report":               "Report",
		"report_pdf":           "PDF",
		"report_csv":           "CSV",
		"report_xlsx":          "Excel",
		"name":                 "Name",
		"category":             "Category",
		"all_categories":       "All categories",
		"sell_price":           "Sell price",
		"buy_price":            "Buy price",
		"quantity":             "Quantity",
		"stock":                "In stock",
		"status":               "Status",
		"all_statuses":         "All statuses",
		"entry_date":           "Entry date",
		"exit_date":            "Exit date",
		"start_date":           "From",
		"end_date":             "To",
		"sales_receipt":        "Sales receipt",
		"purchase_receipt":     "Purchase receipt",
		"product":              "Product",
		"items":                "Items",
		"actions":              "Actions",
		"filter":               "Filter",
		"save":                 "Save",
		"cancel":               "Cancel",
		"edit":                 "Edit",
		"delete":               "Delete",
		"view":                 "View",
		"confirm_delete":       "Delete this product and all of its items?",
		"no_products":          "No products yet.",
		"no_items":             "No items match.",
		"product_saved":        "Stock added",
		"product_updated":      "Product updated",
		"product_deleted":      "Product deleted",
		"items_reduced":        "Stock reduced",
		"nothing_reduced":      "No available items to reduce",
		"required":             "Required",
		"too_long":             "Too long",
		"too_large":            "Too large",
		"invalid_number":       "Not a number",
		"must_be_non_negative": "Must be zero or more",
		"must_leave_available": "Choose a status other than available",
		"not_found":            "Not found",
		"upload_failed":        "Upload failed",
		"invalid_date":         "Invalid date",
		"invalid_form":         "Invalid form",
		"product_id":           "Product",
		"form":                 "Form",
		"available":            "Available",
		"sold":                 "Sold",
		"damaged":              "Damaged",
		"returned":             "Returned",
		"lost":                 "Lost",
	},
	"id": {
		"app_title":            "Inventaris",
		"welcome":              "Lacak produk dan setiap unit stok dari masuk hingga keluar.",
		"login":                "Masuk",
		"logout":               "Keluar",
		"username":             "Nama pengguna",
		"password":             "Kata sandi",
		"role":                 "Peran",
		"invalid_credentials":  "Nama pengguna atau kata sandi salah",
		"products":             "Produk",
		"add_product":          "Tambah stok",
		"edit_product":         "Ubah produk",
		"reduce_stock":         "Kurangi stok",
		"report":               "Laporan",
		"report_pdf":           "PDF",
		"report_csv":           "CSV",
		"report_xlsx":          "Excel",
		"name":                 "Nama",
		"category":             "Kategori",
		"all_categories":       "Semua kategori",
		"sell_price":           "Harga jual",
		"buy_price":            "Harga beli",
		"quantity":             "Jumlah",
		"stock":                "Stok",
		"status":               "Status",
		"all_statuses":         "Semua status",
		"entry_date":           "Tanggal masuk",
		"exit_date":            "Tanggal keluar",
		"start_date":           "Dari",
		"end_date":             "Sampai",
		"sales_receipt":        "Nota penjualan",
		"purchase_receipt":     "Nota pembelian",
		"product":              "Produk",
		"items":                "Barang",
		"actions":              "Aksi",
		"filter":               "Saring",
		"save":                 "Simpan",
		"cancel":               "Batal",
		"edit":                 "Ubah",
		"delete":               "Hapus",
		"view":                 "Lihat",
		"confirm_delete":       "Hapus produk ini beserta semua barangnya?",
		"no_products":          "Belum ada produk.",
		"no_items":             "Tidak ada barang yang cocok.",
		"product_saved":        "Stok ditambahkan",
		"product_updated":      "Produk diperbarui",
		"product_deleted":      "Produk dihapus",
		"items_reduced":        "Stok dikurangi",
		"nothing_reduced":      "Tidak ada barang tersedia untuk dikurangi",
		"required":             "Wajib diisi",
		"too_long":             "Terlalu panjang",
		"too_large":            "Terlalu besar",
		"invalid_number":       "Bukan angka",
		"must_be_non_negative": "Harus nol atau lebih",
		"must_leave_available": "Pilih status selain tersedia",
		"not_found":            "Tidak ditemukan",
		"upload_failed":        "Unggah gagal",
		"invalid_date":         "Tanggal tidak valid",
		"invalid_form":         "Formulir tidak valid",
		"product_id":           "Produk",
		"form":                 "Formulir",
		"available":            "Tersedia",
		"sold":                 "Terjual",
		"damaged":              "Rusak",
		"returned":             "Dikembalikan",
		"lost":                 "Hilang",
	},
}

// T translates code for lang, falling back to the default language and then to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

// IsSupported reports whether lang has a message table.
func IsSupported(lang string) bool {
	_, ok := messages[lang]
	return ok
}

// DetectLanguage picks the best supported language for an Accept-Language header.
func DetectLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}
