package service

import (
	"github.com/shopspring/decimal"

	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
)

func catalogItem(id, name string, price int64, category string) model.CatalogItem {
	return model.CatalogItem{
		ID:        id,
		Name:      name,
		UnitPrice: decimal.NewFromInt(price),
		Category:  category,
	}
}

// predefinedCatalog is the fixed-price menu offered for quick entry.
var predefinedCatalog = []model.CatalogItem{
	// South Indian
	catalogItem("idli", "Idli (2 pcs)", 40, "South Indian"),
	catalogItem("dosa-plain", "Plain Dosa", 50, "South Indian"),
	catalogItem("dosa-masala", "Masala Dosa", 70, "South Indian"),
	catalogItem("vada", "Medu Vada (2 pcs)", 45, "South Indian"),
	catalogItem("uttapam", "Uttapam", 65, "South Indian"),

	// North Indian
	catalogItem("chapati", "Chapati (2 pcs)", 30, "North Indian"),
	catalogItem("naan", "Butter Naan", 40, "North Indian"),
	catalogItem("paratha", "Aloo Paratha", 60, "North Indian"),
	catalogItem("kulcha", "Kulcha", 50, "North Indian"),

	// Rice & Biryani
	catalogItem("rice-plain", "Plain Rice", 50, "Rice & Biryani"),
	catalogItem("biryani-veg", "Veg Biryani", 150, "Rice & Biryani"),
	catalogItem("biryani-chicken", "Chicken Biryani", 200, "Rice & Biryani"),
	catalogItem("biryani-mutton", "Mutton Biryani", 250, "Rice & Biryani"),
	catalogItem("pulao", "Veg Pulao", 120, "Rice & Biryani"),

	// Curries
	catalogItem("dal-tadka", "Dal Tadka", 100, "Curries"),
	catalogItem("dal-makhani", "Dal Makhani", 130, "Curries"),
	catalogItem("paneer-butter-masala", "Paneer Butter Masala", 180, "Curries"),
	catalogItem("palak-paneer", "Palak Paneer", 170, "Curries"),
	catalogItem("chicken-curry", "Chicken Curry", 200, "Curries"),

	// Snacks
	catalogItem("samosa", "Samosa (2 pcs)", 30, "Snacks"),
	catalogItem("pakora", "Pakora (6 pcs)", 50, "Snacks"),
	catalogItem("pav-bhaji", "Pav Bhaji", 80, "Snacks"),
	catalogItem("chaat", "Chaat", 60, "Snacks"),

	// Beverages
	catalogItem("chai", "Masala Chai", 20, "Beverages"),
	catalogItem("lassi", "Lassi", 40, "Beverages"),
	catalogItem("coffee", "Filter Coffee", 30, "Beverages"),

	// Desserts
	catalogItem("gulab-jamun", "Gulab Jamun (2 pcs)", 50, "Desserts"),
	catalogItem("rasgulla", "Rasgulla (2 pcs)", 50, "Desserts"),
	catalogItem("kheer", "Kheer", 60, "Desserts"),
}

// PredefinedCatalog returns the quick-entry menu. The slice is copied so
// callers can't mutate the package-level catalog.
func PredefinedCatalog() []model.CatalogItem {
	out := make([]model.CatalogItem, len(predefinedCatalog))
	copy(out, predefinedCatalog)
	return out
}
