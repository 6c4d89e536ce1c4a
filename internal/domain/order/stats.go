package order

import (
	"sort"

	"github.com/example/clothing-store/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// DefaultTopSellers is how many products the dashboard chart shows.
const DefaultTopSellers = 5

// ProductSales is one bar of the best-sellers chart.
type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Units     int    `json:"units"`
}

// Dashboard aggregates what the admin home page displays.
type Dashboard struct {
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalOrders   int             `json:"total_orders"`
	TotalProducts int             `json:"total_products"`
	ByStatus      map[Status]int  `json:"by_status"`
	TopSellers    []ProductSales  `json:"top_sellers"`
	LowStock      []string        `json:"low_stock"`
}

// Stats computes dashboard figures. Only products still in the catalog appear
// in TopSellers; sales of deleted products still count toward TotalSales.
func Stats(products catalog.Catalog, orders History, topN int) Dashboard {
	d := Dashboard{
		TotalSales:    decimal.Zero,
		TotalOrders:   len(orders),
		TotalProducts: len(products),
		ByStatus:      make(map[Status]int),
		TopSellers:    []ProductSales{},
		LowStock:      []string{},
	}

	for _, o := range orders {
		d.TotalSales = d.TotalSales.Add(o.Total)
		d.ByStatus[o.Status]++
	}

	for _, p := range products {
		units := 0
		for _, o := range orders {
			units += o.Quantity(p.ID)
		}
		d.TopSellers = append(d.TopSellers, ProductSales{ProductID: p.ID, Name: p.Name, Units: units})
		if p.LowStock() {
			d.LowStock = append(d.LowStock, p.ID)
		}
	}

	sort.SliceStable(d.TopSellers, func(i, j int) bool {
		return d.TopSellers[i].Units > d.TopSellers[j].Units
	})
	if topN > 0 && len(d.TopSellers) > topN {
		d.TopSellers = d.TopSellers[:topN]
	}
	return d
}
