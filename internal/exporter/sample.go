package exporter

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

var sampleCategories = []string{"Elektronik", "Bücher", "Kleidung", "Haushalt", "Sport"}

var sampleProducts = []string{
	"iPhone 15 Pro", "Samsung Galaxy S24", "MacBook Air", "Dell XPS 13",
	"Nike Air Max", "Adidas Ultraboost", "Levi's Jeans", "H&M T-Shirt",
	"Kaffeemaschine", "Staubsauger", "Mikrowelle", "Toaster",
}

// SampleRecords generates n plausible invoice rows spread over the last 90
// days. Used for the sample endpoint and as demo fallback when the store is
// empty.
func SampleRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		salePrice := rand.Float64()*500 + 50
		purchasePrice := salePrice * (0.6 + rand.Float64()*0.2)
		shipping := rand.Float64()*10 + 2
		fee := salePrice * 0.15
		vat := salePrice * 0.19
		returns := rand.Float64() * 20
		advertising := rand.Float64() * 15
		misc := rand.Float64() * 5
		profit := salePrice - purchasePrice - shipping - fee - returns - advertising - misc

		records[i] = Record{
			ID:              fmt.Sprintf("inv_%d", i+1),
			Date:            time.Now().Add(-time.Duration(rand.Intn(90*24)) * time.Hour),
			ProductName:     sampleProducts[rand.Intn(len(sampleProducts))],
			EAN:             fmt.Sprintf("%d", rand.Int63n(9_000_000_000_000)+1_000_000_000_000),
			OrderNumber:     fmt.Sprintf("ORD-%d", rand.Intn(900_000)+100_000),
			Category:        sampleCategories[rand.Intn(len(sampleCategories))],
			UnitsSold:       rand.Intn(10) + 1,
			SalePrice:       round2(salePrice),
			PurchasePrice:   round2(purchasePrice),
			ShippingCost:    round2(shipping),
			MarketplaceFee:  round2(fee),
			VAT:             round2(vat),
			Returns:         round2(returns),
			AdvertisingCost: round2(advertising),
			MiscCost:        round2(misc),
			Profit:          round2(profit),
		}
	}
	return records
}

// round2 rounds a monetary amount to two fraction digits.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
