package exporter

import "time"

// ColumnType describes how a column's cells are rendered.
type ColumnType string

const (
	TypeDate     ColumnType = "date"
	TypeText     ColumnType = "text"
	TypeNumber   ColumnType = "number"
	TypeCurrency ColumnType = "currency"
)

// Column describes one exportable field: its wire key, the German header
// label written to the document, and the cell rendering type.
type Column struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Type  ColumnType `json:"type"`
}

// Columns is the fixed export schema. The order is canonical: documents
// always emit columns in this order, regardless of how a caller orders a
// column subset.
var Columns = []Column{
	{Key: "datum", Label: "Datum", Type: TypeDate},
	{Key: "produktname", Label: "Produktname", Type: TypeText},
	{Key: "ean", Label: "EAN", Type: TypeText},
	{Key: "bestellnummer", Label: "Bestellnummer", Type: TypeText},
	{Key: "kategorie", Label: "Kategorie", Type: TypeText},
	{Key: "stueckzahlVerkauft", Label: "Stückzahl verkauft", Type: TypeNumber},
	{Key: "verkaufspreis", Label: "Verkaufspreis (€)", Type: TypeCurrency},
	{Key: "einkaufspreis", Label: "Einkaufspreis (€)", Type: TypeCurrency},
	{Key: "versandkosten", Label: "Versandkosten (€)", Type: TypeCurrency},
	{Key: "amazonGebuehren", Label: "Amazon Gebühren (€)", Type: TypeCurrency},
	{Key: "mwst", Label: "MwSt (19%) (€)", Type: TypeCurrency},
	{Key: "retouren", Label: "Retouren (€)", Type: TypeCurrency},
	{Key: "werbungskosten", Label: "Werbungskosten (€)", Type: TypeCurrency},
	{Key: "sonstigeKosten", Label: "Sonstige Kosten (€)", Type: TypeCurrency},
	{Key: "gewinn", Label: "Gewinn (€)", Type: TypeCurrency},
}

// NumericColumns lists the column keys that participate in summary totals.
var NumericColumns = []string{
	"verkaufspreis",
	"einkaufspreis",
	"versandkosten",
	"amazonGebuehren",
	"mwst",
	"retouren",
	"werbungskosten",
	"sonstigeKosten",
	"gewinn",
}

// Record is one invoice/sale line destined for one export row. Monetary
// fields carry amounts already rounded to two fraction digits.
type Record struct {
	ID              string    `json:"id"`
	Date            time.Time `json:"datum"`
	ProductName     string    `json:"produktname"`
	EAN             string    `json:"ean"`
	OrderNumber     string    `json:"bestellnummer"`
	Category        string    `json:"kategorie"`
	UnitsSold       int       `json:"stueckzahlVerkauft"`
	SalePrice       float64   `json:"verkaufspreis"`
	PurchasePrice   float64   `json:"einkaufspreis"`
	ShippingCost    float64   `json:"versandkosten"`
	MarketplaceFee  float64   `json:"amazonGebuehren"`
	VAT             float64   `json:"mwst"`
	Returns         float64   `json:"retouren"`
	AdvertisingCost float64   `json:"werbungskosten"`
	MiscCost        float64   `json:"sonstigeKosten"`
	Profit          float64   `json:"gewinn"`
}

// Value returns the field addressed by a column key. Unknown keys yield nil,
// which the formatter renders as an empty cell.
func (r Record) Value(key string) any {
	switch key {
	case "datum":
		return r.Date
	case "produktname":
		return r.ProductName
	case "ean":
		return r.EAN
	case "bestellnummer":
		return r.OrderNumber
	case "kategorie":
		return r.Category
	case "stueckzahlVerkauft":
		return r.UnitsSold
	case "verkaufspreis":
		return r.SalePrice
	case "einkaufspreis":
		return r.PurchasePrice
	case "versandkosten":
		return r.ShippingCost
	case "amazonGebuehren":
		return r.MarketplaceFee
	case "mwst":
		return r.VAT
	case "retouren":
		return r.Returns
	case "werbungskosten":
		return r.AdvertisingCost
	case "sonstigeKosten":
		return r.MiscCost
	case "gewinn":
		return r.Profit
	default:
		return nil
	}
}

// ActiveColumns resolves a caller-supplied column selection against the
// canonical schema. Membership is honored, the caller's order is not. A nil
// or empty selection means all columns.
func ActiveColumns(keys []string) []Column {
	if len(keys) == 0 {
		return Columns
	}
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	var cols []Column
	for _, col := range Columns {
		if wanted[col.Key] {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return Columns
	}
	return cols
}

// IsNumericColumn reports whether the key belongs to a summed column.
func IsNumericColumn(key string) bool {
	for _, k := range NumericColumns {
		if k == key {
			return true
		}
	}
	return false
}
