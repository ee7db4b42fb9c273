package generator

import "github.com/andresuchdata/stockplan/backend-go/internal/domain"

type categorySeed struct {
	name        string
	description string
	seasonality float64
}

var categorySeeds = []categorySeed{
	{"Accessories", "Various mobile and laptop accessories", 1.1},
	{"Audio", "Speakers, headphones, and audio devices", 1.2},
	{"Peripherals", "Keyboards, mice, and other computer peripherals", 1.0},
	{"Power", "Batteries, chargers, and power banks", 1.3},
	{"Printing", "Printers, toners, and printing accessories", 0.9},
}

var supplierLocations = []string{"Local", "Regional", "National", "International", "Overseas"}

var companyNames = []string{
	"Apex", "Brightline", "Cobalt", "Delta Ridge", "Evergreen", "Fulcrum", "Granite",
	"Harbor", "Ironwood", "Juniper", "Keystone", "Lumen", "Meridian", "Northwind", "Orion",
}

type template struct {
	prefix        string
	suffix        string
	priceMin      float64
	priceMax      float64
	popularityMin float64
	popularityMax float64
}

var defaultTemplate = template{priceMin: 10, priceMax: 200, popularityMin: 0.5, popularityMax: 1.5}

var productTemplates = map[string][]template{
	"Accessories": {
		{prefix: "Premium Phone Case for ", priceMin: 15, priceMax: 45, popularityMin: 0.8, popularityMax: 1.7},
		{prefix: "Protective Screen for ", priceMin: 8, priceMax: 25, popularityMin: 1.0, popularityMax: 1.5},
		{prefix: "Stylus Pen for ", suffix: " Tablets", priceMin: 10, priceMax: 40, popularityMin: 0.5, popularityMax: 1.2},
	},
	"Audio": {
		{prefix: "Wireless Earbuds ", priceMin: 40, priceMax: 150, popularityMin: 1.2, popularityMax: 2.0},
		{prefix: "Noise-Canceling Headphones ", priceMin: 80, priceMax: 300, popularityMin: 0.8, popularityMax: 1.6},
		{prefix: "Bluetooth Speaker ", priceMin: 30, priceMax: 200, popularityMin: 0.9, popularityMax: 1.8},
	},
}

var phoneModels = []string{
	"iPhone 13", "iPhone 14", "iPhone 15", "Galaxy S22", "Galaxy S23", "Google Pixel 7", "Xiaomi 13", "OnePlus 11",
}

var laptopBrands = []string{"MacBook", "Dell XPS", "HP Spectre", "Lenovo ThinkPad", "ASUS ZenBook", "Microsoft Surface"}

var peripheralKinds = []string{"Mechanical Keyboard", "Wireless Mouse", "USB-C Hub", "Laptop Stand", "Webcam"}

var productAdjectives = []string{"Compact", "Ergonomic", "Rugged", "Sleek", "Smart", "Ultra", "Pro", "Classic"}

var productMaterials = []string{"Aluminum", "Plastic", "Steel", "Carbon", "Rubber"}

var productNouns = map[string][]string{
	"Power":    {"Power Bank", "Wall Charger", "Battery Pack", "Charging Dock"},
	"Printing": {"Toner Cartridge", "Ink Set", "Photo Printer", "Label Printer"},
}

type weightedType struct {
	typ         domain.TransactionType
	probability float64
}

var transactionWeights = []weightedType{
	{domain.TransactionSale, 0.7},
	{domain.TransactionReturn, 0.1},
	{domain.TransactionAdjustment, 0.05},
	{domain.TransactionDamaged, 0.03},
	{domain.TransactionTransferIn, 0.06},
	{domain.TransactionTransferOut, 0.06},
}

var (
	returnNotes     = []string{"Customer dissatisfied", "Wrong size", "Defective product", "Changed mind", "Ordered wrong item"}
	adjustmentNotes = []string{"Inventory audit", "System reconciliation", "Found misplaced items", "Counting error"}
	damageNotes     = []string{"Shipping damage", "Storage damage", "Handling error", "Product defect", "Expired"}
	transferSites   = []string{"Warehouse A", "Warehouse B", "Warehouse C", "Store #102", "Distribution Center"}
)
