// Package declaration extracts import declaration hints (owner, valuation,
// transport, delivery and goods details) from shipping document text.
package declaration

// Transport modes. An empty mode means none could be determined.
const (
	ModeSea   = "SEA"
	ModeAir   = "AIR"
	ModePost  = "POST"
	ModeOther = "OTHER"
)

// Valuation element categories, in extraction order.
const (
	ValuationInvoiceTotal = "invoice_total"
	ValuationFreight      = "freight"
	ValuationInsurance    = "insurance"
	ValuationPacking      = "packing"
)

// Amount is a monetary value with its ISO currency code.
type Amount struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Extracted is the flat record filled by Preprocessor.Process. An empty string,
// nil slice or nil map means the value was not found.
type Extracted struct {
	// Owner details.
	OwnerName      string
	OwnerID        string
	OwnerReference string
	OwnerPhone     string
	OwnerFax       string
	OwnerEmail     string

	// Valuation.
	ValuationDate     string
	InvoiceTermType   string
	ValuationElements map[string]Amount

	ModeOfTransport string

	// Air.
	AirlineCode      string
	MasterAirWaybill string
	HouseAirWaybill  string

	// Sea.
	VesselName        string
	VesselID          string
	VoyageNumber      string
	ContainerNumber   string
	OceanBillOfLading string
	HouseBillOfLading string
	CargoType         string

	// Post and other modes.
	ParcelPostCardNumbers   []string
	DepartmentReceiptNumber string

	// Common transport fields.
	LoadingPort      string
	FirstArrivalPort string
	DischargePort    string
	FirstArrivalDate string
	GrossWeight      string
	GrossWeightUnit  string
	NumberOfPackages string
	MarksAndNumbers  string

	// Delivery address.
	DeliveryName     string
	DeliveryAddress  string
	DeliveryLocality string
	DeliveryState    string
	DeliveryPostcode string
	DeliveryCountry  string
	DeliveryPhone    string

	// Goods and tariff details.
	GoodsDescription        []string
	SupplierName            string
	SupplierID              string
	VendorID                string
	TariffClassification    string
	OriginCountry           string
	PreferenceOriginCountry string
	PriceAmount             string
	PriceCurrency           string
	Quantity                string
	QuantityUnit            string
	PermitNumbers           []string
}
