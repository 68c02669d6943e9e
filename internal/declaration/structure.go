package declaration

import "reflect"

// defaultDeliveryCountry is used when no delivery country was extracted.
const defaultDeliveryCountry = "AUSTRALIA"

// ToStructure nests e into the three declaration sections. Unset values are nil.
// The air block is present only for air transport and the sea block only for sea.
func ToStructure(e *Extracted) map[string]any {
	var air, sea any
	if e.ModeOfTransport == ModeAir {
		air = map[string]any{
			"airline_code":       opt(e.AirlineCode),
			"master_air_waybill": opt(e.MasterAirWaybill),
			"house_air_waybill":  opt(e.HouseAirWaybill),
		}
	}
	if e.ModeOfTransport == ModeSea {
		sea = map[string]any{
			"vessel_name":          opt(e.VesselName),
			"vessel_id":            opt(e.VesselID),
			"voyage_number":        opt(e.VoyageNumber),
			"container_number":     opt(e.ContainerNumber),
			"ocean_bill_of_lading": opt(e.OceanBillOfLading),
			"house_bill_of_lading": opt(e.HouseBillOfLading),
			"cargo_type":           opt(e.CargoType),
		}
	}
	country := e.DeliveryCountry
	if country == "" {
		country = defaultDeliveryCountry
	}

	return map[string]any{
		"section_a_owner_details": map[string]any{
			"owner_name":      opt(e.OwnerName),
			"owner_id":        opt(e.OwnerID),
			"owner_reference": opt(e.OwnerReference),
			"contact_details": map[string]any{
				"phone": opt(e.OwnerPhone),
				"fax":   opt(e.OwnerFax),
				"email": opt(e.OwnerEmail),
			},
			"valuation_date":     opt(e.ValuationDate),
			"invoice_term_type":  opt(e.InvoiceTermType),
			"valuation_elements": valuationElements(e.ValuationElements),
		},
		"section_b_transport_details": map[string]any{
			"mode_of_transport": opt(e.ModeOfTransport),
			"air_transport":     air,
			"sea_transport":     sea,
			"common_fields": map[string]any{
				"loading_port":       opt(e.LoadingPort),
				"first_arrival_port": opt(e.FirstArrivalPort),
				"discharge_port":     opt(e.DischargePort),
				"first_arrival_date": opt(e.FirstArrivalDate),
				"gross_weight":       opt(e.GrossWeight),
				"gross_weight_unit":  opt(e.GrossWeightUnit),
				"number_of_packages": opt(e.NumberOfPackages),
				"marks_and_numbers":  opt(e.MarksAndNumbers),
			},
			"delivery_address": map[string]any{
				"name":     opt(e.DeliveryName),
				"address":  opt(e.DeliveryAddress),
				"locality": opt(e.DeliveryLocality),
				"state":    opt(e.DeliveryState),
				"postcode": opt(e.DeliveryPostcode),
				"country":  country,
				"phone":    opt(e.DeliveryPhone),
			},
		},
		"section_c_tariff_details": map[string]any{
			"goods_description":         list(e.GoodsDescription),
			"supplier_name":             opt(e.SupplierName),
			"supplier_id":               opt(e.SupplierID),
			"vendor_id":                 opt(e.VendorID),
			"tariff_classification":     opt(e.TariffClassification),
			"origin_country":            opt(e.OriginCountry),
			"preference_origin_country": opt(e.PreferenceOriginCountry),
			"price": map[string]any{
				"amount":   opt(e.PriceAmount),
				"currency": opt(e.PriceCurrency),
			},
			"quantity": map[string]any{
				"value": opt(e.Quantity),
				"unit":  opt(e.QuantityUnit),
			},
			"permit_numbers": list(e.PermitNumbers),
		},
	}
}

func opt(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func list(values []string) any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func valuationElements(elems map[string]Amount) any {
	if elems == nil {
		return nil
	}
	out := make(map[string]any, len(elems))
	for k, a := range elems {
		out[k] = map[string]any{"amount": a.Amount, "currency": a.Currency}
	}
	return out
}

// Prune recursively removes nil values, empty strings, empty maps and empty
// slices. Maps and slices are pruned element-wise before their own emptiness
// is judged, so a map holding only empty values disappears entirely from its
// parent.
func Prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if pv, ok := prune(val); ok {
				out[k] = pv
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if pv, ok := prune(val); ok {
				out = append(out, pv)
			}
		}
		return out
	}
	return v
}

// prune returns the pruned value and whether it should be kept.
func prune(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any, []any:
		pv := Prune(t)
		return pv, !isEmpty(pv)
	case string:
		return t, t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice:
		return v, !rv.IsNil() && rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return v, !rv.IsNil()
	}
	return v, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

// Hints extracts, structures and prunes declaration data from text.
func (p *Preprocessor) Hints(text string) map[string]any {
	pruned, _ := Prune(ToStructure(p.Process(text))).(map[string]any)
	return pruned
}
