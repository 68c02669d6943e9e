package declaration

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultCurrency  = "USD"
	minCompanyLength = 3
	minGoodsLength   = 5
	minDateLength    = 6
)

// Preprocessor extracts declaration hints from document text. It is stateless and
// safe for concurrent use.
type Preprocessor struct {
	logger *zap.Logger
}

// NewPreprocessor creates a preprocessor. A nil logger disables logging.
func NewPreprocessor(logger *zap.Logger) *Preprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preprocessor{logger: logger}
}

// Process runs every extraction over text. Each extraction is total: values that
// cannot be found are left unset.
func (p *Preprocessor) Process(text string) *Extracted {
	e := &Extracted{}

	extractOwner(text, e)
	e.OwnerName = firstCompany(text, importerPattern)
	e.SupplierName = firstCompany(text, exporterPattern)
	if e.SupplierName == "" {
		e.SupplierName = firstCompany(text, supplierPattern)
	}

	e.ValuationElements = extractValuation(text)
	e.InvoiceTermType = extractIncoterm(text)

	invoiceDate := findDate(text, invoiceDatePattern)
	shippingDate := findDate(text, shippingDatePattern)
	arrivalDate := findDate(text, arrivalDatePattern)
	e.ValuationDate = firstNonEmpty(findDate(text, valuationDatePattern), invoiceDate)
	e.FirstArrivalDate = firstNonEmpty(arrivalDate, shippingDate)

	e.ModeOfTransport = detectMode(text)
	if e.ModeOfTransport != "" {
		extractTransport(text, e)
	}

	extractDeliveryAddress(text, e)

	e.GoodsDescription = extractGoods(text)
	e.OriginCountry = extractOrigin(text)
	e.Quantity, e.QuantityUnit = extractQuantity(text)

	p.logger.Debug("extracted declaration hints",
		zap.String("mode", e.ModeOfTransport),
		zap.String("incoterm", e.InvoiceTermType),
		zap.Int("valuation_elements", len(e.ValuationElements)),
		zap.Int("goods", len(e.GoodsDescription)))
	return e
}

// detectMode counts pattern hits per mode. The strictly highest non-zero score
// wins; a tie for the top score leaves the mode undetermined.
func detectMode(text string) string {
	best, bestScore, tied := "", 0, false
	for _, mp := range transportPatterns {
		score := 0
		for _, re := range mp.patterns {
			score += len(re.FindAllStringIndex(text, -1))
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = mp.mode, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return ""
	}
	return best
}

func extractOwner(text string, e *Extracted) {
	if m := abnPattern.FindStringSubmatch(text); m != nil {
		e.OwnerID = strings.Join(strings.Fields(m[1]), "")
	}
	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			number := strings.TrimSpace(m[1])
			if strings.Contains(strings.ToLower(m[0]), "fax") {
				e.OwnerFax = number
			} else {
				e.OwnerPhone = number
			}
		}
	}
	e.OwnerEmail = emailPattern.FindString(text)
}

func firstCompany(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if utf8.RuneCountInString(name) <= minCompanyLength {
		return ""
	}
	return name
}

func extractValuation(text string) map[string]Amount {
	var out map[string]Amount
	for _, vp := range valuationTable {
		for _, re := range vp.patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			currency := strings.ToUpper(m[1])
			if currency == "" {
				currency = defaultCurrency
			}
			if out == nil {
				out = make(map[string]Amount)
			}
			out[vp.category] = Amount{
				Amount:   strings.ReplaceAll(m[2], ",", ""),
				Currency: currency,
			}
			break
		}
	}
	return out
}

// longFormIncoterms maps spacing-free long forms to their codes. OCR often drops
// the spaces, so matches are compacted before the lookup.
var longFormIncoterms = map[string]string{
	"FREEONBOARD":             "FOB",
	"COSTINSURANCEANDFREIGHT": "CIF",
	"COSTANDFREIGHT":          "CFR",
}

// extractIncoterm returns the first Incoterm found, normalising the long forms
// of FOB, CIF and CFR to their codes.
func extractIncoterm(text string) string {
	for _, re := range incotermPatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		term := strings.ToUpper(m)
		if code, ok := longFormIncoterms[strings.Join(strings.Fields(term), "")]; ok {
			return code
		}
		return term
	}
	return ""
}

func findDate(text string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	candidate := strings.TrimSpace(m[1])
	if !looksLikeDate(candidate) {
		return ""
	}
	return candidate
}

// looksLikeDate accepts strings of at least six characters containing one of the
// supported date shapes.
func looksLikeDate(s string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(s)) < minDateLength {
		return false
	}
	for _, re := range dateShapes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func extractTransport(text string, e *Extracted) {
	for _, pp := range portTable {
		for _, re := range pp.patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				*pp.field(e) = strings.TrimSpace(m[1])
				break
			}
		}
	}

	switch e.ModeOfTransport {
	case ModeSea:
		// Every bill of lading pattern is tried; a later match overrides an
		// earlier one of the same kind.
		for _, re := range billOfLadingPatterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if strings.Contains(strings.ToLower(m[0]), "house") {
				e.HouseBillOfLading = m[1]
			} else {
				e.OceanBillOfLading = m[1]
			}
		}
		if m := firstSubmatch(text, containerPatterns); m != nil {
			e.ContainerNumber = m[1]
		}
		if m := vesselNamePattern.FindStringSubmatch(text); m != nil {
			e.VesselName = strings.TrimSpace(m[1])
		}
		if m := vesselIDPattern.FindStringSubmatch(text); m != nil {
			e.VesselID = m[1]
		}
		if m := voyagePattern.FindStringSubmatch(text); m != nil {
			e.VoyageNumber = m[1]
		}
	case ModeAir:
		for _, re := range airWaybillPatterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			lower := strings.ToLower(m[0])
			if strings.Contains(lower, "house") || strings.Contains(lower, "hawb") {
				e.HouseAirWaybill = m[1]
			} else {
				e.MasterAirWaybill = m[1]
			}
		}
	}

	if m := firstSubmatch(text, weightPatterns); m != nil {
		e.GrossWeight = m[1]
		e.GrossWeightUnit = strings.ToUpper(m[2])
	}
	if m := quantityPatterns[0].FindStringSubmatch(text); m != nil {
		e.NumberOfPackages = m[1]
	}
}

func extractQuantity(text string) (value, unit string) {
	if m := firstSubmatch(text, quantityPatterns); m != nil {
		return m[1], strings.ToUpper(m[2])
	}
	return "", ""
}

func extractGoods(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, re := range goodsPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			desc := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(desc) <= minGoodsLength || seen[desc] {
				continue
			}
			seen[desc] = true
			out = append(out, desc)
		}
	}
	return out
}

func firstSubmatch(text string, patterns []*regexp.Regexp) []string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
