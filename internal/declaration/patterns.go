package declaration

import "regexp"

type modePatterns struct {
	mode     string
	patterns []*regexp.Regexp
}

// transportPatterns are scored in this order; see detectMode.
var transportPatterns = []modePatterns{
	{ModeSea, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(sea\s*freight|ocean\s*freight|vessel|ship|port\s*of\s*loading|port\s*of\s*discharge|by\s*sea|maritime)\b`),
		regexp.MustCompile(`(?i)\b(container|fcl|lcl|bill\s*of\s*lading|bl\s*no|b/l|ocean\s*freight|sea\s*cargo)\b`),
		regexp.MustCompile(`(?i)\b(vessel\s*name|voyage|container\s*number)\b`),
	}},
	{ModeAir, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(air\s*freight|airway\s*bill|awb|by\s*air|airport|flight|cargo\s*plane)\b`),
		regexp.MustCompile(`(?i)\b(air\s*transport|aviation|airline|master\s*air\s*waybill|house\s*air\s*waybill)\b`),
	}},
	{ModePost, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(postal|post\s*office|mail|parcel\s*post|registered\s*mail|parcel\s*card)\b`),
	}},
	{ModeOther, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(road\s*transport|truck|rail|train|courier|express|dhl|fedex|ups|land\s*transport)\b`),
	}},
}

var incotermPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(FOB|Free\s*on\s*Board)\b`),
	regexp.MustCompile(`(?i)\b(CIF|Cost\s*Insurance\s*and\s*Freight)\b`),
	regexp.MustCompile(`(?i)\b(CFR|Cost\s*and\s*Freight)\b`),
	regexp.MustCompile(`(?i)\b(EXW|Ex\s*Works)\b`),
	regexp.MustCompile(`(?i)\b(DDP|Delivered\s*Duty\s*Paid)\b`),
	regexp.MustCompile(`(?i)\b(DAP|Delivered\s*at\s*Place)\b`),
	regexp.MustCompile(`(?i)\b(FCA|Free\s*Carrier)\b`),
}

var (
	abnPattern   = regexp.MustCompile(`(?i)\b(?:ABN[:\s]*)?(\d{2}\s*\d{3}\s*\d{3}\s*\d{3})\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:phone|ph|tel|mobile|mob)[:\s]*([+]?[\d\s\(\)\-]{10,15})`),
		regexp.MustCompile(`(?i)(?:fax)[:\s]*([+]?[\d\s\(\)\-]{10,15})`),
	}
)

type portPatterns struct {
	field    func(*Extracted) *string
	patterns []*regexp.Regexp
}

var portTable = []portPatterns{
	{func(e *Extracted) *string { return &e.LoadingPort }, []*regexp.Regexp{
		regexp.MustCompile(`(?i)port\s*of\s*loading[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)loading\s*port[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)origin\s*port[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)departure\s*port[:\s]*([^\n\r,;]+)`),
	}},
	{func(e *Extracted) *string { return &e.DischargePort }, []*regexp.Regexp{
		regexp.MustCompile(`(?i)port\s*of\s*discharge[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)discharge\s*port[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)destination\s*port[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)arrival\s*port[:\s]*([^\n\r,;]+)`),
	}},
	{func(e *Extracted) *string { return &e.FirstArrivalPort }, []*regexp.Regexp{
		regexp.MustCompile(`(?i)first\s*arrival\s*port[:\s]*([^\n\r,;]+)`),
		regexp.MustCompile(`(?i)first\s*port\s*of\s*call[:\s]*([^\n\r,;]+)`),
	}},
}

var (
	billOfLadingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:ocean\s*)?bill\s*of\s*lading\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)(?:house\s*)?b/?l\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)ocean\s*bl[:\s#]*([A-Za-z0-9\-\/]+)`),
	}
	airWaybillPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:master\s*)?air\s*way\s*bill\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)(?:house\s*)?awb\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)mawb[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)hawb[:\s#]*([A-Za-z0-9\-\/]+)`),
	}
	containerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)container\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
		regexp.MustCompile(`(?i)cntr\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`),
	}
	vesselNamePattern = regexp.MustCompile(`(?i)vessel\s*name[:\s]*([^\n\r,;]+)`)
	vesselIDPattern   = regexp.MustCompile(`(?i)vessel\s*id[:\s]*([A-Za-z0-9\-\/]+)`)
	voyagePattern     = regexp.MustCompile(`(?i)voyage\s*(?:no|number)?[:\s#]*([A-Za-z0-9\-\/]+)`)
)

var (
	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)gross\s*weight[:\s]*(\d+(?:\.\d+)?)\s*(kg|kgs|kilogram|pound|lb|ton|tonnes?)`),
		regexp.MustCompile(`(?i)weight[:\s]*(\d+(?:\.\d+)?)\s*(kg|kgs|kilogram|pound|lb|ton|tonnes?)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|kgs|kilogram|pound|lb|ton|tonnes?)`),
	}
	quantityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)quantity[:\s]*(\d+(?:\.\d+)?)\s*(pcs?|pieces?|units?|cartons?|boxes?|cases?)`),
		regexp.MustCompile(`(?i)qty[:\s]*(\d+(?:\.\d+)?)\s*(pcs?|pieces?|units?|cartons?|boxes?|cases?)`),
		regexp.MustCompile(`(?i)(\d+)\s*(pcs?|pieces?|units?|cartons?|boxes?|cases?)`),
	}
)

type valuationPatterns struct {
	category string
	patterns []*regexp.Regexp
}

var valuationTable = []valuationPatterns{
	{ValuationInvoiceTotal, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:invoice\s*)?total[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)amount[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	}},
	{ValuationFreight, []*regexp.Regexp{
		regexp.MustCompile(`(?i)freight[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
		regexp.MustCompile(`(?i)shipping[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	}},
	{ValuationInsurance, []*regexp.Regexp{
		regexp.MustCompile(`(?i)insurance[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	}},
	{ValuationPacking, []*regexp.Regexp{
		regexp.MustCompile(`(?i)packing[:\s]*([A-Z]{3})?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	}},
}

var (
	dateShapes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
		regexp.MustCompile(`(?i)\b(\d{2,4}[/-]\d{1,2}[/-]\d{1,2})\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{2,4})\b`),
		regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{2,4})\b`),
	}
	invoiceDatePattern   = regexp.MustCompile(`(?i)invoice\s*date[:\s]*([^\n\r]+)`)
	shippingDatePattern  = regexp.MustCompile(`(?i)(?:ship|dispatch|departure)\s*date[:\s]*([^\n\r]+)`)
	arrivalDatePattern   = regexp.MustCompile(`(?i)(?:arrival|eta|delivery)\s*date[:\s]*([^\n\r]+)`)
	valuationDatePattern = regexp.MustCompile(`(?i)valuation\s*date[:\s]*([^\n\r]+)`)
)

var (
	importerPattern = regexp.MustCompile(`(?i)(?:importer|consignee|buyer|purchaser)[:\s]*([^\n\r]+)`)
	exporterPattern = regexp.MustCompile(`(?i)(?:exporter|shipper|consignor|seller)[:\s]*([^\n\r]+)`)
	supplierPattern = regexp.MustCompile(`(?i)(?:supplier|vendor)[:\s]*([^\n\r]+)`)
)

var (
	addressLabel  = regexp.MustCompile(`(?i)address[:\s]*([^\n\r]+)`)
	deliveryLabel = regexp.MustCompile(`(?i)(?:delivery|ship\s*to|consignee|deliver\s*to)[:\s]*([^\n\r]+)`)
	postcode      = regexp.MustCompile(`\b(\d{4})\b`)
	stateCode     = regexp.MustCompile(`(?i)\b(NSW|VIC|QLD|WA|SA|TAS|NT|ACT)\b`)
)

var (
	goodsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:goods?\s*description|description\s*of\s*goods?|commodity)[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)product[:\s]*([^\n\r]+)`),
		regexp.MustCompile(`(?i)item[:\s]*([^\n\r]+)`),
	}
	originLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:country\s*of\s*origin|origin)[:\s]*`),
		regexp.MustCompile(`(?i)made\s*in[:\s]*`),
	}
)
