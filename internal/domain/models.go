package domain

// Category is a product grouping. Products reference it by id with no
// integrity enforcement; a dangling reference renders as "Uncategorized".
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Category) RecordID() string { return c.ID }

type AdditionalImage struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

type Product struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	MainImage           string            `json:"main_image"`
	Images              []string          `json:"images,omitempty"`
	CertificationImages []string          `json:"certification_images,omitempty"`
	Wattage             string            `json:"wattage"`
	IPRating            string            `json:"ip_rating"`
	Warranty            string            `json:"warranty"`
	ColourTemp          string            `json:"colour_temp"`
	CategoryID          string            `json:"category_id"`
	ApplicationIDs      []string          `json:"application_ids"`
	AdditionalImages    []AdditionalImage `json:"additional_images,omitempty"`
	VideoLink           string            `json:"video_link,omitempty"`
	VideoType           string            `json:"video_type,omitempty"`
	PDFLink             string            `json:"PDF_link,omitempty"`
	Price               string            `json:"price,omitempty"`
	GTIN                string            `json:"gtin,omitempty"`
	Condition           string            `json:"condition,omitempty"`
	Availability        string            `json:"availability,omitempty"`

	// Optional technical sections, present ad hoc in the data files.
	TechnicalSpecs      *SpecSection `json:"technical_specs,omitempty"`
	ElectricalData      *SpecSection `json:"electrical_data,omitempty"`
	PhotometricData     *SpecSection `json:"photometric_data,omitempty"`
	Dimensions          *SpecSection `json:"dimensions,omitempty"`
	Features            *SpecSection `json:"features,omitempty"`
	Standards           *SpecSection `json:"standards,omitempty"`
	OperatingConditions *SpecSection `json:"operating_conditions,omitempty"`
}

func (p Product) RecordID() string { return p.ID }

type NamedSpecSection struct {
	Title   string
	Section *SpecSection
}

// SpecSections returns the technical sections present on the product,
// in a fixed display order.
func (p Product) SpecSections() []NamedSpecSection {
	all := []NamedSpecSection{
		{"Technical Specifications", p.TechnicalSpecs},
		{"Electrical Data", p.ElectricalData},
		{"Photometric Data", p.PhotometricData},
		{"Dimensions", p.Dimensions},
		{"Features", p.Features},
		{"Standards", p.Standards},
		{"Operating Conditions", p.OperatingConditions},
	}
	out := make([]NamedSpecSection, 0, len(all))
	for _, s := range all {
		if s.Section != nil {
			out = append(out, s)
		}
	}
	return out
}

type Application struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Subname             string   `json:"subname"`
	MainImage           string   `json:"main_image"`
	CertificationImages []string `json:"certification_images,omitempty"`
	Description         string   `json:"description"`
	ProductIDs          []string `json:"product_ids"`
	PDFLink             string   `json:"PDF_link,omitempty"`
}

func (a Application) RecordID() string { return a.ID }

// InquiryLineItem is one entry in a session's inquiry list.
// Quantity is always >= 1; an item decremented to zero is removed.
type InquiryLineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Settings is the admin-editable site configuration. The toggles are
// persisted but gate no behavior.
type Settings struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`
	ContactEmail    string `json:"contactEmail"`
	ContactPhone    string `json:"contactPhone"`
	EnableInquiries bool   `json:"enableInquiries"`
	EnableAnalytics bool   `json:"enableAnalytics"`
	AnalyticsID     string `json:"analyticsId"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}
