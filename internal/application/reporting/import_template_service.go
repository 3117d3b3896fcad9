package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Import template columns. Column order is part of the download contract;
// bulk-import tooling outside this repo matches on it.
var (
	propertyTemplateHeader = []string{
		"name", "type", "address_line1", "address_line2", "city", "state",
		"zip_code", "country", "year_built", "notes",
	}
	propertyTemplateExample = []string{
		"Maple Court", "multi_family", "412 Maple Ave", "", "Springfield",
		"IL", "62704", "US", "1998", "",
	}

	tenantTemplateHeader = []string{
		"first_name", "last_name", "email", "phone",
		"emergency_contact_name", "emergency_contact_phone",
		"emergency_contact_relation", "notes",
	}
	tenantTemplateExample = []string{
		"Dana", "Whitfield", "dana.whitfield@example.com", "+1-555-0142",
		"Rob Whitfield", "+1-555-0143", "spouse", "",
	}
)

// ImportTemplateService generates downloadable CSV templates for bulk
// import. Generation only; parsing uploaded files happens elsewhere.
type ImportTemplateService struct{}

// NewImportTemplateService creates a new ImportTemplateService
func NewImportTemplateService() *ImportTemplateService {
	return &ImportTemplateService{}
}

// PropertiesTemplate returns the property import template
func (s *ImportTemplateService) PropertiesTemplate() ([]byte, error) {
	return renderTemplate(propertyTemplateHeader, propertyTemplateExample)
}

// TenantsTemplate returns the tenant import template
func (s *ImportTemplateService) TenantsTemplate() ([]byte, error) {
	return renderTemplate(tenantTemplateHeader, tenantTemplateExample)
}

func renderTemplate(header, example []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write template header: %w", err)
	}
	if err := w.Write(example); err != nil {
		return nil, fmt.Errorf("write template example row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush template: %w", err)
	}
	return buf.Bytes(), nil
}
