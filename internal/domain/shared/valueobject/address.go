package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Address is a value object representing a US mailing address.
// It is immutable - all operations return new Address instances.
type Address struct {
	line1   string
	line2   string
	city    string
	state   string
	zipCode string
	country string
}

// AddressOption is a functional option for configuring Address
type AddressOption func(*Address)

// WithLine2 sets the secondary address line (apartment, suite, floor)
func WithLine2(line2 string) AddressOption {
	return func(a *Address) {
		a.line2 = strings.TrimSpace(line2)
	}
}

// WithCountry sets the country for the address
func WithCountry(country string) AddressOption {
	return func(a *Address) {
		a.country = strings.TrimSpace(country)
	}
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// NewAddress creates a new Address with the required fields.
// Line1, city, state, and zip code are required; line2 is optional.
func NewAddress(line1, city, state, zipCode string, opts ...AddressOption) (Address, error) {
	line1 = strings.TrimSpace(line1)
	city = strings.TrimSpace(city)
	state = strings.ToUpper(strings.TrimSpace(state))
	zipCode = strings.TrimSpace(zipCode)

	if line1 == "" {
		return Address{}, fmt.Errorf("address line 1 cannot be empty")
	}
	if len(line1) > 200 {
		return Address{}, fmt.Errorf("address line 1 cannot exceed 200 characters")
	}
	if city == "" {
		return Address{}, fmt.Errorf("city cannot be empty")
	}
	if len(city) > 100 {
		return Address{}, fmt.Errorf("city cannot exceed 100 characters")
	}
	if len(state) != 2 {
		return Address{}, fmt.Errorf("state must be a two-letter code")
	}
	if zipCode != "" && !zipPattern.MatchString(zipCode) {
		return Address{}, fmt.Errorf("zip code must be 5 digits or ZIP+4")
	}

	addr := Address{
		line1:   line1,
		city:    city,
		state:   state,
		zipCode: zipCode,
		country: "US",
	}

	for _, opt := range opts {
		opt(&addr)
	}

	if len(addr.line2) > 200 {
		return Address{}, fmt.Errorf("address line 2 cannot exceed 200 characters")
	}
	if len(addr.country) > 100 {
		return Address{}, fmt.Errorf("country cannot exceed 100 characters")
	}

	return addr, nil
}

// MustNewAddress creates a new Address, panics on error
func MustNewAddress(line1, city, state, zipCode string, opts ...AddressOption) Address {
	addr, err := NewAddress(line1, city, state, zipCode, opts...)
	if err != nil {
		panic(err)
	}
	return addr
}

// EmptyAddress returns an empty address (for optional address fields)
func EmptyAddress() Address {
	return Address{}
}

// Line1 returns the primary street line
func (a Address) Line1() string {
	return a.line1
}

// Line2 returns the secondary line (unit, suite)
func (a Address) Line2() string {
	return a.line2
}

// City returns the city
func (a Address) City() string {
	return a.city
}

// State returns the two-letter state code
func (a Address) State() string {
	return a.state
}

// ZipCode returns the zip code
func (a Address) ZipCode() string {
	return a.zipCode
}

// Country returns the country
func (a Address) Country() string {
	return a.country
}

// IsEmpty returns true if the address is empty (all fields are blank)
func (a Address) IsEmpty() bool {
	return a.line1 == "" && a.city == "" && a.state == "" && a.zipCode == ""
}

// FullAddress returns the complete formatted address string.
// Format: Line1 Line2, City, ST ZIP
func (a Address) FullAddress() string {
	if a.IsEmpty() {
		return ""
	}

	street := a.line1
	if a.line2 != "" {
		street += " " + a.line2
	}

	parts := make([]string, 0, 3)
	if street != "" {
		parts = append(parts, street)
	}
	if a.city != "" {
		parts = append(parts, a.city)
	}
	tail := strings.TrimSpace(a.state + " " + a.zipCode)
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// CityStateZip returns the locality portion of the address
func (a Address) CityStateZip() string {
	if a.IsEmpty() {
		return ""
	}
	return strings.TrimSpace(a.city + ", " + strings.TrimSpace(a.state+" "+a.zipCode))
}

// String returns a string representation of the address
func (a Address) String() string {
	return a.FullAddress()
}

// Equals returns true if both addresses are equal
func (a Address) Equals(other Address) bool {
	return a.line1 == other.line1 &&
		a.line2 == other.line2 &&
		a.city == other.city &&
		a.state == other.state &&
		a.zipCode == other.zipCode &&
		a.country == other.country
}

// SameCity returns true if both addresses are in the same city and state
func (a Address) SameCity(other Address) bool {
	return a.state == other.state && strings.EqualFold(a.city, other.city)
}

// addressJSON is used for JSON marshaling/unmarshaling
type addressJSON struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(addressJSON{
		Line1:   a.line1,
		Line2:   a.line2,
		City:    a.city,
		State:   a.state,
		ZipCode: a.zipCode,
		Country: a.country,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Address) UnmarshalJSON(data []byte) error {
	var aj addressJSON
	if err := json.Unmarshal(data, &aj); err != nil {
		return err
	}
	a.line1 = aj.Line1
	a.line2 = aj.Line2
	a.city = aj.City
	a.state = aj.State
	a.zipCode = aj.ZipCode
	a.country = aj.Country
	return nil
}

// Value implements driver.Valuer for database storage (stored as JSON)
func (a Address) Value() (driver.Value, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for database retrieval
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}

	return json.Unmarshal(data, a)
}
