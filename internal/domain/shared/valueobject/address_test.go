package valueobject

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		line1       string
		city        string
		state       string
		zipCode     string
		opts        []AddressOption
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid address with required fields",
			line1:   "742 Evergreen Terrace",
			city:    "Springfield",
			state:   "IL",
			zipCode: "62704",
			wantErr: false,
		},
		{
			name:    "valid address with line2",
			line1:   "1200 Main St",
			city:    "Austin",
			state:   "TX",
			zipCode: "78701",
			opts:    []AddressOption{WithLine2("Apt 4B")},
			wantErr: false,
		},
		{
			name:    "valid address with zip+4",
			line1:   "350 Fifth Ave",
			city:    "New York",
			state:   "NY",
			zipCode: "10118-0110",
			wantErr: false,
		},
		{
			name:    "lowercase state is normalized",
			line1:   "88 Pine St",
			city:    "Seattle",
			state:   "wa",
			zipCode: "98101",
			wantErr: false,
		},
		{
			name:        "empty line1",
			line1:       "",
			city:        "Denver",
			state:       "CO",
			zipCode:     "80202",
			wantErr:     true,
			errContains: "line 1 cannot be empty",
		},
		{
			name:        "empty city",
			line1:       "500 Market St",
			city:        "",
			state:       "CA",
			zipCode:     "94105",
			wantErr:     true,
			errContains: "city cannot be empty",
		},
		{
			name:        "invalid state code",
			line1:       "500 Market St",
			city:        "San Francisco",
			state:       "Cal",
			zipCode:     "94105",
			wantErr:     true,
			errContains: "two-letter",
		},
		{
			name:        "invalid zip",
			line1:       "500 Market St",
			city:        "San Francisco",
			state:       "CA",
			zipCode:     "9410",
			wantErr:     true,
			errContains: "zip code",
		},
		{
			name:        "line1 too long",
			line1:       strings.Repeat("a", 201),
			city:        "Boston",
			state:       "MA",
			zipCode:     "02108",
			wantErr:     true,
			errContains: "exceed 200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.line1, tt.city, tt.state, tt.zipCode, tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.line1), addr.Line1())
			assert.Equal(t, tt.city, addr.City())
			assert.Equal(t, strings.ToUpper(tt.state), addr.State())
			assert.Equal(t, "US", addr.Country())
		})
	}
}

func TestAddressFormatting(t *testing.T) {
	addr := MustNewAddress("1200 Main St", "Austin", "TX", "78701", WithLine2("Apt 4B"))

	assert.Equal(t, "1200 Main St Apt 4B, Austin, TX 78701", addr.FullAddress())
	assert.Equal(t, "Austin, TX 78701", addr.CityStateZip())
	assert.Equal(t, addr.FullAddress(), addr.String())
}

func TestAddressEquality(t *testing.T) {
	a := MustNewAddress("742 Evergreen Terrace", "Springfield", "IL", "62704")
	b := MustNewAddress("742 Evergreen Terrace", "Springfield", "IL", "62704")
	c := MustNewAddress("744 Evergreen Terrace", "Springfield", "IL", "62704")

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.SameCity(c))
}

func TestAddressEmpty(t *testing.T) {
	assert.True(t, EmptyAddress().IsEmpty())
	assert.Equal(t, "", EmptyAddress().FullAddress())

	addr := MustNewAddress("88 Pine St", "Seattle", "WA", "98101")
	assert.False(t, addr.IsEmpty())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := MustNewAddress("350 Fifth Ave", "New York", "NY", "10118", WithLine2("Suite 3300"))

	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))
}

func TestAddressScan(t *testing.T) {
	addr := MustNewAddress("88 Pine St", "Seattle", "WA", "98101")

	v, err := addr.Value()
	require.NoError(t, err)

	var scanned Address
	require.NoError(t, scanned.Scan(v))
	assert.True(t, addr.Equals(scanned))

	var empty Address
	require.NoError(t, empty.Scan(nil))
	assert.True(t, empty.IsEmpty())

	assert.Error(t, scanned.Scan(42))
}
