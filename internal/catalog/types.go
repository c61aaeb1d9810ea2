package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ExternalID is an identifier assigned by the remote catalog. The remote sends
// ids as JSON numbers or strings; both decode to the same string form.
// The empty value means the id is absent.
type ExternalID string

// UnmarshalJSON accepts a JSON number, string or null
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ExternalID(s)
	return nil
}

// IsZero reports whether the id is absent
func (id ExternalID) IsZero() bool {
	return id == ""
}

// String returns the id as sent to the remote
func (id ExternalID) String() string {
	return string(id)
}

// Text is a scalar the remote may send as string, number or boolean
type Text string

// UnmarshalJSON accepts a JSON string, number, boolean or null
func (t *Text) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return fmt.Errorf("invalid text %s: %w", data, err)
	}
	*t = Text(s)
	return nil
}

// Timestamp is a Unix time in seconds sent as a number or numeric string
type Timestamp struct {
	Seconds int64
	Valid   bool
}

// UnmarshalJSON accepts a JSON number, numeric string, empty string or null
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	seconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		seconds = int64(f)
	}
	*ts = Timestamp{Seconds: seconds, Valid: true}
	return nil
}

func flexString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case '{', '[':
		return "", fmt.Errorf("expected scalar")
	default:
		// numbers and booleans keep their literal form
		return string(data), nil
	}
}

// CityRecord is one entry of city/index
type CityRecord struct {
	ID    ExternalID `json:"id"`
	Name  string     `json:"name"`
	Slug  string     `json:"slug"`
	Title string     `json:"title"`
}

// BrandRecord is one entry of brand/index
type BrandRecord struct {
	ID   ExternalID `json:"id"`
	Name string     `json:"name"`
	Slug string     `json:"slug"`
}

// ModelRecord is one entry of brand/models
type ModelRecord struct {
	ID   ExternalID `json:"id"`
	Name string     `json:"name"`
}

// FeatureRecord is one key feature listed on a variant
type FeatureRecord struct {
	Name      string `json:"name"`
	Value     Text   `json:"value"`
	Unit      Text   `json:"unit"`
	GroupName string `json:"groupName"`
}

// VariantRecord is one entry of model/variants
type VariantRecord struct {
	ID                ExternalID      `json:"id"`
	Name              string          `json:"variant"`
	Slug              string          `json:"variantSlug"`
	VehicleType       string          `json:"vehicleType"`
	FuelType          string          `json:"fuelType"`
	BodyType          string          `json:"bodyType"`
	LaunchedTimestamp Timestamp       `json:"launchedTimestamp"`
	KeyFeatures       []FeatureRecord `json:"keyFeatures"`
}

// OverviewRecord is the payload of model/overview for one variant
type OverviewRecord struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`

	// Raw is the complete payload as received
	Raw json.RawMessage `json:"-"`
}
