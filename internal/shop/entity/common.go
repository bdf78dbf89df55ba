package entity

import (
	"database/sql/driver"
	"encoding/json"
)

// DefaultCurrency is applied wherever a money field is persisted without one.
const DefaultCurrency = "EUR"

// JSONB stores open-ended key/value data in a jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringList stores a list of ids in a jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Money is an embedded amount + currency pair.
type Money struct {
	Amount   float64 `json:"amount" gorm:"type:numeric(15,4);not null;default:0"`
	Currency string  `json:"currency" gorm:"size:8;not null;default:EUR"`
}

// LocalizedText holds the three shop languages. Name fields are required in
// all three; descriptions may be empty.
type LocalizedText struct {
	TR string `json:"tr" gorm:"size:256"`
	DE string `json:"de" gorm:"size:256"`
	EN string `json:"en" gorm:"size:256"`
}

// In returns the text for a language code, falling back to English.
func (t LocalizedText) In(lang string) string {
	switch lang {
	case "tr":
		return t.TR
	case "de":
		return t.DE
	default:
		return t.EN
	}
}

// UserRef is a denormalized snapshot of the acting user.
type UserRef struct {
	ID    string `json:"id" gorm:"size:32"`
	Email string `json:"email" gorm:"size:128"`
	Name  string `json:"name" gorm:"size:128"`
}

// RecomputeMargin derives margin percent from cost and price. When cost is
// zero or negative the previous margin is kept (no division by zero, no
// recomputation).
func RecomputeMargin(cost, price, current float64) float64 {
	if cost > 0 {
		return (price - cost) / cost * 100
	}
	return current
}
