package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. Its string form sorts in
// chronological order, which the storage adapters rely on for range queries.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// clients sometimes send a full timestamp for a date field
		ts, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return "", fmt.Errorf("invalid date %q: %w", s, err)
		}
		t = ts
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) String() string { return string(d) }

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IDList is a set of catalog ids selected for an order. On the wire it is
// either a JSON array or, as the storefront client sends it, a string holding
// a JSON array. A string that does not parse is an empty selection.
type IDList []int

func (l *IDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		var ids []int
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			*l = nil
			return nil
		}
		*l = ids
		return nil
	}
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}

// Selection is the input to pricing: a kit plus optional add-on ids.
type Selection struct {
	KitID             int    `json:"kit_id"`
	SelectedFruits    IDList `json:"selected_fruits"`
	SelectedNutrients IDList `json:"selected_nutrients"`
}

type LineItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Breakdown struct {
	Kit       LineItem   `json:"kit"`
	Fruits    []LineItem `json:"fruits"`
	Nutrients []LineItem `json:"nutrients"`
}

type OrderCalculation struct {
	KitPrice       float64   `json:"kit_price"`
	FruitsTotal    float64   `json:"fruits_total"`
	NutrientsTotal float64   `json:"nutrients_total"`
	TotalAmount    float64   `json:"total_amount"`
	Breakdown      Breakdown `json:"breakdown"`
}
