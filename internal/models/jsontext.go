package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Structured recipe and ad fields are stored as JSON text so any relational
// store can hold them. Reads never fail on malformed content: a value that
// does not parse comes back as an empty list.

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
}

// IngredientList is an ordered ingredient sequence persisted as JSON text.
type IngredientList []Ingredient

// StringList is an ordered list of strings persisted as JSON text.
type StringList []string

// InstructionList holds recipe steps. Stored entries may be plain strings or
// {step, text} objects; both read back as step text.
type InstructionList []string

// Dimension is a pixel size accepted by an ad space.
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DimensionList is a set of accepted ad sizes persisted as JSON text.
type DimensionList []Dimension

func textBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []byte:
		return v, len(v) > 0
	case string:
		return []byte(v), v != ""
	default:
		return []byte(fmt.Sprint(v)), true
	}
}

func marshalText(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Value implements driver.Valuer.
func (l IngredientList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalText([]Ingredient(l))
}

// Scan implements sql.Scanner.
func (l *IngredientList) Scan(value interface{}) error {
	*l = ParseIngredients(value)
	return nil
}

// ParseIngredients decodes stored ingredient text, degrading to an empty list.
func ParseIngredients(value interface{}) IngredientList {
	b, ok := textBytes(value)
	if !ok {
		return IngredientList{}
	}
	var out []Ingredient
	if err := json.Unmarshal(b, &out); err != nil {
		return IngredientList{}
	}
	return IngredientList(out)
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalText([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	*l = ParseStringList(value)
	return nil
}

// ParseStringList decodes a stored JSON string array, degrading to an empty list.
func ParseStringList(value interface{}) StringList {
	b, ok := textBytes(value)
	if !ok {
		return StringList{}
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return StringList{}
	}
	return StringList(out)
}

// Contains reports whether v is in the list.
func (l StringList) Contains(v string) bool {
	for _, item := range l {
		if item == v {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (l InstructionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalText([]string(l))
}

// Scan implements sql.Scanner.
func (l *InstructionList) Scan(value interface{}) error {
	*l = ParseInstructions(value)
	return nil
}

// ParseInstructions decodes stored steps. Object entries contribute their
// "text" field.
func ParseInstructions(value interface{}) InstructionList {
	b, ok := textBytes(value)
	if !ok {
		return InstructionList{}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return InstructionList{}
	}
	out := make(InstructionList, 0, len(raw))
	for _, item := range raw {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			out = append(out, text)
			continue
		}
		var step struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(item, &step); err == nil {
			out = append(out, step.Text)
			continue
		}
		out = append(out, "")
	}
	return out
}

// Value implements driver.Valuer.
func (l DimensionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return marshalText([]Dimension(l))
}

// Scan implements sql.Scanner.
func (l *DimensionList) Scan(value interface{}) error {
	b, ok := textBytes(value)
	if !ok {
		*l = DimensionList{}
		return nil
	}
	var out []Dimension
	if err := json.Unmarshal(b, &out); err != nil {
		*l = DimensionList{}
		return nil
	}
	*l = DimensionList(out)
	return nil
}

// String renders the list as "300x250 / 336x280".
func (l DimensionList) String() string {
	sizes := make([]string, 0, len(l))
	for _, d := range l {
		sizes = append(sizes, fmt.Sprintf("%dx%d", d.Width, d.Height))
	}
	return strings.Join(sizes, " / ")
}
