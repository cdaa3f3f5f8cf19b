package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Variant string

const (
	VariantAluminum Variant = "aluminum"
	VariantHardware Variant = "hardware"
)

// GajeOptions are the gauge multipliers the shop stocks.
var GajeOptions = []string{"0.9", "1.1", "1.2", "1.4", "1.6", "2.0"}

// ColorOptions are the finish codes on the aluminum price list.
var ColorOptions = []string{"CH", "BLM", "WT", "SL", "WOOD", "SAHARA", "MALTI"}

const defaultCity = "Multan"

// Line is one priced row of a bill. Numeric fields are pointers so an
// untouched input ("") stays distinct from an entered 0; they are only
// coerced to 0 inside the amount/total math. Amount is derived and nil
// until the line has something to compute from.
type Line struct {
	ID          int64    `json:"id"`
	Section     *float64 `json:"section,omitempty"`
	Size        *float64 `json:"size,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
	Gaje        string   `json:"gaje,omitempty"`
	Color       string   `json:"color,omitempty"`
	ProductName string   `json:"productName,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// Draft is one in-progress bill owned by a single editing session.
// Totals are never stored on it; call CalculateTotals.
type Draft struct {
	Variant        Variant  `json:"-"`
	InvoiceNo      int64    `json:"invoiceNo"`
	CustomerName   string   `json:"customerName"`
	Date           string   `json:"date"`
	CompanyName    string   `json:"companyName"`
	City           string   `json:"city"`
	Lines          []Line   `json:"products"`
	PreviousAmount *float64 `json:"previousAmount,omitempty"`
	// CrossAmount is the sibling bill's total, entered by hand:
	// hardwareAmount on an aluminum bill, aluminumTotal on a hardware bill.
	CrossAmount    *float64 `json:"-"`
	ReceivedAmount *float64 `json:"receivedAmount,omitempty"`

	nextLineID int64
}

// NewDraft returns a fresh draft with header defaults and a single blank line.
func NewDraft(variant Variant) *Draft {
	d := &Draft{
		Variant: variant,
		Date:    time.Now().Format("2006-01-02"),
		City:    defaultCity,
	}
	d.AddLine()
	return d
}

// Clone returns a copy safe to read while the original keeps being edited.
// Field updates always swap in fresh pointers, so sharing the pointed-to
// values is fine.
func (d *Draft) Clone() *Draft {
	cp := *d
	cp.Lines = append([]Line(nil), d.Lines...)
	return &cp
}

// AddLine appends a blank line and returns its id. Ids are monotonic and
// never reused within the draft, even after removals.
func (d *Draft) AddLine() int64 {
	d.nextLineID++
	d.Lines = append(d.Lines, Line{ID: d.nextLineID})
	return d.nextLineID
}

// RemoveLine drops the line with the given id. Removing an unknown id is a
// no-op and reports false. Remaining lines keep their ids; only the display
// serial number (a function of position) shifts.
func (d *Draft) RemoveLine(id int64) bool {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Line returns the line with the given id, or nil.
func (d *Draft) Line(id int64) *Line {
	for i := range d.Lines {
		if d.Lines[i].ID == id {
			return &d.Lines[i]
		}
	}
	return nil
}

// UpdateLine sets one field on one line from its raw form value and
// recomputes that line's amount if a pricing field changed. Other lines are
// never touched.
func (d *Draft) UpdateLine(id int64, field, value string) error {
	line := d.Line(id)
	if line == nil {
		return fmt.Errorf("update line %d: %w", id, ErrLineNotFound)
	}

	aluminumOnly := func() error {
		if d.Variant != VariantAluminum {
			return fmt.Errorf("line field %q on %s bill: %w", field, d.Variant, ErrUnknownField)
		}
		return nil
	}

	pricing := true
	switch field {
	case "section":
		if err := aluminumOnly(); err != nil {
			return err
		}
		line.Section = parseNum(value)
		pricing = false
	case "size":
		if err := aluminumOnly(); err != nil {
			return err
		}
		line.Size = parseNum(value)
	case "quantity":
		line.Quantity = parseNum(value)
	case "rate":
		line.Rate = parseNum(value)
	case "discount":
		if err := aluminumOnly(); err != nil {
			return err
		}
		line.Discount = parseNum(value)
	case "gaje":
		if err := aluminumOnly(); err != nil {
			return err
		}
		if !ValidGaje(value) {
			return fmt.Errorf("gaje %q: %w", value, ErrBadFieldValue)
		}
		line.Gaje = value
		pricing = false
	case "color":
		if err := aluminumOnly(); err != nil {
			return err
		}
		if !ValidColor(value) {
			return fmt.Errorf("color %q: %w", value, ErrBadFieldValue)
		}
		line.Color = value
		pricing = false
	case "productName":
		if d.Variant != VariantHardware {
			return fmt.Errorf("line field %q on %s bill: %w", field, d.Variant, ErrUnknownField)
		}
		line.ProductName = value
		pricing = false
	default:
		return fmt.Errorf("line field %q: %w", field, ErrUnknownField)
	}

	if pricing {
		recomputeAmount(d.Variant, line)
	}
	return nil
}

// UpdateHeader sets a header or side-input field from its raw form value.
// It never touches Lines. The cross-bill field name depends on the variant:
// hardwareAmount for aluminum bills, aluminumTotal for hardware bills.
func (d *Draft) UpdateHeader(field, value string) error {
	switch field {
	case "invoiceNo":
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			n = 0
		}
		d.InvoiceNo = n
	case "customerName":
		d.CustomerName = value
	case "date":
		d.Date = value
	case "companyName":
		d.CompanyName = value
	case "city":
		d.City = value
	case "previousAmount":
		d.PreviousAmount = parseNum(value)
	case "receivedAmount":
		d.ReceivedAmount = parseNum(value)
	case "hardwareAmount":
		if d.Variant != VariantAluminum {
			return fmt.Errorf("header field %q on %s bill: %w", field, d.Variant, ErrUnknownField)
		}
		d.CrossAmount = parseNum(value)
	case "aluminumTotal":
		if d.Variant != VariantHardware {
			return fmt.Errorf("header field %q on %s bill: %w", field, d.Variant, ErrUnknownField)
		}
		d.CrossAmount = parseNum(value)
	default:
		return fmt.Errorf("header field %q: %w", field, ErrUnknownField)
	}
	return nil
}

// parseNum maps a raw form value to its numeric-or-empty state. Blank and
// unparseable input both mean "nothing entered"; the math layer reads that
// as 0 without losing the distinction for display.
func parseNum(value string) *float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ValidGaje reports whether v is a known gauge option; empty clears the field.
func ValidGaje(v string) bool {
	return v == "" || contains(GajeOptions, v)
}

// ValidColor reports whether v is a known finish code; empty clears the field.
func ValidColor(v string) bool {
	return v == "" || contains(ColorOptions, v)
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
