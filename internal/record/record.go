package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var ErrInvalid = errors.New("invalid record")

// Record is one customer delivery mirrored into the external workbook.
type Record struct {
	Date        string  `json:"date" yaml:"date"`
	Name        string  `json:"name" yaml:"name"`
	Contact     string  `json:"contact" yaml:"contact"`
	Address     string  `json:"address" yaml:"address"`
	TotalVolume float64 `json:"total_volume" yaml:"total_volume"`
}

// Validate rejects volumes that are negative, NaN or infinite.
func (r Record) Validate() error {
	if math.IsNaN(r.TotalVolume) || math.IsInf(r.TotalVolume, 0) {
		return fmt.Errorf("%w: total volume is not finite", ErrInvalid)
	}
	if r.TotalVolume < 0 {
		return fmt.Errorf("%w: total volume %v is negative", ErrInvalid, r.TotalVolume)
	}
	return nil
}

// Normalize trims the text fields and folds them to NFC so visually equal
// names land in the sheet as equal strings.
func Normalize(r Record) Record {
	r.Date = normalizeText(r.Date)
	r.Name = normalizeText(r.Name)
	r.Contact = normalizeText(r.Contact)
	r.Address = normalizeText(r.Address)
	if r.TotalVolume == 0 {
		// drop negative zero
		r.TotalVolume = 0
	}
	return r
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Row returns the record in sheet column order.
func (r Record) Row() []string {
	return []string{r.Date, r.Name, r.Contact, r.Address, FormatVolume(r.TotalVolume)}
}

// FormatVolume renders a volume with exactly three fractional digits.
func FormatVolume(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
