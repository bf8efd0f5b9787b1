package engine

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"budgee-analytics/src/models"
)

const (
	DefaultAmountTolerance = 0.10
	DefaultDayTolerance    = 5.0
)

// RecurringCandidate is a cluster of charges that look like an untracked
// subscription. It is recomputed on every call.
type RecurringCandidate struct {
	MerchantKey        string  `json:"merchant_key"`
	RepresentativeName string  `json:"representative_name"`
	Amount             float64 `json:"amount"`
	Occurrences        int     `json:"occurrences"`
	DaysOfMonth        []int   `json:"days_of_month"`
}

// Detector clusters transactions by merchant into recurring-charge candidates.
type Detector struct {
	AmountTolerance float64
	DayTolerance    float64
	// Scripts lists the letter classes kept in merchant keys.
	Scripts   []*unicode.RangeTable
	Sentinels []string
}

func NewDetector() *Detector {
	return &Detector{
		AmountTolerance: DefaultAmountTolerance,
		DayTolerance:    DefaultDayTolerance,
		Scripts:         []*unicode.RangeTable{unicode.Latin, unicode.Hebrew},
		Sentinels:       []string{"unknown"},
	}
}

// DetectRecurring runs a detector with the default tolerances.
func DetectRecurring(txns []models.Transaction, subs []models.Subscription) *RecurringCandidate {
	return NewDetector().Detect(txns, subs)
}

type cluster struct {
	key         string
	name        string
	amount      float64
	days        []int
	occurrences int
}

// Detect returns the first qualifying candidate in order of each merchant's
// earliest charge, or nil when nothing qualifies.
func (d *Detector) Detect(txns []models.Transaction, subs []models.Subscription) *RecurringCandidate {
	sorted := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if validAmount(t.Amount) && !t.Date.IsZero() && t.Description != nil {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var order []string
	clusters := make(map[string]*cluster)
	for _, t := range sorted {
		key := d.MerchantKey(*t.Description)
		if !d.usableKey(key) {
			continue
		}
		c, ok := clusters[key]
		if !ok {
			clusters[key] = &cluster{
				key:         key,
				name:        strings.TrimSpace(*t.Description),
				amount:      t.Amount,
				days:        []int{t.Date.Day()},
				occurrences: 1,
			}
			order = append(order, key)
			continue
		}
		if d.similarAmount(c.amount, t.Amount) {
			c.occurrences++
			c.days = append(c.days, t.Date.Day())
		}
	}

	for _, key := range order {
		c := clusters[key]
		if c.occurrences < 2 || !d.periodic(c.days) || d.tracked(c, subs) {
			continue
		}
		return &RecurringCandidate{
			MerchantKey:        c.key,
			RepresentativeName: c.name,
			Amount:             c.amount,
			Occurrences:        c.occurrences,
			DaysOfMonth:        c.days,
		}
	}
	return nil
}

// MerchantKey normalizes a description: lowercase, digits removed, only
// allowed letters and whitespace kept, trimmed.
func (d *Detector) MerchantKey(desc string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(desc) {
		switch {
		case unicode.IsDigit(r):
		case unicode.IsSpace(r):
			b.WriteRune(r)
		case unicode.IsLetter(r) && unicode.IsOneOf(d.Scripts, r):
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func (d *Detector) usableKey(key string) bool {
	if len([]rune(key)) < 2 {
		return false
	}
	for _, s := range d.Sentinels {
		if key == s {
			return false
		}
	}
	return true
}

func (d *Detector) similarAmount(a, b float64) bool {
	hi := math.Max(a, b)
	if hi <= 0 {
		return false
	}
	return math.Abs(a-b)/hi <= d.AmountTolerance
}

// periodic is a loose check that all charge days sit near their average.
func (d *Detector) periodic(days []int) bool {
	if len(days) < 2 {
		return true
	}
	var sum float64
	for _, day := range days {
		sum += float64(day)
	}
	avg := sum / float64(len(days))
	for _, day := range days {
		if math.Abs(float64(day)-avg) > d.DayTolerance {
			return false
		}
	}
	return true
}

func (d *Detector) tracked(c *cluster, subs []models.Subscription) bool {
	for _, s := range subs {
		if validAmount(s.Amount) && d.similarAmount(c.amount, s.Amount) {
			return true
		}
		if d.MerchantKey(s.Name) == c.key {
			return true
		}
	}
	return false
}
