package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// CategoryAll is the pseudo-category that matches every entry.
const CategoryAll = "All"

// RecurrenceAnnual marks presets that repeat every year on the same calendar days.
const RecurrenceAnnual = "annual"

const dateLayout = "2006-01-02"

// ErrUnknownCurrency is returned when a currency code has no rate.
var ErrUnknownCurrency = errors.New("unknown currency")

// Destination is a place a traveller can add to the trip.
type Destination struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	Category      string   `json:"category" yaml:"category"`
	Region        string   `json:"region" yaml:"region"`
	SuggestedStay string   `json:"suggested_stay" yaml:"suggested_stay"`
	Highlights    []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Experience is a bookable activity priced per person in the base currency.
type Experience struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Duration    string   `json:"duration" yaml:"duration"`
	Price       int64    `json:"price" yaml:"price"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// Season is informational travel guidance.
type Season struct {
	Name        string   `json:"name" yaml:"name"`
	Months      string   `json:"months" yaml:"months"`
	Description string   `json:"description" yaml:"description"`
	Temperature string   `json:"temperature" yaml:"temperature"`
	Recommended bool     `json:"recommended" yaml:"recommended"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights,omitempty"`
}

// DurationOption is a quick-pick trip length.
type DurationOption struct {
	Label string `json:"label" yaml:"label"`
	Days  int    `json:"days" yaml:"days"`
}

// Preset is a curated date range tied to a festival.
type Preset struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	HostDestination string `json:"host_destination" yaml:"host_destination"`
	// Start and End are inclusive calendar days (YYYY-MM-DD).
	Start      string `json:"start" yaml:"start"`
	End        string `json:"end" yaml:"end"`
	Recurrence string `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
}

// Currency is a display currency and its rate from the base currency.
type Currency struct {
	Code string  `json:"code" yaml:"code"`
	Name string  `json:"name" yaml:"name"`
	Rate float64 `json:"rate" yaml:"rate"`
}

// Catalog is the static data the planner offers.
type Catalog struct {
	BaseCurrency        string `json:"base_currency" yaml:"base_currency"`
	MaxTripDays         int    `json:"max_trip_days" yaml:"max_trip_days"`
	BookingHorizonYears int    `json:"booking_horizon_years" yaml:"booking_horizon_years"`

	DestinationCategories []string `json:"destination_categories" yaml:"destination_categories"`
	ExperienceCategories  []string `json:"experience_categories" yaml:"experience_categories"`

	Durations    []DurationOption `json:"durations" yaml:"durations"`
	Presets      []Preset         `json:"presets" yaml:"presets"`
	Seasons      []Season         `json:"seasons" yaml:"seasons"`
	Currencies   []Currency       `json:"currencies" yaml:"currencies"`
	Experiences  []Experience     `json:"experiences" yaml:"experiences"`
	Destinations []Destination    `json:"destinations" yaml:"destinations"`

	destinations map[string]int
	experiences  map[string]int
	presets      map[string]int
	rates        map[string]float64
}

// Default returns a fresh copy of the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultData, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML or JSON file.
// The format is chosen by extension; anything but .json is read as YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and indexes a catalog. It does not call Validate.
func Parse(data []byte, ext string) (*Catalog, error) {
	var c Catalog
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
		}
	}
	if c.BaseCurrency == "" {
		c.BaseCurrency = "INR"
	}
	if c.BookingHorizonYears == 0 {
		c.BookingHorizonYears = 2
	}
	c.reindex()
	return &c, nil
}

func (c *Catalog) reindex() {
	c.destinations = make(map[string]int, len(c.Destinations))
	for i, d := range c.Destinations {
		if _, dup := c.destinations[d.ID]; !dup {
			c.destinations[d.ID] = i
		}
	}
	c.experiences = make(map[string]int, len(c.Experiences))
	for i, e := range c.Experiences {
		if _, dup := c.experiences[e.ID]; !dup {
			c.experiences[e.ID] = i
		}
	}
	c.presets = make(map[string]int, len(c.Presets))
	for i, p := range c.Presets {
		if _, dup := c.presets[p.ID]; !dup {
			c.presets[p.ID] = i
		}
	}
	c.rates = make(map[string]float64, len(c.Currencies)+1)
	c.rates[strings.ToUpper(c.BaseCurrency)] = 1
	for _, cur := range c.Currencies {
		c.rates[strings.ToUpper(cur.Code)] = cur.Rate
	}
}

// Destination looks up a destination by ID.
func (c *Catalog) Destination(id string) (Destination, bool) {
	i, ok := c.destinations[id]
	if !ok {
		return Destination{}, false
	}
	return c.Destinations[i], true
}

// Experience looks up an experience by ID.
func (c *Catalog) Experience(id string) (Experience, bool) {
	i, ok := c.experiences[id]
	if !ok {
		return Experience{}, false
	}
	return c.Experiences[i], true
}

// Preset looks up a festival preset by ID.
func (c *Catalog) Preset(id string) (Preset, bool) {
	i, ok := c.presets[id]
	if !ok {
		return Preset{}, false
	}
	return c.Presets[i], true
}

// Rate returns the conversion rate from the base currency to code.
func (c *Catalog) Rate(code string) (float64, bool) {
	r, ok := c.rates[strings.ToUpper(code)]
	return r, ok
}

// DestinationsIn filters destinations by category. Empty or "All" returns every destination.
func (c *Catalog) DestinationsIn(category string) []Destination {
	out := make([]Destination, 0, len(c.Destinations))
	for _, d := range c.Destinations {
		if matches(category, d.Category) {
			out = append(out, d)
		}
	}
	return out
}

// ExperiencesIn filters experiences by category. Empty or "All" returns every experience.
func (c *Catalog) ExperiencesIn(category string) []Experience {
	out := make([]Experience, 0, len(c.Experiences))
	for _, e := range c.Experiences {
		if matches(category, e.Category) {
			out = append(out, e)
		}
	}
	return out
}

func matches(filter, category string) bool {
	return filter == "" || strings.EqualFold(filter, CategoryAll) || strings.EqualFold(filter, category)
}

// Price sums the prices of ids. Unknown IDs contribute nothing.
func (c *Catalog) Price(ids []string) int64 {
	var total int64
	for _, id := range ids {
		if e, ok := c.Experience(id); ok {
			total += e.Price
		}
	}
	return total
}

// Convert turns an amount in the base currency into code, rounded to two decimals.
func (c *Catalog) Convert(amount int64, code string) (float64, error) {
	rate, ok := c.Rate(code)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return Round2(float64(amount) * rate), nil
}

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAmount renders amount with the symbol of code, e.g. "$ 30.00".
func FormatAmount(amount float64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, amount)
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// Resolve returns the concrete window of the preset relative to now.
// Annual presets move to the next edition that starts after now.
// Fixed presets report ok=false once they have started.
func (p Preset) Resolve(now time.Time) (start, end time.Time, ok bool) {
	start, end, err := p.window(now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if p.Recurrence == RecurrenceAnnual {
		shift := now.Year() - start.Year()
		start, end = start.AddDate(shift, 0, 0), end.AddDate(shift, 0, 0)
		if !start.After(now) {
			start, end = start.AddDate(1, 0, 0), end.AddDate(1, 0, 0)
		}
		return start, end, true
	}
	if !now.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (p Preset) window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, p.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("preset %q: invalid start: %w", p.ID, err)
	}
	end, err := time.ParseInLocation(dateLayout, p.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("preset %q: invalid end: %w", p.ID, err)
	}
	return start, end, nil
}
