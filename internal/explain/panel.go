package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/macrolens/macrolens/internal/analytics"
	"github.com/macrolens/macrolens/internal/timeseries"
)

// PartnerRow is one line of the strongest-correlation table
type PartnerRow struct {
	Indicator   string   `json:"indicator"`
	DisplayName string   `json:"display_name"`
	Partner     string   `json:"partner,omitempty"`
	R           *float64 `json:"r"`
	Text        string   `json:"text"`
}

// Section is one heading of the explanation panel
type Section struct {
	Heading string       `json:"heading"`
	Body    string       `json:"body,omitempty"`
	Rows    []PartnerRow `json:"rows,omitempty"`
}

// Panel is the ordered explanation for a chart and its indicators
type Panel struct {
	Chart      string    `json:"chart"`
	Indicators []string  `json:"indicators"`
	Sections   []Section `json:"sections"`
}

// Panel assembles the explanation sections for chartID over ids. An unknown
// chart only omits the chart section.
func (s *Selector) Panel(store *timeseries.Store, chartID string, ids []string) (*Panel, error) {
	if err := store.Lookup(ids...); err != nil {
		return nil, err
	}

	h := s.cat.Texts.Headings
	p := &Panel{Chart: chartID, Indicators: ids, Sections: []Section{}}

	if chart, ok := s.cat.Chart(chartID); ok {
		p.add(fill(h.Chart, "{name}", chart.Name), chart.Description)
	}

	switch {
	case len(ids) == 1:
		d := s.Describe(ids[0])
		p.add(fill(h.Indicator, "{name}", d.DisplayName), d.Explanation)
		if chartID == "seasonal" {
			p.add(h.Seasonal, s.Seasonal(ids[0]))
		}

	case len(ids) == 2 && chartID == "scatter":
		a, b := ids[0], ids[1]
		p.add(fill(h.Relationship, "{a}", s.DisplayName(a), "{b}", s.DisplayName(b)), s.Relationship(a, b))

		r, err := analytics.Correlate(store, a, b)
		if err != nil {
			return nil, err
		}
		p.add(h.Coefficient, fmt.Sprintf("%.2f (%s)", r, s.BandLabel(analytics.DescribeCorrelation(r))))

	case len(ids) > 0:
		partners, err := analytics.Strongest(store, ids)
		if err != nil {
			return nil, err
		}
		rows := make([]PartnerRow, len(partners))
		for i, partner := range partners {
			row := PartnerRow{
				Indicator:   partner.Indicator,
				DisplayName: s.DisplayName(partner.Indicator),
				Text:        h.NoPartner,
			}
			if best := partner.Best; best != nil {
				r := best.R
				row.Partner = best.Indicator
				row.R = &r
				row.Text = fmt.Sprintf("%s (%.2f)", s.DisplayName(best.Indicator), math.Abs(r))
			}
			rows[i] = row
		}
		p.Sections = append(p.Sections, Section{Heading: h.Selection, Rows: rows})
	}

	return p, nil
}

func (p *Panel) add(heading, body string) {
	p.Sections = append(p.Sections, Section{Heading: heading, Body: body})
}

func fill(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}
