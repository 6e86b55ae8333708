package data

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"lithuania-bess/internal/model"
)

// Lithuania bidding zone EIC code, used as in_domain/out_domain for every
// single-zone query.
const DomainLT = "10YLT-1001A0008Q"

// Neighboring bidding zones with interconnectors to Lithuania.
var NeighborDomains = map[string]string{
	"SE_4": "10Y1001A1001A47J",
	"PL":   "10YPL-AREA-----S",
	"LV":   "10YLV-1001A00074",
}

// EntsoeClient fetches market data from the ENTSO-E Transparency Platform
// REST API. All requests share a rate limiter: the platform enforces a
// per-key request budget and bans keys that exceed it.
type EntsoeClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter

	// Retry policy for transient failures.
	MaxTries uint
	Backoff  time.Duration
}

// NewEntsoeClient creates a new Transparency Platform client.
// If baseURL is empty, defaults to "https://web-api.tp.entsoe.eu/api".
func NewEntsoeClient(apiKey string, baseURL string) *EntsoeClient {
	if baseURL == "" {
		baseURL = "https://web-api.tp.entsoe.eu/api"
	}
	return &EntsoeClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		Limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		MaxTries: 3,
		Backoff:  2 * time.Second,
	}
}

// EntsoeError represents an error response from the Transparency Platform.
type EntsoeError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *EntsoeError) Error() string {
	return fmt.Sprintf("entsoe: %s (code=%s, status=%d)", e.Message, e.Code, e.StatusCode)
}

// NoData reports whether the error is the platform's "no matching data"
// acknowledgement rather than a real failure. Callers treat it as an
// empty result.
func (e *EntsoeError) NoData() bool {
	return e.Code == "999" ||
		strings.Contains(strings.ToLower(e.Message), "no matching data")
}

// DayAheadPrices fetches hourly day-ahead prices (EUR/MWh) for the
// Lithuanian bidding zone over [start, end).
func (c *EntsoeClient) DayAheadPrices(ctx context.Context, start, end time.Time) (model.Series, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType": {"A44"},
		"in_Domain":    {DomainLT},
		"out_Domain":   {DomainLT},
	}, start, end)
	if err != nil {
		return nil, err
	}
	return doc.priceSeries(), nil
}

// ImbalancePrices fetches 15-minute imbalance settlement prices for the
// Lithuanian control area. The platform reports a price per category
// (surplus and deficit); both are kept.
func (c *EntsoeClient) ImbalancePrices(ctx context.Context, start, end time.Time) (model.ImbalanceSeries, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType":       {"A85"},
		"controlArea_Domain": {DomainLT},
	}, start, end)
	if err != nil {
		return nil, err
	}
	return doc.imbalanceSeries(), nil
}

// ReserveProcess selects which balancing capacity product to query.
type ReserveProcess string

const (
	ProcessAFRR ReserveProcess = "A47"
	ProcessMFRR ReserveProcess = "A51"
)

// ReservePrices fetches contracted reserve capacity prices and volumes
// (EUR/MW per period, MW) for aFRR or mFRR in Lithuania.
func (c *EntsoeClient) ReservePrices(ctx context.Context, process ReserveProcess, start, end time.Time) (model.ReserveSeries, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType":              {"A89"},
		"processType":               {string(process)},
		"type_MarketAgreement.Type": {"A01"},
		"controlArea_Domain":        {DomainLT},
	}, start, end)
	if err != nil {
		return nil, err
	}
	return doc.reserveSeries(), nil
}

// ActualLoad fetches actual total load (MW) for Lithuania.
func (c *EntsoeClient) ActualLoad(ctx context.Context, start, end time.Time) (model.Series, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType":          {"A65"},
		"processType":           {"A16"},
		"outBiddingZone_Domain": {DomainLT},
	}, start, end)
	if err != nil {
		return nil, err
	}
	return doc.quantitySeries(), nil
}

// GenerationByType fetches actual generation per production type (MW),
// keyed by the platform's PSR type code (B16 solar, B19 wind onshore, ...).
func (c *EntsoeClient) GenerationByType(ctx context.Context, start, end time.Time) (map[string]model.Series, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType": {"A75"},
		"processType":  {"A16"},
		"in_Domain":    {DomainLT},
	}, start, end)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Series)
	for _, ts := range doc.TimeSeries {
		key := ts.PsrType
		if key == "" {
			key = "unknown"
		}
		out[key] = append(out[key], ts.points(quantityValue)...)
	}
	for key := range out {
		s := out[key]
		sort.Slice(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
		out[key] = s
	}
	return out, nil
}

// CrossborderFlow fetches physical flows (MW) from one bidding zone to
// another. Flows are directional; fetch both directions for net flow.
func (c *EntsoeClient) CrossborderFlow(ctx context.Context, fromDomain, toDomain string, start, end time.Time) (model.Series, error) {
	doc, err := c.fetch(ctx, url.Values{
		"documentType": {"A11"},
		"in_Domain":    {toDomain},
		"out_Domain":   {fromDomain},
	}, start, end)
	if err != nil {
		return nil, err
	}
	return doc.quantitySeries(), nil
}

const entsoeTimeLayout = "200601021504" // yyyyMMddHHmm, UTC

// fetch performs one GET against the platform with retries. Transient
// failures (network errors, 5xx, 429) are retried with a fixed pause;
// auth and bad-request errors fail immediately.
func (c *EntsoeClient) fetch(ctx context.Context, params url.Values, start, end time.Time) (*marketDocument, error) {
	if c.APIKey == "" {
		return nil, &EntsoeError{
			StatusCode: http.StatusUnauthorized,
			Code:       "NO_API_KEY",
			Message:    "ENTSO-E API key is not set (export ENTSOE_API_KEY or add it to ~/.env)",
		}
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("securityToken", c.APIKey)
	q.Set("periodStart", start.UTC().Format(entsoeTimeLayout))
	q.Set("periodEnd", end.UTC().Format(entsoeTimeLayout))
	u.RawQuery = q.Encode()

	log.Debug().
		Str("documentType", params.Get("documentType")).
		Str("start", start.UTC().Format("2006-01-02")).
		Str("end", end.UTC().Format("2006-01-02")).
		Msg("entsoe request")

	operation := func() (*marketDocument, error) {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := c.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &EntsoeError{
				StatusCode: resp.StatusCode,
				Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message:    http.StatusText(resp.StatusCode),
			}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(&EntsoeError{
				StatusCode: resp.StatusCode,
				Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
				Message:    strings.TrimSpace(string(body)),
			})
		}
		doc, err := parseMarketDocument(body)
		if err != nil {
			if e, ok := err.(*EntsoeError); ok && e.NoData() {
				log.Warn().Str("documentType", params.Get("documentType")).Msg("entsoe returned no matching data")
				return &marketDocument{}, nil
			}
			return nil, backoff.Permanent(err)
		}
		return doc, nil
	}

	doc, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.Backoff)),
		backoff.WithMaxTries(c.MaxTries),
	)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// marketDocument is the subset of the Transparency Platform XML shared by
// every document type this client queries. The platform wraps errors in an
// Acknowledgement_MarketDocument with the same content model, so one parse
// covers both.
type marketDocument struct {
	XMLName    xml.Name
	Reason     reason       `xml:"Reason"`
	TimeSeries []timeSeries `xml:"TimeSeries"`
}

type reason struct {
	Code string `xml:"code"`
	Text string `xml:"text"`
}

type timeSeries struct {
	BusinessType  string   `xml:"businessType"`
	FlowDirection string   `xml:"flowDirection.direction"`
	PsrType       string   `xml:"MktPSRType>psrType"`
	Periods       []period `xml:"Period"`
}

type period struct {
	Start      string        `xml:"timeInterval>start"`
	Resolution string        `xml:"resolution"`
	Points     []seriesPoint `xml:"Point"`
}

type seriesPoint struct {
	Position       int     `xml:"position"`
	Price          float64 `xml:"price.amount"`
	Quantity       float64 `xml:"quantity"`
	ImbalancePrice float64 `xml:"imbalance_Price.amount"`
	PriceCategory  string  `xml:"imbalance_Price.category"`
}

func parseMarketDocument(body []byte) (*marketDocument, error) {
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse entsoe response: %w", err)
	}
	if doc.XMLName.Local == "Acknowledgement_MarketDocument" {
		return nil, &EntsoeError{
			StatusCode: http.StatusOK,
			Code:       doc.Reason.Code,
			Message:    doc.Reason.Text,
		}
	}
	return &doc, nil
}

func (p period) step() (time.Duration, bool) {
	switch p.Resolution {
	case "PT15M":
		return 15 * time.Minute, true
	case "PT30M":
		return 30 * time.Minute, true
	case "PT60M", "PT1H":
		return time.Hour, true
	default:
		return 0, false
	}
}

type valueFn func(seriesPoint) float64

func priceValue(p seriesPoint) float64    { return p.Price }
func quantityValue(p seriesPoint) float64 { return p.Quantity }

// points expands a time series into timestamped values. Positions are
// 1-based offsets from the period start at the period's resolution; the
// platform omits positions whose value repeats, so gaps are expected.
func (ts timeSeries) points(value valueFn) model.Series {
	var out model.Series
	for _, per := range ts.Periods {
		start, err := parseEntsoeTime(per.Start)
		if err != nil {
			log.Warn().Str("start", per.Start).Msg("skipping period with bad start time")
			continue
		}
		step, ok := per.step()
		if !ok {
			log.Warn().Str("resolution", per.Resolution).Msg("skipping period with unknown resolution")
			continue
		}
		for _, pt := range per.Points {
			if pt.Position < 1 {
				continue
			}
			out = append(out, model.Point{
				Time:  start.Add(time.Duration(pt.Position-1) * step),
				Value: value(pt),
			})
		}
	}
	return out
}

func (d *marketDocument) priceSeries() model.Series {
	var out model.Series
	for _, ts := range d.TimeSeries {
		out = append(out, ts.points(priceValue)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

func (d *marketDocument) quantitySeries() model.Series {
	var out model.Series
	for _, ts := range d.TimeSeries {
		out = append(out, ts.points(quantityValue)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// imbalanceSeries merges the surplus (A04) and deficit (A05) price
// categories into one row per settlement period.
func (d *marketDocument) imbalanceSeries() model.ImbalanceSeries {
	type pair struct{ long, short float64 }
	byTime := make(map[int64]*pair)
	var order []int64
	for _, ts := range d.TimeSeries {
		for _, per := range ts.Periods {
			start, err := parseEntsoeTime(per.Start)
			if err != nil {
				continue
			}
			step, ok := per.step()
			if !ok {
				continue
			}
			for _, pt := range per.Points {
				if pt.Position < 1 {
					continue
				}
				t := start.Add(time.Duration(pt.Position-1) * step).Unix()
				entry, seen := byTime[t]
				if !seen {
					entry = &pair{}
					byTime[t] = entry
					order = append(order, t)
				}
				price := pt.ImbalancePrice
				if price == 0 {
					price = pt.Price
				}
				switch pt.PriceCategory {
				case "A04": // surplus: the long price
					entry.long = price
				case "A05": // deficit: the short price
					entry.short = price
				default:
					// Single-price settlement publishes one uncategorized
					// price; use it for both sides.
					entry.long = price
					entry.short = price
				}
			}
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make(model.ImbalanceSeries, 0, len(order))
	for _, t := range order {
		p := byTime[t]
		out = append(out, model.ImbalancePoint{
			Time:  time.Unix(t, 0).UTC(),
			Long:  p.long,
			Short: p.short,
		})
	}
	return out
}

// reserveSeries merges up (A01) and down (A02) procurement directions into
// one row per period with price and contracted volume for each direction.
func (d *marketDocument) reserveSeries() model.ReserveSeries {
	byTime := make(map[int64]*model.ReservePoint)
	var order []int64
	for _, ts := range d.TimeSeries {
		up := ts.FlowDirection != "A02"
		for _, per := range ts.Periods {
			start, err := parseEntsoeTime(per.Start)
			if err != nil {
				continue
			}
			step, ok := per.step()
			if !ok {
				continue
			}
			for _, pt := range per.Points {
				if pt.Position < 1 {
					continue
				}
				t := start.Add(time.Duration(pt.Position-1) * step).Unix()
				entry, seen := byTime[t]
				if !seen {
					entry = &model.ReservePoint{Time: time.Unix(t, 0).UTC()}
					byTime[t] = entry
					order = append(order, t)
				}
				if up {
					entry.UpPrice = pt.Price
					entry.UpQuantity = pt.Quantity
				} else {
					entry.DownPrice = pt.Price
					entry.DownQuantity = pt.Quantity
				}
			}
		}
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	out := make(model.ReserveSeries, 0, len(order))
	for _, t := range order {
		out = append(out, *byTime[t])
	}
	return out
}

func parseEntsoeTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04Z", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
