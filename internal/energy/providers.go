package energy

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Provider fetches a live day-ahead electricity price for a country.
// Prices are returned in the market unit, EUR/MWh.
type Provider interface {
	Name() string
	Supports(country string) bool
	FetchPrice(ctx context.Context, country string) (float64, error)
}

// biddingZones maps countries to their day-ahead bidding zone codes.
var biddingZones = map[string]string{
	"Germany":     "DE-LU",
	"France":      "FR",
	"Austria":     "AT",
	"Switzerland": "CH",
}

// energyChartsProvider queries the public energy-charts.info price API.
type energyChartsProvider struct {
	baseURL string
	client  *http.Client
}

// NewEnergyChartsProvider returns the first-choice provider for the
// central European bidding zones.
func NewEnergyChartsProvider(client *http.Client) Provider {
	return &energyChartsProvider{baseURL: "https://api.energy-charts.info", client: client}
}

func (p *energyChartsProvider) Name() string { return "energy-charts" }

func (p *energyChartsProvider) Supports(country string) bool {
	_, ok := biddingZones[country]
	return ok
}

func (p *energyChartsProvider) FetchPrice(ctx context.Context, country string) (float64, error) {
	zone := biddingZones[country]
	day := time.Now().UTC().Format("2006-01-02")

	q := url.Values{}
	q.Set("bzn", zone)
	q.Set("start", day)
	q.Set("end", day)

	var payload struct {
		Price []float64 `json:"price"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"/price?"+q.Encode(), &payload); err != nil {
		return 0, err
	}
	if len(payload.Price) == 0 {
		return 0, fmt.Errorf("energy-charts: empty price series for %s", zone)
	}
	// Last published value is the most recent hour.
	return payload.Price[len(payload.Price)-1], nil
}

// entsoeAreas maps countries to ENTSO-E area codes.
var entsoeAreas = map[string]string{
	"Germany":        "10Y1001A1001A83F",
	"Denmark":        "10Y1001A1001A65H",
	"Italy":          "10Y1001A1001A70O",
	"France":         "10Y1001A1001A92E",
	"Netherlands":    "10YNL----------L",
	"Belgium":        "10YBE----------2",
	"Austria":        "10YAT-APG------L",
	"Poland":         "10YPL-AREA-----S",
	"Czech Republic": "10YCZ-CEPS-----N",
}

// entsoeProvider queries the ENTSO-E transparency platform. Requires an
// API token; without one the provider fails fast and the chain moves on.
type entsoeProvider struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewEntsoeProvider returns the ENTSO-E day-ahead price provider.
func NewEntsoeProvider(token string, client *http.Client) Provider {
	return &entsoeProvider{baseURL: "https://web-api.tp.entsoe.eu/api", token: token, client: client}
}

func (p *entsoeProvider) Name() string { return "entsoe" }

func (p *entsoeProvider) Supports(country string) bool {
	_, ok := entsoeAreas[country]
	return ok
}

// marketDocument is the subset of the ENTSO-E publication document the
// price lookup needs.
type marketDocument struct {
	XMLName    xml.Name `xml:"Publication_MarketDocument"`
	TimeSeries []struct {
		Period []struct {
			Point []struct {
				Position int     `xml:"position"`
				Amount   float64 `xml:"price.amount"`
			} `xml:"Point"`
		} `xml:"Period"`
	} `xml:"TimeSeries"`
}

func (p *entsoeProvider) FetchPrice(ctx context.Context, country string) (float64, error) {
	if p.token == "" {
		return 0, fmt.Errorf("entsoe: no API token configured")
	}
	area := entsoeAreas[country]
	now := time.Now().UTC()
	start := now.Truncate(time.Hour)

	q := url.Values{}
	q.Set("securityToken", p.token)
	q.Set("documentType", "A44") // day-ahead prices
	q.Set("in_Domain", area)
	q.Set("out_Domain", area)
	q.Set("periodStart", start.Format("200601021504"))
	q.Set("periodEnd", start.Add(time.Hour).Format("200601021504"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("entsoe: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	var doc marketDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return 0, fmt.Errorf("entsoe: malformed payload: %w", err)
	}
	for _, ts := range doc.TimeSeries {
		for _, period := range ts.Period {
			if len(period.Point) > 0 {
				return period.Point[len(period.Point)-1].Amount, nil
			}
		}
	}
	return 0, fmt.Errorf("entsoe: no price points for %s", country)
}

// awattarHosts maps the two markets aWATTar publishes.
var awattarHosts = map[string]string{
	"Germany": "https://api.awattar.de",
	"Austria": "https://api.awattar.at",
}

// awattarProvider queries the free aWATTar market data API.
type awattarProvider struct {
	hosts  map[string]string
	client *http.Client
}

// NewAwattarProvider returns the aWATTar provider for Germany/Austria.
func NewAwattarProvider(client *http.Client) Provider {
	return &awattarProvider{hosts: awattarHosts, client: client}
}

func (p *awattarProvider) Name() string { return "awattar" }

func (p *awattarProvider) Supports(country string) bool {
	_, ok := p.hosts[country]
	return ok
}

func (p *awattarProvider) FetchPrice(ctx context.Context, country string) (float64, error) {
	hour := time.Now().Truncate(time.Hour)
	start := hour.UnixMilli()
	end := hour.Add(time.Hour).UnixMilli()

	var payload struct {
		Data []struct {
			MarketPrice float64 `json:"marketprice"`
		} `json:"data"`
	}
	u := fmt.Sprintf("%s/v1/marketdata?start=%d&end=%d", p.hosts[country], start, end)
	if err := getJSON(ctx, p.client, u, &payload); err != nil {
		return 0, err
	}
	if len(payload.Data) == 0 {
		return 0, fmt.Errorf("awattar: empty market data window")
	}
	return payload.Data[0].MarketPrice, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed payload from %s: %w", url, err)
	}
	return nil
}
