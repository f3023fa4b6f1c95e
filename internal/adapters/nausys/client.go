// Package nausys is the upstream charter-management API adapter.
//
// Every call is an HTTP POST whose JSON body carries the agency credentials.
// Responses share an envelope with a "status" field; anything other than OK
// becomes a *domain.UpstreamError. Wire records are decoded into DTOs built on
// the flexible normalize types and mapped to domain entities before they leave
// this package.
package nausys

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"charter_sync/internal/adapters/observability"
	"charter_sync/internal/domain"
)

const service = "nausys"

// Envelope status values.
const (
	StatusOK               = "OK"
	StatusAuthentication   = "AUTHENTICATION_ERROR"
	StatusInsufficientData = "INSUFFICIENT_DATA"
)

const maxBody = 64 << 20

type Client struct {
	base     string
	hc       *http.Client
	username string
	password string
	rl       *rate.Limiter
	cb       *gobreaker.CircuitBreaker[rawResponse]
}

type rawResponse struct {
	status int
	body   []byte
}

type envelope struct {
	Status       flexString `json:"status"`
	ErrorCode    flexString `json:"errorCode"`
	ErrorMessage flexString `json:"errorMessage"`
}

func New(base, username, password string, rps int, timeout time.Duration) (*Client, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("nausys credentials are required")
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	observability.ObserveBreaker(service, int(gobreaker.StateClosed))
	return &Client{
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: timeout},
		username: username,
		password: password,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		cb: gobreaker.NewCircuitBreaker[rawResponse](gobreaker.Settings{
			Name:        service,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
				observability.ObserveBreaker(name, int(to))
			},
		}),
	}, nil
}

// ---- catalogue ----

func (c *Client) CharterCompanies(ctx context.Context) ([]domain.CharterCompany, error) {
	return list(ctx, c, "catalogue/charterCompanies", "catalogue/v6/charterCompanies", "companies", nil, companyDTO.toDomain)
}

func (c *Client) YachtCategories(ctx context.Context) ([]domain.YachtCategory, error) {
	return list(ctx, c, "catalogue/yachtCategories", "catalogue/v6/yachtCategories", "categories", nil,
		func(d namedDTO) domain.YachtCategory {
			return domain.YachtCategory{ID: d.ID.ID(), Name: text(d.Name)}
		})
}

func (c *Client) YachtBuilders(ctx context.Context) ([]domain.YachtBuilder, error) {
	return list(ctx, c, "catalogue/yachtBuilders", "catalogue/v6/yachtBuilders", "builders", nil,
		func(d namedDTO) domain.YachtBuilder {
			return domain.YachtBuilder{ID: d.ID.ID(), Name: text(d.Name)}
		})
}

func (c *Client) YachtModels(ctx context.Context) ([]domain.YachtModel, error) {
	return list(ctx, c, "catalogue/yachtModels", "catalogue/v6/yachtModels", "models", nil, modelDTO.toDomain)
}

func (c *Client) Bases(ctx context.Context) ([]domain.Base, error) {
	return list(ctx, c, "catalogue/charterBases", "catalogue/v6/charterBases", "bases", nil, baseDTO.toDomain)
}

func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	return list(ctx, c, "catalogue/countries", "catalogue/v6/countries", "countries", nil, countryDTO.toDomain)
}

func (c *Client) Regions(ctx context.Context) ([]domain.Region, error) {
	return list(ctx, c, "catalogue/regions", "catalogue/v6/regions", "regions", nil, regionDTO.toDomain)
}

func (c *Client) Locations(ctx context.Context) ([]domain.Location, error) {
	return list(ctx, c, "catalogue/locations", "catalogue/v6/locations", "locations", nil, locationDTO.toDomain)
}

func (c *Client) Equipment(ctx context.Context) ([]domain.Equipment, error) {
	return list(ctx, c, "catalogue/equipment", "catalogue/v6/equipment", "equipment", nil, equipmentDTO.toDomain)
}

func (c *Client) Services(ctx context.Context) ([]domain.Service, error) {
	return list(ctx, c, "catalogue/services", "catalogue/v6/services", "services", nil, serviceDTO.toDomain)
}

func (c *Client) Contacts(ctx context.Context) ([]domain.Contact, error) {
	return list(ctx, c, "catalogue/contacts", "catalogue/v6/contacts", "contacts", nil, contactDTO.toDomain)
}

// ---- yachts ----

// Yachts lists a company's fleet. Some accounts only receive summaries
// (id and name); the listing reports that so callers fetch details.
func (c *Client) Yachts(ctx context.Context, companyID int64) (domain.YachtListing, error) {
	const endpoint = "catalogue/yachts"
	raws, err := c.rawList(ctx, endpoint, fmt.Sprintf("catalogue/v6/yachts/%d", companyID), "yachts", nil)
	if err != nil {
		return domain.YachtListing{}, err
	}
	var out domain.YachtListing
	for i, raw := range raws {
		var d yachtDTO
		if err := json.Unmarshal(raw, &d); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Int("index", i).Msg("skipping undecodable record")
			continue
		}
		if isSummary(raw) {
			out.Summaries = true
		}
		y := d.toDomain()
		if y.CompanyID == nil && companyID > 0 {
			cid := companyID
			y.CompanyID = &cid
		}
		out.Yachts = append(out.Yachts, y)
	}
	return out, nil
}

func (c *Client) Yacht(ctx context.Context, id int64) (domain.Yacht, error) {
	const endpoint = "catalogue/yacht"
	var resp struct {
		Yacht *yachtDTO `json:"yacht"`
	}
	if err := c.post(ctx, endpoint, fmt.Sprintf("catalogue/v6/yacht/%d", id), nil, &resp); err != nil {
		return domain.Yacht{}, err
	}
	if resp.Yacht == nil {
		return domain.Yacht{}, fmt.Errorf("yacht %d: %w", id, domain.ErrNotFound)
	}
	return resp.Yacht.toDomain(), nil
}

func (c *Client) YachtPrices(ctx context.Context, companyID int64) ([]domain.YachtPrice, error) {
	return list(ctx, c, "catalogue/yachtPrices", fmt.Sprintf("catalogue/v6/yachtPrices/%d", companyID), "prices", nil, yachtPriceDTO.toDomain)
}

func (c *Client) YachtRatings(ctx context.Context, companyID int64) ([]domain.YachtRating, error) {
	return list(ctx, c, "catalogue/yachtRatings", fmt.Sprintf("catalogue/v6/yachtRatings/%d", companyID), "ratings", nil, yachtRatingDTO.toDomain)
}

// ---- reservations ----

func (c *Client) Reservations(ctx context.Context, q domain.ReservationQuery) ([]domain.Reservation, error) {
	return list(ctx, c, "yachtReservation/reservations", "yachtReservation/v6/reservations", "reservations",
		periodParams(q.From, q.To), reservationDTO.toDomain)
}

func (c *Client) Options(ctx context.Context, q domain.ReservationQuery) ([]domain.Journey, error) {
	return list(ctx, c, "yachtReservation/options", "yachtReservation/v6/options", "options",
		periodParams(q.From, q.To), reservationDTO.toJourney)
}

func (c *Client) Occupancy(ctx context.Context, companyID int64, year int) ([]domain.Occupancy, error) {
	return list(ctx, c, "yachtReservation/occupancy", fmt.Sprintf("yachtReservation/v6/occupancy/%d/%d", companyID, year), "reservations", nil,
		func(d occupancyDTO) domain.Occupancy { return d.toDomain(companyID) })
}

func (c *Client) CrewList(ctx context.Context, reservationID int64, securityCode string) ([]domain.CrewMember, error) {
	params := map[string]any{"securityCode": securityCode}
	return list(ctx, c, "yachtReservation/crewList", fmt.Sprintf("yachtReservation/v6/crewList/%d", reservationID), "crewList", params,
		func(d crewDTO) domain.CrewMember { return d.toDomain(reservationID) })
}

func (c *Client) FreeYachts(ctx context.Context, from, to time.Time, yachtIDs []int64) ([]domain.FreeYacht, error) {
	params := periodParams(from, to)
	if len(yachtIDs) > 0 {
		params["yachts"] = yachtIDs
	}
	return list(ctx, c, "yachtReservation/freeYachts", "yachtReservation/v6/freeYachts", "freeYachts", params, freeYachtDTO.toDomain)
}

// ---- invoices ----

func (c *Client) Invoices(ctx context.Context, q domain.InvoiceQuery) ([]domain.Invoice, error) {
	return list(ctx, c, "invoices/"+string(q.Type), fmt.Sprintf("invoices/v6/%s", q.Type), "invoices",
		periodParams(q.From, q.To), func(d invoiceDTO) domain.Invoice { return d.toDomain(q.Type) })
}

// ---- cabin charter ----

func (c *Client) CabinCharterBases(ctx context.Context) ([]domain.CabinCharterBase, error) {
	return list(ctx, c, "cabinCharter/bases", "cabinCharter/v6/bases", "bases", nil, cabinBaseDTO.toDomain)
}

func (c *Client) CabinCharterCompanies(ctx context.Context) ([]domain.CabinCharterCompany, error) {
	return list(ctx, c, "cabinCharter/companies", "cabinCharter/v6/companies", "companies", nil, cabinCompanyDTO.toDomain)
}

func (c *Client) FreeCabinPackages(ctx context.Context, q domain.CabinPackageQuery) ([]domain.FreeCabinPackage, error) {
	params := periodParams(q.From, q.To)
	if q.CountryID != nil {
		params["countries"] = []int64{*q.CountryID}
	}
	if q.LocationID != nil {
		params["locations"] = []int64{*q.LocationID}
	}
	if q.CompanyID != nil {
		params["companies"] = []int64{*q.CompanyID}
	}
	return list(ctx, c, "cabinCharter/freeCabinPackageSearch", "cabinCharter/v6/freeCabinPackageSearch", "packages", params, packageDTO.toDomain)
}

func (c *Client) FreeCabinSearchCriteria(ctx context.Context) (domain.FreeCabinSearchCriteria, error) {
	var d criteriaDTO
	if err := c.post(ctx, "cabinCharter/freeCabinSearchCriteria", "cabinCharter/v6/freeCabinSearchCriteria", nil, &d); err != nil {
		return domain.FreeCabinSearchCriteria{}, err
	}
	return d.toDomain(), nil
}

// ---- internals ----

func periodParams(from, to time.Time) map[string]any {
	return map[string]any{
		"periodFrom": normalizeDate(from),
		"periodTo":   normalizeDate(to),
	}
}

// list fetches one collection and decodes it record by record, so a single
// malformed record is dropped instead of failing the whole response.
func list[D, T any](ctx context.Context, c *Client, endpoint, path, key string, params map[string]any, conv func(D) T) ([]T, error) {
	raws, err := c.rawList(ctx, endpoint, path, key, params)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var d D
		if err := json.Unmarshal(raw, &d); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Int("index", i).Msg("skipping undecodable record")
			continue
		}
		out = append(out, conv(d))
	}
	return out, nil
}

func (c *Client) rawList(ctx context.Context, endpoint, path, key string, params map[string]any) ([]json.RawMessage, error) {
	var resp map[string]json.RawMessage
	if err := c.post(ctx, endpoint, path, params, &resp); err != nil {
		return nil, err
	}
	raw, ok := resp[key]
	if !ok {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		// null or a non-list value: treat as empty
		return nil, nil
	}
	return raws, nil
}

// post performs one rate-limited, breaker-guarded call and decodes the
// envelope. There are no retries; callers decide what a failure means.
func (c *Client) post(ctx context.Context, endpoint, path string, params map[string]any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return &domain.UpstreamError{Kind: domain.ErrTransport, Endpoint: endpoint, Err: err}
	}

	body := map[string]any{"username": c.username, "password": c.password}
	for k, v := range params {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	start := time.Now()
	res, err := c.cb.Execute(func() (rawResponse, error) {
		return c.do(ctx, path, payload)
	})
	status := res.status
	var ue *domain.UpstreamError
	if errors.As(err, &ue) && ue.HTTPStatus != 0 {
		status = ue.HTTPStatus
	}
	observability.ObserveExternal(service, endpoint, status, time.Since(start))

	if err != nil {
		if ue != nil {
			ue.Endpoint = endpoint
			return ue
		}
		// breaker open or half-open saturation
		return &domain.UpstreamError{Kind: domain.ErrTransport, Endpoint: endpoint, Err: err}
	}

	var env envelope
	envErr := json.Unmarshal(res.body, &env)
	st := strings.ToUpper(string(env.Status))

	if res.status < 200 || res.status > 299 {
		// a 4xx may still carry a classified envelope
		if envErr == nil {
			switch st {
			case StatusAuthentication:
				return &domain.UpstreamError{Kind: domain.ErrAuthentication, Endpoint: endpoint, HTTPStatus: res.status, Status: st, Code: string(env.ErrorCode)}
			case StatusInsufficientData:
				return &domain.UpstreamError{Kind: domain.ErrInsufficientData, Endpoint: endpoint, HTTPStatus: res.status, Status: st, Code: string(env.ErrorCode)}
			}
		}
		return &domain.UpstreamError{
			Kind: domain.ErrUpstreamStatus, Endpoint: endpoint, HTTPStatus: res.status,
			Status: st, Code: string(env.ErrorCode), Err: fmt.Errorf("%s", snippet(res.body)),
		}
	}

	if envErr != nil {
		return &domain.UpstreamError{Kind: domain.ErrUpstreamStatus, Endpoint: endpoint, HTTPStatus: res.status, Err: fmt.Errorf("decode envelope: %w", envErr)}
	}
	switch st {
	case StatusOK, "":
	case StatusAuthentication:
		return &domain.UpstreamError{Kind: domain.ErrAuthentication, Endpoint: endpoint, HTTPStatus: res.status, Status: st, Code: string(env.ErrorCode)}
	case StatusInsufficientData:
		return &domain.UpstreamError{Kind: domain.ErrInsufficientData, Endpoint: endpoint, HTTPStatus: res.status, Status: st, Code: string(env.ErrorCode)}
	default:
		ue := &domain.UpstreamError{Kind: domain.ErrUpstreamStatus, Endpoint: endpoint, HTTPStatus: res.status, Status: st, Code: string(env.ErrorCode)}
		if env.ErrorMessage != "" {
			ue.Err = errors.New(string(env.ErrorMessage))
		}
		return ue
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return &domain.UpstreamError{Kind: domain.ErrUpstreamStatus, Endpoint: endpoint, HTTPStatus: res.status, Status: StatusOK, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}

// do sends the request. Only transport failures and 5xx responses are
// returned as errors, since those are what the breaker counts.
func (c *Client) do(ctx context.Context, path string, payload []byte) (rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+strings.TrimLeft(path, "/"), bytes.NewReader(payload))
	if err != nil {
		return rawResponse{}, &domain.UpstreamError{Kind: domain.ErrTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "charter-sync/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		return rawResponse{}, &domain.UpstreamError{Kind: domain.ErrTransport, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return rawResponse{status: resp.StatusCode}, &domain.UpstreamError{Kind: domain.ErrTransport, HTTPStatus: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= 500 {
		return rawResponse{status: resp.StatusCode, body: b}, &domain.UpstreamError{
			Kind: domain.ErrUpstreamStatus, HTTPStatus: resp.StatusCode, Err: fmt.Errorf("%s", snippet(b)),
		}
	}
	return rawResponse{status: resp.StatusCode, body: b}, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
