package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/domain"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/engine"
	"github.com/Rcrowley-UVAgit/Validator-Tool/internal/obs"
)

// tickerRegex matches a ticker after upper-casing. Underscore and dot
// cover composite feed symbols like JP_CORP.
var tickerRegex = regexp.MustCompile(`^[A-Z0-9_.]{1,12}$`)

// SubmitOrderRequest represents the raw input for a locate request,
// before validation and normalization.
type SubmitOrderRequest struct {
	Ticker    string
	Quantity  int64
	Region    string
	PreBorrow bool
}

// LocateService validates locate requests and runs them through the
// gatekeeper. It is the only path that issues locates.
type LocateService struct {
	gatekeeper *engine.Gatekeeper
	webhookSvc *WebhookService
	metrics    *obs.Metrics
}

// NewLocateService creates a LocateService. webhookSvc and metrics may
// be nil; both are optional sinks.
func NewLocateService(gatekeeper *engine.Gatekeeper, webhookSvc *WebhookService, metrics *obs.Metrics) *LocateService {
	return &LocateService{
		gatekeeper: gatekeeper,
		webhookSvc: webhookSvc,
		metrics:    metrics,
	}
}

// Submit validates the request, case-normalizes the ticker, and runs the
// gatekeeper pass. Validation failures return *domain.ValidationError;
// business rejections come back inside the Outcome; a non-nil error
// otherwise is an internal fault.
func (s *LocateService) Submit(req SubmitOrderRequest) (*domain.Outcome, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if !tickerRegex.MatchString(ticker) {
		return nil, &domain.ValidationError{
			Message: "ticker must match ^[A-Z0-9_.]{1,12}$ after upper-casing",
		}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{
			Message: "quantity must be a positive integer",
		}
	}
	region, ok := domain.ParseRegion(req.Region)
	if !ok {
		return nil, &domain.ValidationError{
			Message: "region must be one of: US, JP",
		}
	}

	start := time.Now()
	out, err := s.gatekeeper.ProcessOrder(domain.OrderRequest{
		Ticker:    ticker,
		Quantity:  req.Quantity,
		Region:    region,
		PreBorrow: req.PreBorrow,
	})
	if err != nil {
		return nil, err
	}

	code := ""
	if !out.Passed {
		code = string(out.Rejection.Code)
	}
	s.metrics.ObserveOutcome(out.Passed, code, req.Quantity, float64(time.Since(start).Microseconds())/1000)

	if out.Passed && s.webhookSvc != nil {
		s.webhookSvc.DispatchLocateIssued(ticker, req.Quantity, out)
	}

	return out, nil
}
