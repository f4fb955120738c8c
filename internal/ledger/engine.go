package ledger

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// FundingPolicy decides how a purchase without a funding wallet is priced.
type FundingPolicy string

const (
	// FundingManualRate uses the supplied rate, or the fallback rate when it is missing or not positive.
	FundingManualRate FundingPolicy = "manual_rate"
	// FundingStrictRate requires a positive supplied rate.
	FundingStrictRate FundingPolicy = "strict_rate"
	// FundingReject refuses purchases without a funding wallet.
	FundingReject FundingPolicy = "reject"
)

// ProceedsPolicy decides which USD wallet receives sale proceeds.
type ProceedsPolicy string

const (
	// ProceedsSoleUSDWallet merges into the USD wallet when exactly one exists, else opens a new wallet.
	ProceedsSoleUSDWallet ProceedsPolicy = "sole_usd_wallet"
	// ProceedsFirstUSDWallet merges into the first USD wallet in list order.
	ProceedsFirstUSDWallet ProceedsPolicy = "first_usd_wallet"
	// ProceedsNewWallet always opens a new wallet per sale.
	ProceedsNewWallet ProceedsPolicy = "new_wallet"
)

// DefaultFallbackRate is the THB-per-USD rate used when a manual rate is unusable.
var DefaultFallbackRate = decimal.NewFromInt(35)

// Policy groups the configurable behaviours of the engine.
type Policy struct {
	ExternalFunding FundingPolicy
	FallbackRate    decimal.Decimal
	Proceeds        ProceedsPolicy
}

// DefaultPolicy returns the manual-rate, sole-wallet policy.
func DefaultPolicy() Policy {
	return Policy{
		ExternalFunding: FundingManualRate,
		FallbackRate:    DefaultFallbackRate,
		Proceeds:        ProceedsSoleUSDWallet,
	}
}

// ParseFundingPolicy returns the policy named s, or false if s is unknown.
func ParseFundingPolicy(s string) (FundingPolicy, bool) {
	switch p := FundingPolicy(s); p {
	case FundingManualRate, FundingStrictRate, FundingReject:
		return p, true
	}
	return "", false
}

// ParseProceedsPolicy returns the policy named s, or false if s is unknown.
func ParseProceedsPolicy(s string) (ProceedsPolicy, bool) {
	switch p := ProceedsPolicy(s); p {
	case ProceedsSoleUSDWallet, ProceedsFirstUSDWallet, ProceedsNewWallet:
		return p, true
	}
	return "", false
}

// IDSource allocates identifiers for new assets.
type IDSource interface {
	NextID() int64
}

// ClockIDs allocates millisecond timestamps, bumped so that ids are strictly
// increasing within the process.
type ClockIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewClockIDs returns a clock-backed IDSource.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{now: time.Now}
}

// NextID implements IDSource.
func (c *ClockIDs) NextID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Engine applies ledger operations under a Policy.
type Engine struct {
	policy Policy
	ids    IDSource
}

// NewEngine creates an engine. A nil IDSource uses the clock.
func NewEngine(policy Policy, ids IDSource) *Engine {
	if ids == nil {
		ids = NewClockIDs()
	}
	if policy.ExternalFunding == "" {
		policy.ExternalFunding = FundingManualRate
	}
	if policy.Proceeds == "" {
		policy.Proceeds = ProceedsSoleUSDWallet
	}
	if !policy.FallbackRate.IsPositive() {
		policy.FallbackRate = DefaultFallbackRate
	}
	return &Engine{policy: policy, ids: ids}
}

// Policy returns the engine's effective policy.
func (e *Engine) Policy() Policy { return e.policy }

// newID returns an id not used in assets.
func (e *Engine) newID(assets []Asset) int64 {
	for {
		id := e.ids.NextID()
		if Find(assets, id) < 0 {
			return id
		}
	}
}

func (e *Engine) newWallet(assets []Asset, name string, cur Currency, qty, rate decimal.Decimal) Asset {
	return Asset{
		ID:           e.newID(assets),
		Name:         name,
		Symbol:       string(cur),
		Category:     CategoryWallet,
		Currency:     cur,
		Type:         "Cash",
		Quantity:     qty,
		Price:        decimal.NewFromInt(1),
		ExchangeRate: rate,
	}
}
