package reconcile

import (
	"context"
	"sort"
	"strings"
	"time"

	"taruvae-orders/internal/models"
	"taruvae-orders/internal/util"

	"go.uber.org/zap"
)

// RemoteSource is the authoritative multi-device order store.
type RemoteSource interface {
	GetAllOrders(ctx context.Context) ([]models.Order, error)
}

// LocalSource is the device-local fallback copy of orders. Reads must
// not fail: corrupt or missing data yields an empty slice.
type LocalSource interface {
	ReadOrders() []models.Order
}

// Identity is the requesting user. At least one of ID or Email is
// expected to be meaningful; the caller ensures that.
type Identity struct {
	ID    string
	Email string
}

// Result is the outcome of one reconciliation pass. Partial is set
// when the remote store timed out or errored and the list was built
// from the local cache alone.
type Result struct {
	Orders  []models.Order
	Partial bool
}

// Reconciler merges the remote and local order sources into one
// de-duplicated, owner-filtered, date-sorted list. It never returns
// an error: every failure degrades to the best available partial
// result, down to an empty list.
type Reconciler struct {
	remote  RemoteSource
	local   LocalSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewReconciler creates a reconciler. timeout bounds the remote fetch.
func NewReconciler(remote RemoteSource, local LocalSource, timeout time.Duration) *Reconciler {
	return &Reconciler{
		remote:  remote,
		local:   local,
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

// Reconcile returns the requesting user's orders: remote and local
// records merged by order id, filtered by ownership, defaulted,
// de-duplicated and sorted by order date descending.
func (r *Reconciler) Reconcile(ctx context.Context, user Identity) Result {
	ctx, span := util.StartSpan(ctx, "Reconciler.Reconcile")
	defer span.End()

	util.ReconcileRunsTotal.Inc()
	start := time.Now()
	defer func() {
		util.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	remote, ok := r.fetchRemote(ctx)
	local := r.local.ReadOrders()

	merged := mergeByID(remote, local)
	owned := filterOwned(merged, user)
	for i := range owned {
		Normalize(&owned[i])
	}
	owned = dedupeByID(owned)
	sortByDateDesc(owned)

	util.OrdersReconciledTotal.Add(float64(len(owned)))
	r.logger.Debug("Reconciled orders",
		zap.Int("remote", len(remote)),
		zap.Int("local", len(local)),
		zap.Int("returned", len(owned)),
		zap.Bool("partial", !ok))

	return Result{Orders: owned, Partial: !ok}
}

// ReconcileAll is the admin variant: same merge, defaulting, dedupe
// and sort, but no ownership filter.
func (r *Reconciler) ReconcileAll(ctx context.Context) Result {
	ctx, span := util.StartSpan(ctx, "Reconciler.ReconcileAll")
	defer span.End()

	remote, ok := r.fetchRemote(ctx)
	local := r.local.ReadOrders()

	merged := mergeByID(remote, local)
	for i := range merged {
		Normalize(&merged[i])
	}
	merged = dedupeByID(merged)
	sortByDateDesc(merged)

	return Result{Orders: merged, Partial: !ok}
}

// fetchRemote fetches the remote store within the configured budget.
// Timeout or error degrades to an empty set; ok reports whether the
// remote result is trustworthy. The fetch goroutine writes only to
// its own channel, so an abandoned fetch mutates no shared state.
func (r *Reconciler) fetchRemote(ctx context.Context) ([]models.Order, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type fetchResult struct {
		orders []models.Order
		err    error
	}
	ch := make(chan fetchResult, 1)
	go func() {
		orders, err := r.remote.GetAllOrders(ctx)
		ch <- fetchResult{orders, err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			util.ReconcilePartialTotal.WithLabelValues("remote_error").Inc()
			r.logger.Warn("Remote order fetch failed, using local cache only",
				zap.Error(res.err))
			return nil, false
		}
		return res.orders, true
	case <-ctx.Done():
		util.ReconcilePartialTotal.WithLabelValues("remote_timeout").Inc()
		r.logger.Warn("Remote order fetch timed out, using local cache only",
			zap.Duration("timeout", r.timeout))
		return nil, false
	}
}

// resolveConflict picks the surviving record when remote and local
// carry the same order id. Local wins: it reflects the device's most
// recent action. Remote is the multi-device authoritative source, so
// this precedence is a carried-over product decision, not a verdict;
// flip it here if that ever changes.
func resolveConflict(remote, local models.Order) models.Order {
	_ = remote
	return local
}

// mergeByID merges the two sources by order id. Remote records are
// inserted first; local records overwrite on collision and append
// otherwise. Relative input order is preserved for the later stable
// sort.
func mergeByID(remote, local []models.Order) []models.Order {
	merged := make([]models.Order, 0, len(remote)+len(local))
	index := make(map[string]int, len(remote))

	for _, o := range remote {
		if _, seen := index[o.OrderID]; seen {
			continue
		}
		index[o.OrderID] = len(merged)
		merged = append(merged, o)
	}
	for _, o := range local {
		if i, seen := index[o.OrderID]; seen {
			merged[i] = resolveConflict(merged[i], o)
			continue
		}
		index[o.OrderID] = len(merged)
		merged = append(merged, o)
	}
	return merged
}

// NormalizeEmail lower-cases and trims an email for comparison
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// filterOwned keeps orders attributable to user. A record with no
// customer email is dropped unconditionally: ownership cannot be
// proven for it.
func filterOwned(orders []models.Order, user Identity) []models.Order {
	userEmail := NormalizeEmail(user.Email)

	owned := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Customer == nil || NormalizeEmail(o.Customer.Email) == "" {
			util.OrdersDroppedOwnerless.Inc()
			continue
		}
		if ownedBy(o, user.ID, userEmail) {
			owned = append(owned, o)
		}
	}
	return owned
}

func ownedBy(o models.Order, userID, userEmail string) bool {
	if userID != "" && o.UserID == userID {
		return true
	}
	if userEmail != "" {
		// Legacy records sometimes hold an email in userId.
		if NormalizeEmail(o.UserID) == userEmail {
			return true
		}
		if NormalizeEmail(o.Customer.Email) == userEmail {
			return true
		}
	}
	if o.Owner != nil {
		switch o.Owner.Kind {
		case models.OwnerByID:
			return userID != "" && o.Owner.Value == userID
		case models.OwnerByEmail:
			return userEmail != "" && NormalizeEmail(o.Owner.Value) == userEmail
		}
	}
	return false
}

// Normalize fills the read-time defaults on a raw order record:
// status, tracking number and status history. The defaults are never
// written back to either store.
func Normalize(o *models.Order) {
	if o.Status == "" {
		o.Status = models.StatusConfirmed
	}
	if o.TrackingNumber == "" {
		o.TrackingNumber = "TRK" + strings.TrimPrefix(o.OrderID, "ORD-")
	}
	if len(o.StatusHistory) == 0 {
		o.StatusHistory = []models.StatusEntry{{
			Status:  models.StatusConfirmed,
			Date:    o.OrderDate,
			Message: "Order confirmed and payment received",
		}}
	}
}

// dedupeByID drops later duplicates, keeping the first occurrence.
// The merge already guarantees uniqueness; this is the second line of
// defense the pipeline promises.
func dedupeByID(orders []models.Order) []models.Order {
	seen := make(map[string]struct{}, len(orders))
	out := orders[:0]
	for _, o := range orders {
		if _, dup := seen[o.OrderID]; dup {
			continue
		}
		seen[o.OrderID] = struct{}{}
		out = append(out, o)
	}
	return out
}

var orderDateFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOrderDate parses the ISO-ish order date strings the stores
// hold. Unparseable dates return the zero time.
func ParseOrderDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range orderDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sortByDateDesc sorts newest-first. The sort is stable so records
// with equal (or unparseable) dates keep their merge order.
func sortByDateDesc(orders []models.Order) {
	keys := make(map[string]time.Time, len(orders))
	for _, o := range orders {
		if _, ok := keys[o.OrderID]; !ok {
			keys[o.OrderID] = ParseOrderDate(o.OrderDate)
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return keys[orders[i].OrderID].After(keys[orders[j].OrderID])
	})
}
