package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kitportal/internal/booking"
	"kitportal/internal/checkout"
	"kitportal/internal/events"
	"kitportal/internal/kit/domain"
	"kitportal/platform/apperr"
	"kitportal/platform/logger"
	"kitportal/platform/metrics"
	"kitportal/platform/sanitize"
	"kitportal/platform/validator"
)

// Deps are the collaborators of a Controller.
type Deps struct {
	Kits         KitSource
	Bookings     BookingSource
	Replacements ReplacementOrderer
	Pricing      PricingSource
	Bus          events.Bus
	Metrics      *metrics.Metrics
	Validator    *validator.Validator
	Log          *logger.Logger
	ProductLine  string
}

// Controller owns the kit state of one session. The token and the active
// profile are pushed in by the caller; nothing is read from ambient state.
//
// Two counters order concurrent work. fetchSeq identifies the latest kit list
// fetch, generation the latest default-kit computation. Work that finds its
// counter superseded when it resumes drops its result.
type Controller struct {
	id   uuid.UUID
	deps Deps
	log  *logger.Logger

	mu         sync.Mutex
	token      string
	authReady  bool
	profile    *domain.Profile
	kits       []domain.Kit
	kitsLoaded bool
	defaults   DefaultKits
	state      State
	refreshing bool
	fetchSeq   uint64
	generation uint64
	published  uint64

	// shownProfile is the profile the published defaults were computed for.
	shownProfile string
	hasShown     bool

	diags diagnostics
}

// New creates a controller for the session id.
func New(id uuid.UUID, deps Deps) *Controller {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Bus == nil {
		deps.Bus = events.NewInMemoryBus(deps.Log)
	}
	return &Controller{
		id:    id,
		deps:  deps,
		log:   deps.Log.WithSession(id.String()),
		state: StateUninitialized,
	}
}

// ID returns the session id.
func (c *Controller) ID() uuid.UUID {
	return c.id
}

// SetAuth pushes the auth state. The first token seen while ready triggers a
// kit fetch and an empty token while ready logs the session out. A changed
// token clears everything loaded under the previous one before refetching, so
// nothing fetched with one token is ever served under another.
func (c *Controller) SetAuth(ctx context.Context, token string, ready bool) {
	c.mu.Lock()
	prev := c.token
	c.token = token
	c.authReady = ready

	if prev != "" && token != prev {
		c.resetLocked()
		if !ready {
			c.state = StateUninitialized
		}
		gen := c.generation
		c.mu.Unlock()

		c.diags.reset()
		if token == "" {
			c.log.Info("kit: session logged out")
		} else {
			c.log.Info("kit: token changed, kit state cleared")
		}
		_ = c.deps.Bus.PublishSync(ctx, events.KitsReset{BaseEvent: events.NewBaseEvent(), SessionID: c.id, Generation: gen})
		c.mu.Lock()
	}

	if !ready {
		c.mu.Unlock()
		return
	}
	if token == "" {
		if prev == "" {
			c.resetLocked()
		}
		c.mu.Unlock()
		return
	}
	if token == prev && c.state != StateUninitialized {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	_ = c.RefreshKits(ctx)
}

// SetProfile switches the active profile. Default kits are recomputed from the
// kit list already held; the list is not refetched.
func (c *Controller) SetProfile(ctx context.Context, profile domain.Profile) {
	c.mu.Lock()
	if c.profile != nil && c.profile.ProfileID == profile.ProfileID {
		c.profile = &profile
		c.mu.Unlock()
		return
	}
	c.profile = &profile
	c.mu.Unlock()

	c.log.Info("kit: profile switched", "profile_id", profile.ProfileID)
	c.recompute(ctx)
}

// RefreshKits refetches the kit list and then recomputes the default kits. A
// failed fetch is recorded as a diagnostic and leaves the previous list in
// place; the first failed fetch leaves the session ready with no kits.
func (c *Controller) RefreshKits(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	if !c.authReady || token == "" {
		c.mu.Unlock()
		return errNotAuthorized("kit.RefreshKits")
	}
	c.fetchSeq++
	seq := c.fetchSeq
	c.refreshing = true
	if !c.kitsLoaded {
		c.state = StateLoading
	}
	c.mu.Unlock()

	outcome := query(resourceKits, "", func() ([]domain.Kit, error) {
		return c.deps.Kits.GetKits(ctx, c.deps.ProductLine, token)
	})
	kits := degrade(c, outcome, nil)
	if outcome.OK() {
		c.deps.Metrics.KitListFetched("ok")
	} else {
		c.deps.Metrics.KitListFetched("error")
	}

	c.mu.Lock()
	if seq != c.fetchSeq {
		c.mu.Unlock()
		c.deps.Metrics.StaleDropped()
		c.log.Info("kit: dropping superseded kit list")
		return nil
	}
	c.refreshing = false
	if !outcome.OK() {
		if !c.kitsLoaded {
			c.kits = []domain.Kit{}
			c.kitsLoaded = true
			c.state = StateReadyEmpty
		}
		c.mu.Unlock()
		return nil
	}
	c.kits = kits
	c.kitsLoaded = true
	c.mu.Unlock()

	c.log.Info("kit: kit list refreshed", "count", len(kits))
	c.recompute(ctx)
	return nil
}

// recompute derives the default kits for the current profile and publishes
// them as one snapshot unless a newer computation started in the meantime.
func (c *Controller) recompute(ctx context.Context) {
	c.mu.Lock()
	if !c.kitsLoaded || c.token == "" {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	kits, profile, token := c.kits, c.profile, c.token
	c.mu.Unlock()

	defaults := c.computeDefaults(ctx, kits, profile, token)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.deps.Metrics.StaleDropped()
		c.log.Info("kit: dropping stale default kits", "generation", gen)
		return
	}
	c.defaults = defaults
	c.published = gen
	c.hasShown = true
	c.shownProfile = ""
	if profile != nil {
		c.shownProfile = profile.ProfileID
	}
	if len(c.kits) == 0 {
		c.state = StateReadyEmpty
	} else {
		c.state = StateReadyPopulated
	}
	evt := events.DefaultKitsPublished{
		BaseEvent:   events.NewBaseEvent(),
		SessionID:   c.id,
		Generation:  gen,
		Token:       token,
		DNA:         defaults.DNA,
		Antibody:    defaults.Antibody,
		HeartHealth: defaults.HeartHealth,
	}
	if profile != nil {
		evt.ProfileID = profile.ProfileID
	}
	c.mu.Unlock()

	c.deps.Metrics.SnapshotPublished()
	c.deps.Bus.Publish(ctx, evt)
}

// computeDefaults picks the latest kit per product line for profile. The
// antibody kit additionally gets its booking and metadata, fetched
// concurrently; either may fail without affecting the other.
func (c *Controller) computeDefaults(ctx context.Context, kits []domain.Kit, profile *domain.Profile, token string) DefaultKits {
	var d DefaultKits
	if profile == nil {
		return d
	}

	if k, ok := domain.FindLatestKit(kits, profile.ProfileID, domain.DefinitionsFor(domain.LineDNA)); ok {
		d.DNA = domain.NewDNAKit(k)
	}
	if k, ok := domain.FindLatestKit(kits, profile.ProfileID, domain.DefinitionsFor(domain.LineHeartHealth)); ok {
		heart := domain.NewHeartHealthKit(k)
		heart.Questionnaire = profile.Questionnaire
		d.HeartHealth = heart
	}
	if k, ok := domain.FindLatestKit(kits, profile.ProfileID, domain.DefinitionsFor(domain.LineAntibody)); ok {
		d.Antibody = c.loadAntibodyKit(ctx, k, token)
	}
	return d
}

func (c *Controller) loadAntibodyKit(ctx context.Context, k domain.Kit, token string) *domain.AntibodyKit {
	kit := domain.NewAntibodyKit(k)

	var (
		bookings Outcome[[]booking.Booking]
		metadata Outcome[[]domain.Metadata]
		g        errgroup.Group
	)
	g.Go(func() error {
		bookings = query(resourceBooking, k.KitID, func() ([]booking.Booking, error) {
			return c.deps.Bookings.GetBookings(ctx, k.KitID, token)
		})
		return nil
	})
	g.Go(func() error {
		metadata = query(resourceMetadata, k.KitID, func() ([]domain.Metadata, error) {
			return c.deps.Kits.GetMetadata(ctx, k.KitID, token)
		})
		return nil
	})
	_ = g.Wait()

	if b, ok := booking.First(degrade(c, bookings, nil)); ok {
		kit.Booking = b
	}
	kit.Metadata = degrade(c, metadata, nil)
	return kit
}

// degrade records a failed query and substitutes fallback.
func degrade[T any](c *Controller, o Outcome[T], fallback T) T {
	if o.Diag != nil {
		c.log.FetchFailure(o.Diag.Resource, o.Diag.KitID, o.Diag.Err)
		c.deps.Metrics.FetchFailed(o.Diag.Resource)
		c.diags.add(*o.Diag)
	}
	return o.Or(fallback)
}

// resetLocked clears all kit state. Bumping both counters invalidates any
// fetch or computation still in flight.
func (c *Controller) resetLocked() {
	c.kits = nil
	c.kitsLoaded = false
	c.defaults = DefaultKits{}
	c.hasShown = false
	c.shownProfile = ""
	c.refreshing = false
	c.fetchSeq++
	c.generation++
	c.published = c.generation
	c.state = StateReadyEmpty
}

// Snapshot returns the current state. ProfileID names the profile Defaults
// belong to, which lags a profile switch until its computation is published.
// Kit variants in Defaults are shared and must be treated as read-only.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	kits := make([]domain.Kit, len(c.kits))
	copy(kits, c.kits)
	snap := Snapshot{
		State:      c.state,
		Ready:      c.state.ready(),
		Refreshing: c.refreshing,
		Generation: c.published,
		Kits:       kits,
		Defaults:   c.defaults,
	}
	switch {
	case c.hasShown:
		snap.ProfileID = c.shownProfile
	case c.profile != nil:
		snap.ProfileID = c.profile.ProfileID
	}
	return snap
}

// Diagnostics returns the most recent degraded queries.
func (c *Controller) Diagnostics() []Diagnostic {
	return c.diags.list()
}

// ActivateBarcode links a kit to a profile, then refreshes the kit list before
// returning.
func (c *Controller) ActivateBarcode(ctx context.Context, barcode, profileID string) (domain.ActivatedKit, error) {
	token := c.currentToken()
	if token == "" {
		return domain.ActivatedKit{}, errNotAuthorized("kit.ActivateBarcode")
	}
	barcode = strings.TrimSpace(barcode)
	if profileID == "" {
		return domain.ActivatedKit{}, apperr.Validation("profile id is required").WithOp("kit.ActivateBarcode")
	}
	if !domain.IsValidBarcode(barcode) {
		return domain.ActivatedKit{}, invalidBarcode(barcode, profileID)
	}

	activated, err := c.deps.Kits.ActivateBarcode(ctx, profileID, barcode, token)
	if err != nil {
		c.log.Warn("kit: activation failed", "barcode", barcode, "profile_id", profileID, "error", err)
		return domain.ActivatedKit{}, newActivationError(barcode, profileID, err)
	}

	c.log.Info("kit: barcode activated", "kit_id", activated.KitID, "profile_id", profileID)
	_ = c.deps.Bus.PublishSync(ctx, events.KitActivated{
		BaseEvent: events.NewBaseEvent(),
		SessionID: c.id,
		KitID:     activated.KitID,
		Barcode:   activated.Barcode,
		ProfileID: profileID,
	})

	_ = c.RefreshKits(ctx)
	return activated, nil
}

// RequestReplacement orders a replacement for a rejected kit and refreshes the
// kit list before returning the new kit id.
func (c *Controller) RequestReplacement(ctx context.Context, kitID string, customer checkout.Customer, language string) (string, error) {
	token := c.currentToken()
	if token == "" {
		return "", errNotAuthorized("kit.RequestReplacement")
	}
	kit, ok := c.findKit(kitID)
	if !ok {
		return "", apperr.NotFound("kit not found").WithOp("kit.RequestReplacement")
	}
	if kit.Status != domain.KitStatusRejected {
		return "", apperr.Validation("only rejected kits can be replaced").WithOp("kit.RequestReplacement")
	}

	req := checkout.ReplacementRequest{
		Customer: customer.Normalized(),
		Language: language,
		KitID:    kit.KitID,
	}
	if err := c.deps.Validator.Struct(req); err != nil {
		return "", apperr.Validation("Invalid info").WithOp("kit.RequestReplacement").WithDetails(err.Error())
	}

	newKitID, err := c.deps.Replacements.PostKitReplacementRequest(ctx, req, token)
	if err != nil {
		c.log.Warn("kit: replacement request failed", "kit_id", kitID, "error", err)
		return "", replacementError(err)
	}

	c.log.Info("kit: replacement requested", "kit_id", kitID, "replacement_kit_id", newKitID)
	_ = c.deps.Bus.PublishSync(ctx, events.KitReplacementRequested{
		BaseEvent:      events.NewBaseEvent(),
		SessionID:      c.id,
		RejectedKitID:  kitID,
		ReplacementKit: newKitID,
	})

	_ = c.RefreshKits(ctx)
	return newKitID, nil
}

// AddMetadata attaches metadata to a kit and refreshes the kit list.
func (c *Controller) AddMetadata(ctx context.Context, kitID string, metadataType domain.MetadataType, content string) (domain.Metadata, error) {
	token := c.currentToken()
	if token == "" {
		return domain.Metadata{}, errNotAuthorized("kit.AddMetadata")
	}
	if kitID == "" || !metadataType.IsValid() {
		return domain.Metadata{}, apperr.Validation("kit id and a known metadata type are required").WithOp("kit.AddMetadata")
	}
	// Comments are customer free text; the other types carry machine values.
	if metadataType == domain.MetadataComment {
		content = sanitize.Text(content)
		if content == "" {
			return domain.Metadata{}, apperr.Validation("comment is empty").WithOp("kit.AddMetadata")
		}
	}

	created, err := c.deps.Kits.AddMetadata(ctx, kitID, metadataType, content, token)
	if err != nil {
		c.log.Warn("kit: add metadata failed", "kit_id", kitID, "type", metadataType, "error", err)
		return domain.Metadata{}, metadataError(err)
	}

	_ = c.RefreshKits(ctx)
	return created, nil
}

// UpgradeOffer is an upgrade target with its prices.
type UpgradeOffer struct {
	From    string                    `json:"from"`
	To      string                    `json:"to"`
	Pricing []checkout.UpgradePricing `json:"pricing"`
}

// UpgradePricing lists the upgrade targets of a DNA kit with their prices.
func (c *Controller) UpgradePricing(ctx context.Context, kitID string) ([]UpgradeOffer, error) {
	token := c.currentToken()
	if token == "" {
		return nil, errNotAuthorized("kit.UpgradePricing")
	}
	kit, ok := c.findKit(kitID)
	if !ok {
		return nil, apperr.NotFound("kit not found").WithOp("kit.UpgradePricing")
	}
	if line, _ := domain.DetectLine(kit); line != domain.LineDNA {
		return nil, apperr.Validation("only DNA kits can be upgraded").WithOp("kit.UpgradePricing")
	}

	dna := domain.NewDNAKit(kit)
	main, _ := dna.MainTest()
	options := dna.UpgradeOptions()
	offers := make([]UpgradeOffer, 0, len(options))
	if len(options) == 0 {
		return offers, nil
	}

	all, err := c.deps.Pricing.UpgradePricing(ctx, token, nil)
	if err != nil {
		return nil, apperr.Unexpected("failed to load upgrade pricing", err).WithOp("kit.UpgradePricing")
	}
	for _, to := range options {
		option := checkout.UpgradeOption{From: main.Name, To: to}
		offers = append(offers, UpgradeOffer{
			From:    option.From,
			To:      option.To,
			Pricing: checkout.FilterPricing(all, &option),
		})
	}
	return offers, nil
}

func (c *Controller) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Controller) findKit(kitID string) (domain.Kit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.kits {
		if k.KitID == kitID {
			return k, true
		}
	}
	return domain.Kit{}, false
}
