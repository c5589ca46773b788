package report

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kitportal/internal/events"
	"kitportal/internal/kit/domain"
	"kitportal/platform/apperr"
	"kitportal/platform/logger"
	"kitportal/platform/metrics"
)

const resourceReport = "report"

// Source is the report service as seen by Service.
type Source interface {
	GetHome(ctx context.Context, profileID, language, token string) (Overview, error)
	GetAntibody(ctx context.Context, kitID, token string) (Antibody, error)
	GetHeartHealth(ctx context.Context, kitID, token string) (HeartHealth, error)
	RequestPDF(ctx context.Context, profileID, token string) error
}

// Service keeps the reports of every session in step with its default kits.
// It listens for snapshot publications and only refetches a report when the
// kit behind it changed.
type Service struct {
	source   Source
	language string
	log      *logger.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	sessions map[uuid.UUID]*Set
}

// NewService creates a report service. language is used for the DNA home
// report; snapshot reports are always rendered in SnapshotLanguage.
func NewService(source Source, language string, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		source:   source,
		language: language,
		log:      log,
		metrics:  m,
		sessions: make(map[uuid.UUID]*Set),
	}
}

// RegisterHandlers subscribes to the kit events the service reacts to.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.DefaultKitsPublished{}.EventName(), s)
	bus.Subscribe(events.KitsReset{}.EventName(), s)
	bus.Subscribe(events.KitActivated{}.EventName(), s)
	bus.Subscribe(events.KitReplacementRequested{}.EventName(), s)
}

// Handle routes events to the appropriate handler method.
func (s *Service) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.DefaultKitsPublished:
		s.handlePublished(ctx, e)
	case events.KitsReset:
		s.handleReset(e)
	case events.KitActivated:
		s.handleActivated(e)
	case events.KitReplacementRequested:
		s.handleReplaced(e)
	}
	return nil
}

// Reports returns the report state of a session.
func (s *Service) Reports(sessionID uuid.UUID) Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.sessions[sessionID]; ok {
		return *set
	}
	return Set{}
}

// Forget drops the report state of a session.
func (s *Service) Forget(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// RequestPDF asks for the PDF of a profile's DNA report.
func (s *Service) RequestPDF(ctx context.Context, profileID, token string) error {
	if token == "" {
		return apperr.Unauthorized("not authorized").WithOp("report.RequestPDF")
	}
	if profileID == "" {
		return apperr.Validation("profile id is required").WithOp("report.RequestPDF")
	}
	if err := s.source.RequestPDF(ctx, profileID, token); err != nil {
		return apperr.Unexpected("failed to request report pdf", err).WithOp("report.RequestPDF")
	}
	return nil
}

func (s *Service) handleReset(e events.KitsReset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[e.SessionID]
	if ok && current.Generation > e.Generation {
		return
	}
	s.sessions[e.SessionID] = &Set{Generation: e.Generation}
}

// handleActivated drops the held DNA report of the profile the kit was linked
// to. The home report covers every kit of the profile, so the next snapshot
// refetches it.
func (s *Service) handleActivated(e events.KitActivated) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sessions[e.SessionID]
	if !ok || set.DNA == nil || set.DNA.ProfileID != e.ProfileID {
		return
	}
	set.DNA = nil
	set.DNAReady = false
	s.log.Info("report: DNA report invalidated by activation", "kit_id", e.KitID, "profile_id", e.ProfileID)
}

// handleReplaced drops any report still held for the rejected kit.
func (s *Service) handleReplaced(e events.KitReplacementRequested) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sessions[e.SessionID]
	if !ok {
		return
	}
	if set.DNA != nil && set.DNA.KitID == e.RejectedKitID {
		set.DNA, set.DNAReady = nil, false
	}
	if set.Antibody != nil && set.Antibody.KitID == e.RejectedKitID {
		set.Antibody, set.AntibodyReady = nil, false
	}
	if set.HeartHealth != nil && set.HeartHealth.KitID == e.RejectedKitID {
		set.HeartHealth, set.HeartHealthReady = nil, false
	}
}

// handlePublished reconciles a session's reports with a published snapshot.
// Publications can arrive out of order; anything older than what the session
// already saw is ignored, and results are dropped if a newer publication
// arrived while fetching.
func (s *Service) handlePublished(ctx context.Context, e events.DefaultKitsPublished) {
	s.mu.Lock()
	current, ok := s.sessions[e.SessionID]
	if ok && current.Generation >= e.Generation {
		s.mu.Unlock()
		return
	}
	var prev Set
	if ok {
		prev = *current
	}
	s.sessions[e.SessionID] = &Set{
		Generation:  e.Generation,
		DNA:         prev.DNA,
		Antibody:    prev.Antibody,
		HeartHealth: prev.HeartHealth,
	}
	s.mu.Unlock()

	next := Set{Generation: e.Generation, DNAReady: true, AntibodyReady: true, HeartHealthReady: true}

	var g errgroup.Group
	g.Go(func() error {
		next.DNA = s.reconcileDNA(ctx, e.DNA, prev.DNA, e.Token)
		return nil
	})
	g.Go(func() error {
		next.Antibody = s.reconcileAntibody(ctx, e.Antibody, prev.Antibody, e.Token)
		return nil
	})
	g.Go(func() error {
		next.HeartHealth = s.reconcileHeartHealth(ctx, e.HeartHealth, prev.HeartHealth, e.Token)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok = s.sessions[e.SessionID]
	if !ok || current.Generation != e.Generation {
		s.metrics.StaleDropped()
		return
	}
	// A held report dropped while fetching must not come back.
	if next.DNA != nil && next.DNA == prev.DNA && current.DNA == nil {
		next.DNA, next.DNAReady = nil, false
	}
	if next.Antibody != nil && next.Antibody == prev.Antibody && current.Antibody == nil {
		next.Antibody, next.AntibodyReady = nil, false
	}
	if next.HeartHealth != nil && next.HeartHealth == prev.HeartHealth && current.HeartHealth == nil {
		next.HeartHealth, next.HeartHealthReady = nil, false
	}
	s.sessions[e.SessionID] = &next
}

// reconcileDNA keeps the held report while the kit and its main-test
// definition are unchanged, since an upgrade changes the report content.
func (s *Service) reconcileDNA(ctx context.Context, kit *domain.DNAKit, held *DNAReport, token string) *DNAReport {
	if kit == nil || !kit.IsReportReady() {
		return nil
	}
	def, _ := kit.MainTestDefinition()
	if held != nil && held.KitID == kit.KitID && held.Definition == def {
		return held
	}

	overview, err := s.source.GetHome(ctx, kit.Profile, s.language, token)
	if err != nil {
		s.fetchFailed(kit.KitID, err)
		return nil
	}
	s.log.Info("report: loaded DNA report", "kit_id", kit.KitID, "profile_id", kit.Profile)
	return &DNAReport{KitID: kit.KitID, ProfileID: kit.Profile, Definition: def, Report: overview}
}

func (s *Service) reconcileAntibody(ctx context.Context, kit *domain.AntibodyKit, held *AntibodyReport, token string) *AntibodyReport {
	if kit == nil || !kit.IsReportReady() {
		return nil
	}
	if held != nil && held.KitID == kit.KitID {
		return held
	}

	r, err := s.source.GetAntibody(ctx, kit.KitID, token)
	if err != nil {
		s.fetchFailed(kit.KitID, err)
		return nil
	}
	return &AntibodyReport{KitID: kit.KitID, Report: r}
}

func (s *Service) reconcileHeartHealth(ctx context.Context, kit *domain.HeartHealthKit, held *HeartHealthReport, token string) *HeartHealthReport {
	if kit == nil || !kit.IsReportReady() {
		return nil
	}
	if held != nil && held.KitID == kit.KitID {
		return held
	}

	r, err := s.source.GetHeartHealth(ctx, kit.KitID, token)
	if err != nil {
		s.fetchFailed(kit.KitID, err)
		return nil
	}
	return &HeartHealthReport{KitID: kit.KitID, Report: r}
}

func (s *Service) fetchFailed(kitID string, err error) {
	s.log.FetchFailure(resourceReport, kitID, err)
	s.metrics.FetchFailed(resourceReport)
}
