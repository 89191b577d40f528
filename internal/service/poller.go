package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kle310/EV-ChargeMate/internal/analytics"
	"github.com/kle310/EV-ChargeMate/internal/api/chargepoint"
	"github.com/kle310/EV-ChargeMate/internal/cache"
	"github.com/kle310/EV-ChargeMate/internal/config"
	"github.com/kle310/EV-ChargeMate/internal/models"
	"github.com/kle310/EV-ChargeMate/internal/repository"
	"github.com/kle310/EV-ChargeMate/internal/state"
	"github.com/kle310/EV-ChargeMate/pkg/ws"
)

const pruneInterval = 24 * time.Hour

// StatusChange websocket payload for a plug state transition.
type StatusChange struct {
	StationID string    `json:"station_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

// Poller drives the ingest loop: every interval it fetches each active
// station's port readings from the vendor, arbitrates them down to one status
// per station, writes the cycle atomically, and feeds the state machines.
type Poller struct {
	cfg          *config.Config
	logger       *zap.Logger
	client       *chargepoint.Client
	stationRepo  *repository.StationRepository
	statusRepo   *repository.StatusRepository
	stateManager *state.Manager
	liveCache    *cache.LiveStatusStore
	hub          *ws.Hub

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	wg        sync.WaitGroup
	lastPrune time.Time
}

// NewPoller creates the poller.
func NewPoller(
	cfg *config.Config,
	logger *zap.Logger,
	client *chargepoint.Client,
	stationRepo *repository.StationRepository,
	statusRepo *repository.StatusRepository,
	liveCache *cache.LiveStatusStore,
	hub *ws.Hub,
) *Poller {
	p := &Poller{
		cfg:         cfg,
		logger:      logger,
		client:      client,
		stationRepo: stationRepo,
		statusRepo:  statusRepo,
		liveCache:   liveCache,
		hub:         hub,
		stopCh:      make(chan struct{}),
	}
	p.stateManager = state.NewManager(p.handleStateChange)
	return p
}

// States snapshots every tracked station's plug state, for the websocket
// init payload.
func (p *Poller) States() map[string]*state.PlugState {
	return p.stateManager.GetAllStates()
}

// Start launches the polling loop. The first cycle runs immediately.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(ctx)
	p.logger.Info("Status poller started", zap.Duration("interval", p.cfg.PollInterval))
}

// Stop halts the loop and waits for the in-flight cycle to finish.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Status poller stopped")
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.runCycle(ctx)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.runCycle(ctx)
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runCycle polls every active station once. Per-station failures are logged
// and skipped so one broken station never stalls the cycle; the surviving
// samples are committed in a single transaction.
func (p *Poller) runCycle(ctx context.Context) {
	start := time.Now()

	stations, err := p.stationRepo.ListActive(ctx)
	if err != nil {
		p.logger.Error("Failed to list active stations", zap.Error(err))
		return
	}

	var records []models.StatusRecord
	for i, station := range stations {
		if i > 0 {
			select {
			case <-time.After(p.cfg.PollStationDelay):
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}

		rec, ok := p.pollStation(ctx, station.StationID)
		if !ok {
			continue
		}
		records = append(records, rec)
	}

	if err := p.statusRepo.InsertCycle(ctx, records); err != nil {
		p.logger.Error("Failed to persist poll cycle", zap.Error(err), zap.Int("records", len(records)))
		return
	}

	p.logger.Info("Poll cycle complete",
		zap.Int("stations", len(stations)),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(start)))

	p.maybePrune(ctx)
}

// pollStation fetches and arbitrates one station's ports, feeding the result
// into its state machine. The second return is false when the station
// produced no usable sample this cycle.
func (p *Poller) pollStation(ctx context.Context, stationID string) (models.StatusRecord, bool) {
	readings, err := p.client.FetchPortReadings(ctx, stationID)
	if err != nil {
		p.logger.Warn("Failed to fetch station", zap.Error(err), zap.String("station_id", stationID))
		return models.StatusRecord{}, false
	}

	reading, ok := analytics.ArbitratePorts(readings)
	if !ok {
		p.logger.Debug("No usable ports reported", zap.String("station_id", stationID))
		return models.StatusRecord{}, false
	}

	rec := models.StatusRecord{
		StationID:  stationID,
		Status:     reading.OcppStatus,
		RecordedAt: time.Now(),
	}
	if reading.PlugType != "" {
		plugType := reading.PlugType
		rec.PlugType = &plugType
	}

	machine := p.stateManager.GetOrCreate(stationID, "")
	if err := machine.Observe(rec.Status, rec.PlugType, rec.RecordedAt); err != nil {
		p.logger.Warn("State machine rejected sample",
			zap.Error(err),
			zap.String("station_id", stationID),
			zap.String("status", string(rec.Status)))
	}

	return rec, true
}

// handleStateChange fires on genuine plug state transitions: invalidate the
// cached live status and push the change to websocket clients.
func (p *Poller) handleStateChange(stationID, from, to string) {
	p.logger.Info("Station state changed",
		zap.String("station_id", stationID),
		zap.String("from", from),
		zap.String("to", to))

	if p.liveCache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := p.liveCache.Delete(ctx, stationID); err != nil {
			p.logger.Warn("Failed to invalidate live status cache", zap.Error(err), zap.String("station_id", stationID))
		}
	}

	if p.hub != nil {
		p.hub.BroadcastStatusUpdate(StatusChange{
			StationID: stationID,
			From:      from,
			To:        to,
			ChangedAt: time.Now(),
		})
	}
}

// maybePrune drops samples past the retention horizon, at most once per
// pruneInterval.
func (p *Poller) maybePrune(ctx context.Context) {
	if p.cfg.SampleRetention <= 0 {
		return
	}

	p.mu.Lock()
	due := time.Since(p.lastPrune) >= pruneInterval
	if due {
		p.lastPrune = time.Now()
	}
	p.mu.Unlock()
	if !due {
		return
	}

	pruned, err := p.statusRepo.PruneOlderThan(ctx, p.cfg.SampleRetention)
	if err != nil {
		p.logger.Error("Failed to prune old samples", zap.Error(err))
		return
	}
	p.logger.Info("Pruned old samples",
		zap.Int64("rows", pruned),
		zap.Duration("retention", p.cfg.SampleRetention))
}
