package game

import (
	"context"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"magnate/internal/events"
	"magnate/internal/gamelock"
)

// Service owns every game mutation. All writes for one game pass
// through the keyed lock, then the submission gate, then a single
// transaction; reads never take the lock.
type Service struct {
	db     *pgxpool.Pool
	log    *slog.Logger
	locks  *gamelock.Keyed
	events events.Publisher
	mu     sync.Mutex
	rand   *mathrand.Rand
	now    func() time.Time
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, locks *gamelock.Keyed, pub events.Publisher) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if locks == nil {
		locks = gamelock.New(gamelock.DefaultLease)
	}
	return &Service{
		db:     db,
		log:    logger,
		locks:  locks,
		events: pub,
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// withGameLock runs fn inside the game's lease and one transaction.
// The lease release is deferred so every exit path frees the game.
func (s *Service) withGameLock(ctx context.Context, gameID int64, fn func(tx pgx.Tx) error) error {
	lease, ok := s.locks.TryAcquire(gameID)
	if !ok {
		return fmt.Errorf("%w: another action is in flight for game %d", ErrGameBusy, gameID)
	}
	defer s.locks.Release(lease)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// publish attempts a state-change notification after the lock is gone.
// Delivery is best effort by contract.
func (s *Service) publish(gameID int64, typ string, payload map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{
		ID:      uuid.NewString(),
		GameID:  gameID,
		Type:    typ,
		At:      s.now(),
		Payload: payload,
	})
}

func (s *Service) rollProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RollResearchProgress(s.rand)
}

type admitted struct {
	SubmittedAt time.Time
	Phase       PhaseState
	Timerless   bool
}

// admitTx resolves actor and current phase inside the held lock and
// runs the gate. Must be called before any mutation of game state.
func (s *Service) admitTx(ctx context.Context, tx pgx.Tx, gameID, actorID int64, callerUserID string, targets []PhaseName) (admitted, error) {
	var out admitted

	var actorUser string
	err := tx.QueryRow(ctx, `
		SELECT user_id
		FROM game.players
		WHERE id = $1 AND game_id = $2
	`, actorID, gameID).Scan(&actorUser)
	if err != nil && err != pgx.ErrNoRows {
		return out, err
	}

	var timerless bool
	var status string
	if err := tx.QueryRow(ctx, `
		SELECT timerless, status
		FROM game.games
		WHERE id = $1
	`, gameID).Scan(&timerless, &status); err != nil {
		if err == pgx.ErrNoRows {
			return out, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		return out, err
	}

	phase, err := currentPhaseTx(ctx, tx, gameID)
	if err != nil {
		return out, err
	}

	stamp, err := Admit(GateInput{
		CallerUserID: callerUserID,
		ActorUserID:  actorUser,
		Timerless:    timerless,
		Phase:        phase,
		Targets:      targets,
		Now:          s.now(),
	})
	if err != nil {
		return out, err
	}
	out = admitted{SubmittedAt: stamp, Phase: *phase, Timerless: timerless}
	return out, nil
}

func currentPhaseTx(ctx context.Context, q querier, gameID int64) (*PhaseState, error) {
	var p PhaseState
	err := q.QueryRow(ctx, `
		SELECT ph.id, ph.game_turn_id, gt.seq, ph.name, ph.start_time, ph.allotted_ms
		FROM game.phases ph
		JOIN game.game_turns gt ON gt.id = ph.game_turn_id
		WHERE ph.game_id = $1 AND ph.is_current
	`, gameID).Scan(&p.ID, &p.TurnID, &p.TurnSeq, &p.Name, &p.StartTime, &p.AllottedMs)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type companyRow struct {
	ID          int64
	GameID      int64
	SectorID    int64
	CEOPlayerID *int64
	Name        string
	Cash        int64
	Status      CompanyStatus
	Brand       int64
	Workers     int64
}

func lockCompanyTx(ctx context.Context, tx pgx.Tx, companyID, gameID int64) (companyRow, error) {
	var co companyRow
	err := tx.QueryRow(ctx, `
		SELECT id, game_id, sector_id, ceo_player_id, name, cash, status, brand, workers
		FROM game.companies
		WHERE id = $1 AND game_id = $2
		FOR UPDATE
	`, companyID, gameID).Scan(&co.ID, &co.GameID, &co.SectorID, &co.CEOPlayerID, &co.Name, &co.Cash, &co.Status, &co.Brand, &co.Workers)
	if err == pgx.ErrNoRows {
		return co, fmt.Errorf("%w: company %d", ErrNotFound, companyID)
	}
	return co, err
}

// requireCEO enforces company-scoped authorization: only the CEO actor
// submits for a company.
func requireCEO(co companyRow, actorID int64) error {
	if co.CEOPlayerID == nil || *co.CEOPlayerID != actorID {
		return fmt.Errorf("%w: actor %d is not the CEO of company %d", ErrUnauthorized, actorID, co.ID)
	}
	if co.Status != CompanyActive {
		return fmt.Errorf("%w: company %d status is %s", ErrCompanyNotActive, co.ID, co.Status)
	}
	return nil
}

type sectorRow struct {
	ID             int64
	Name           string
	UnitPrice      int64
	Salary         int64
	ResearchMarker int
	BaseDemand     int64
}

func sectorTx(ctx context.Context, q querier, sectorID int64) (sectorRow, error) {
	var sec sectorRow
	err := q.QueryRow(ctx, `
		SELECT id, name, unit_price, salary, research_marker, base_demand
		FROM game.sectors
		WHERE id = $1
	`, sectorID).Scan(&sec.ID, &sec.Name, &sec.UnitPrice, &sec.Salary, &sec.ResearchMarker, &sec.BaseDemand)
	if err == pgx.ErrNoRows {
		return sec, fmt.Errorf("%w: sector %d", ErrNotFound, sectorID)
	}
	return sec, err
}

// trackForTypeTx resolves the track a blueprint resource prices from:
// the sector-bound track when one exists, else the global one.
func trackForTypeTx(ctx context.Context, q querier, gameID, sectorID int64, resourceType string) (ResourceTrack, error) {
	var t ResourceTrack
	var sid *int64
	err := q.QueryRow(ctx, `
		SELECT id, resource_type, scope, sector_id, prices, position
		FROM game.resource_tracks
		WHERE game_id = $1 AND resource_type = $2 AND (sector_id = $3 OR scope = 'GLOBAL')
		ORDER BY CASE scope WHEN 'SECTOR' THEN 0 ELSE 1 END
		LIMIT 1
	`, gameID, resourceType, sectorID).Scan(&t.ID, &t.ResourceType, &t.Scope, &sid, &t.Prices, &t.Position)
	if err == pgx.ErrNoRows {
		return t, fmt.Errorf("%w: resource track %s", ErrNotFound, resourceType)
	}
	if err != nil {
		return t, err
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// CurrentPhase is a read-only query; it never takes the game lock.
func (s *Service) CurrentPhase(ctx context.Context, gameID int64) (PhaseView, error) {
	var out PhaseView
	var timerless bool
	err := s.db.QueryRow(ctx, `SELECT timerless FROM game.games WHERE id = $1`, gameID).Scan(&timerless)
	if err == pgx.ErrNoRows {
		return out, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	if err != nil {
		return out, err
	}
	phase, err := currentPhaseTx(ctx, s.db, gameID)
	if err != nil {
		return out, err
	}
	if phase == nil {
		return out, ErrNoCurrentPhase
	}
	out = PhaseView{
		GameID:     gameID,
		TurnSeq:    phase.TurnSeq,
		Name:       phase.Name,
		StartTime:  phase.StartTime,
		AllottedMs: phase.AllottedMs,
		Timerless:  timerless,
	}
	if deadline, ok := phase.Deadline(); ok && !timerless {
		out.Deadline = &deadline
	}
	return out, nil
}

// ResourceTrackView reads one track; concurrent mutations are observed
// only at operation boundaries.
func (s *Service) ResourceTrackView(ctx context.Context, gameID int64, resourceType string) (TrackView, error) {
	var out TrackView
	var sid *int64
	var t ResourceTrack
	err := s.db.QueryRow(ctx, `
		SELECT resource_type, scope, sector_id, prices, position
		FROM game.resource_tracks
		WHERE game_id = $1 AND resource_type = $2
		ORDER BY CASE scope WHEN 'SECTOR' THEN 0 ELSE 1 END
		LIMIT 1
	`, gameID, resourceType).Scan(&t.ResourceType, &t.Scope, &sid, &t.Prices, &t.Position)
	if err == pgx.ErrNoRows {
		return out, fmt.Errorf("%w: resource track %s", ErrNotFound, resourceType)
	}
	if err != nil {
		return out, err
	}
	out = TrackView{
		ResourceType: t.ResourceType,
		Scope:        t.Scope,
		SectorID:     sid,
		Prices:       t.Prices,
		Position:     t.Position,
		CurrentPrice: t.CurrentPrice(),
	}
	return out, nil
}

// CompanyEconomicsView aggregates one company's economic state.
func (s *Service) CompanyEconomicsView(ctx context.Context, companyID int64) (CompanyEconomics, error) {
	var out CompanyEconomics
	var marker int
	err := s.db.QueryRow(ctx, `
		SELECT c.id, c.game_id, c.sector_id, c.name, c.status, c.cash, c.brand, c.workers, sec.research_marker
		FROM game.companies c
		JOIN game.sectors sec ON sec.id = c.sector_id
		WHERE c.id = $1
	`, companyID).Scan(&out.CompanyID, &out.GameID, &out.SectorID, &out.Name, &out.Status, &out.Cash, &out.Brand, &out.Workers, &marker)
	if err == pgx.ErrNoRows {
		return out, fmt.Errorf("%w: company %d", ErrNotFound, companyID)
	}
	if err != nil {
		return out, err
	}
	out.ResearchMarker = marker
	out.ResearchStage = ResearchStage(marker)

	rows, err := s.db.Query(ctx, `
		SELECT id, size, workers, blueprint, operational, built_turn_seq, customers_served, profit
		FROM game.factories
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var f FactoryView
		if err := rows.Scan(&f.ID, &f.Size, &f.Workers, &f.Blueprint, &f.Operational, &f.BuiltTurnSeq, &f.CustomersServed, &f.Profit); err != nil {
			return out, err
		}
		out.Factories = append(out.Factories, f)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}

	cRows, err := s.db.Query(ctx, `
		SELECT id, tier, slot, workers, brand_bonus, state
		FROM game.marketing_campaigns
		WHERE company_id = $1 AND state <> 'EXPIRED'
		ORDER BY id
	`, companyID)
	if err != nil {
		return out, err
	}
	defer cRows.Close()
	for cRows.Next() {
		var c CampaignView
		if err := cRows.Scan(&c.ID, &c.Tier, &c.Slot, &c.Workers, &c.BrandBonus, &c.State); err != nil {
			return out, err
		}
		out.Campaigns = append(out.Campaigns, c)
	}
	return out, cRows.Err()
}

// PendingResearchOrders lists a company's orders for one turn,
// resolved or not.
func (s *Service) PendingResearchOrders(ctx context.Context, companyID, gameTurnID int64) ([]ResearchOrderView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, game_turn_id, cost, progress_gain, failure_reason
		FROM game.research_orders
		WHERE company_id = $1 AND game_turn_id = $2
		ORDER BY id
	`, companyID, gameTurnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ResearchOrderView, 0)
	for rows.Next() {
		var v ResearchOrderView
		if err := rows.Scan(&v.ID, &v.GameTurnID, &v.Cost, &v.ProgressGain, &v.FailureReason); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SubmitFactoryConstruction records a construction order. The order is
// paid and built when the construction phase resolves; admission checks
// affordability against cash minus orders already pending this turn.
func (s *Service) SubmitFactoryConstruction(ctx context.Context, in FactoryOrderInput) (FactoryOrderResult, error) {
	var out FactoryOrderResult
	err := s.withGameLock(ctx, in.GameID, func(tx pgx.Tx) error {
		adm, err := s.admitTx(ctx, tx, in.GameID, in.ActorID, in.CallerUserID, []PhaseName{PhaseFactoryBuild})
		if err != nil {
			return err
		}
		co, err := lockCompanyTx(ctx, tx, in.CompanyID, in.GameID)
		if err != nil {
			return err
		}
		if err := requireCEO(co, in.ActorID); err != nil {
			return err
		}
		sec, err := sectorTx(ctx, tx, co.SectorID)
		if err != nil {
			return err
		}
		stage := ResearchStage(sec.ResearchMarker)
		if err := ValidateFactoryOrder(in.ResourceTypes, in.Size, stage); err != nil {
			return err
		}

		freshPlot := in.UpgradeFactoryID == nil
		if !freshPlot {
			var oldSize int
			err := tx.QueryRow(ctx, `
				SELECT size FROM game.factories
				WHERE id = $1 AND company_id = $2
				FOR UPDATE
			`, *in.UpgradeFactoryID, in.CompanyID).Scan(&oldSize)
			if err == pgx.ErrNoRows {
				return fmt.Errorf("%w: factory %d", ErrNotFound, *in.UpgradeFactoryID)
			}
			if err != nil {
				return err
			}
			if int(in.Size) <= oldSize {
				return fmt.Errorf("%w: upgrade must increase size, factory is already size %d", ErrInvalidBlueprint, oldSize)
			}
		}

		prices := make([]int64, 0, len(in.ResourceTypes))
		for _, rt := range in.ResourceTypes {
			trk, err := trackForTypeTx(ctx, tx, in.GameID, co.SectorID, rt)
			if err != nil {
				return err
			}
			prices = append(prices, trk.CurrentPrice())
		}
		cost := FactoryCost(prices, in.Size, freshPlot)

		var pending int64
		if err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(cost), 0)
			FROM game.factory_orders
			WHERE company_id = $1 AND game_turn_id = $2 AND NOT resolved
		`, in.CompanyID, adm.Phase.TurnID).Scan(&pending); err != nil {
			return err
		}
		if cost+pending > co.Cash {
			return fmt.Errorf("%w: factory costs $%d, you have $%d in pending orders plus $%d this order, total $%d needed, balance $%d",
				ErrInsufficientFunds, cost, pending, cost, cost+pending, co.Cash)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO game.factory_orders
			    (company_id, game_turn_id, size, blueprint, cost, upgrade_factory_id, resolved, submitted_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, $7)
			RETURNING id
		`, in.CompanyID, adm.Phase.TurnID, int(in.Size), in.ResourceTypes, cost, in.UpgradeFactoryID, adm.SubmittedAt).Scan(&out.OrderID)
		if err != nil {
			return err
		}
		out.Cost = cost
		out.PendingCost = pending + cost
		out.CashOnHand = co.Cash
		return nil
	})
	if err != nil {
		return out, err
	}
	s.publish(in.GameID, "factory_order_submitted", map[string]any{
		"company_id": in.CompanyID,
		"order_id":   out.OrderID,
		"cost":       out.Cost,
	})
	return out, nil
}

// SubmitMarketingCampaign charges the company and activates a campaign
// in the next free slot.
func (s *Service) SubmitMarketingCampaign(ctx context.Context, in CampaignInput) (CampaignResult, error) {
	var out CampaignResult
	err := s.withGameLock(ctx, in.GameID, func(tx pgx.Tx) error {
		adm, err := s.admitTx(ctx, tx, in.GameID, in.ActorID, in.CallerUserID, []PhaseName{PhaseMarketingResearch})
		if err != nil {
			return err
		}
		co, err := lockCompanyTx(ctx, tx, in.CompanyID, in.GameID)
		if err != nil {
			return err
		}
		if err := requireCEO(co, in.ActorID); err != nil {
			return err
		}

		var occupied int
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(1)
			FROM game.marketing_campaigns
			WHERE company_id = $1 AND created_turn_seq = $2 AND state <> 'EXPIRED'
		`, in.CompanyID, adm.Phase.TurnSeq).Scan(&occupied); err != nil {
			return err
		}
		if in.Slot != occupied+1 {
			return fmt.Errorf("%w: next free campaign slot is %d, got %d", ErrInvalidBlueprint, occupied+1, in.Slot)
		}

		cost, err := MarketingCost(in.Tier, in.Slot)
		if err != nil {
			return err
		}
		if cost > co.Cash {
			return fmt.Errorf("%w: campaign costs $%d, balance $%d", ErrInsufficientFunds, cost, co.Cash)
		}

		workers := CampaignWorkers(in.Tier)
		if workers > co.Workers {
			workers = co.Workers
		}
		bonus := BrandBonus(in.Tier)

		err = tx.QueryRow(ctx, `
			INSERT INTO game.marketing_campaigns
			    (company_id, tier, slot, workers, brand_bonus, state, created_turn_seq)
			VALUES ($1, $2, $3, $4, $5, 'ACTIVE', $6)
			RETURNING id
		`, in.CompanyID, int(in.Tier), in.Slot, workers, bonus, adm.Phase.TurnSeq).Scan(&out.CampaignID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.companies
			SET cash = cash - $1, brand = brand + $2, workers = workers - $3
			WHERE id = $4
		`, cost, bonus, workers, in.CompanyID); err != nil {
			return err
		}
		out.Cost = cost
		out.BrandBonus = bonus
		out.Cash = co.Cash - cost
		return nil
	})
	if err != nil {
		return out, err
	}
	s.publish(in.GameID, "marketing_campaign_started", map[string]any{
		"company_id":  in.CompanyID,
		"campaign_id": out.CampaignID,
		"cost":        out.Cost,
	})
	return out, nil
}

// SubmitResearchAction charges the stage cost and commits one worker;
// the progress roll happens when the phase resolves. At most one order
// per company per turn.
func (s *Service) SubmitResearchAction(ctx context.Context, in ResearchInput) (ResearchResult, error) {
	var out ResearchResult
	err := s.withGameLock(ctx, in.GameID, func(tx pgx.Tx) error {
		adm, err := s.admitTx(ctx, tx, in.GameID, in.ActorID, in.CallerUserID, []PhaseName{PhaseMarketingResearch})
		if err != nil {
			return err
		}
		co, err := lockCompanyTx(ctx, tx, in.CompanyID, in.GameID)
		if err != nil {
			return err
		}
		if err := requireCEO(co, in.ActorID); err != nil {
			return err
		}
		if co.SectorID != in.SectorID {
			return fmt.Errorf("%w: company %d belongs to sector %d, not %d", ErrInvalidBlueprint, in.CompanyID, co.SectorID, in.SectorID)
		}

		var existing int64
		err = tx.QueryRow(ctx, `
			SELECT id FROM game.research_orders
			WHERE company_id = $1 AND game_turn_id = $2
		`, in.CompanyID, adm.Phase.TurnID).Scan(&existing)
		if err == nil {
			return fmt.Errorf("%w: research order %d already submitted this turn", ErrAlreadyActedThisTurn, existing)
		}
		if err != pgx.ErrNoRows {
			return err
		}

		sec, err := sectorTx(ctx, tx, co.SectorID)
		if err != nil {
			return err
		}
		cost := ResearchCost(ResearchStage(sec.ResearchMarker))
		if cost > co.Cash {
			return fmt.Errorf("%w: research costs $%d at stage %d, balance $%d",
				ErrInsufficientFunds, cost, ResearchStage(sec.ResearchMarker), co.Cash)
		}
		if co.Workers < 1 {
			return fmt.Errorf("%w: research consumes one worker, company has none free", ErrInvalidBlueprint)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO game.research_orders (company_id, game_turn_id, cost, submitted_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, in.CompanyID, adm.Phase.TurnID, cost, adm.SubmittedAt).Scan(&out.OrderID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.companies
			SET cash = cash - $1, workers = workers - 1
			WHERE id = $2
		`, cost, in.CompanyID); err != nil {
			return err
		}

		// Each research action feeds demand two turns out.
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.demand_forecast (game_id, sector_id, turn_seq, counters)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (sector_id, turn_seq) DO UPDATE SET counters = game.demand_forecast.counters + 1
		`, in.GameID, co.SectorID, adm.Phase.TurnSeq+2); err != nil {
			return err
		}
		out.Cost = cost
		out.Cash = co.Cash - cost
		return nil
	})
	if err != nil {
		return out, err
	}
	s.publish(in.GameID, "research_order_submitted", map[string]any{
		"company_id": in.CompanyID,
		"order_id":   out.OrderID,
		"cost":       out.Cost,
	})
	return out, nil
}

// SubmitDividendVote records a shareholder's weighted choice for the
// current operating round. A later vote by the same player replaces the
// earlier one.
func (s *Service) SubmitDividendVote(ctx context.Context, in VoteInput) (VoteResult, error) {
	var out VoteResult
	err := s.withGameLock(ctx, in.GameID, func(tx pgx.Tx) error {
		adm, err := s.admitTx(ctx, tx, in.GameID, in.ActorID, in.CallerUserID, []PhaseName{PhaseCompanyVote})
		if err != nil {
			return err
		}
		if in.GameTurnID != adm.Phase.TurnID {
			return fmt.Errorf("%w: vote targets turn %d, current turn is %d", ErrPhaseMismatch, in.GameTurnID, adm.Phase.TurnID)
		}
		if !in.Outcome.Valid() {
			return fmt.Errorf("%w: unknown distribution outcome %q", ErrInvalidBlueprint, in.Outcome)
		}

		var exists int64
		err = tx.QueryRow(ctx, `
			SELECT id FROM game.companies WHERE id = $1 AND game_id = $2
		`, in.CompanyID, in.GameID).Scan(&exists)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: company %d", ErrNotFound, in.CompanyID)
		}
		if err != nil {
			return err
		}

		var weight int64
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(1)
			FROM game.shares
			WHERE company_id = $1 AND location = 'PLAYER' AND player_id = $2
		`, in.CompanyID, in.ActorID).Scan(&weight); err != nil {
			return err
		}
		if weight == 0 {
			return fmt.Errorf("%w: actor %d holds no shares of company %d", ErrUnauthorized, in.ActorID, in.CompanyID)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO game.dividend_votes (company_id, game_turn_id, player_id, outcome, weight)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (company_id, game_turn_id, player_id)
			DO UPDATE SET outcome = $4, weight = $5
			RETURNING id
		`, in.CompanyID, in.GameTurnID, in.ActorID, string(in.Outcome), weight).Scan(&out.VoteID)
		if err != nil {
			return err
		}
		out.Weight = weight
		return nil
	})
	if err != nil {
		return out, err
	}
	s.publish(in.GameID, "dividend_vote_cast", map[string]any{
		"company_id": in.CompanyID,
		"vote_id":    out.VoteID,
	})
	return out, nil
}

// SignalReady marks an actor ready for early phase advance.
func (s *Service) SignalReady(ctx context.Context, gameID, actorID int64, callerUserID string) error {
	err := s.withGameLock(ctx, gameID, func(tx pgx.Tx) error {
		var actorUser string
		err := tx.QueryRow(ctx, `
			SELECT user_id FROM game.players WHERE id = $1 AND game_id = $2
		`, actorID, gameID).Scan(&actorUser)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: actor not found in game", ErrUnauthorized)
		}
		if err != nil {
			return err
		}
		if actorUser != callerUserID {
			return fmt.Errorf("%w: actor is not owned by caller", ErrUnauthorized)
		}
		_, err = tx.Exec(ctx, `
			UPDATE game.players SET ready = true WHERE id = $1
		`, actorID)
		return err
	})
	if err != nil {
		return err
	}
	s.publish(gameID, "player_ready", map[string]any{"player_id": actorID})
	return nil
}

// AllReady reports whether every player in the game signaled readiness.
func (s *Service) AllReady(ctx context.Context, gameID int64) (bool, error) {
	var total, ready int64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(1), COUNT(1) FILTER (WHERE ready)
		FROM game.players
		WHERE game_id = $1
	`, gameID).Scan(&total, &ready)
	if err != nil {
		return false, err
	}
	return total > 0 && total == ready, nil
}
