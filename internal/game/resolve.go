package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// AdvancePhase closes the current phase, runs whatever that phase
// resolves, and opens the next one. Interleavings are impossible: the
// whole transition happens under the game lock in one transaction.
// This is the worker's path; it trusts the caller's due check.
func (s *Service) AdvancePhase(ctx context.Context, gameID int64) (AdvanceResult, error) {
	var out AdvanceResult
	err := s.withGameLock(ctx, gameID, func(tx pgx.Tx) error {
		var err error
		out, err = s.advanceTx(ctx, tx, gameID)
		return err
	})
	if err != nil {
		return out, err
	}
	s.announceAdvance(gameID, out)
	return out, nil
}

// RequestPhaseAdvance is the player-facing advance. The caller must be
// a player in the game and the phase must actually be due: every player
// ready, or a timed phase past its deadline.
func (s *Service) RequestPhaseAdvance(ctx context.Context, gameID int64, callerUserID string) (AdvanceResult, error) {
	var out AdvanceResult
	err := s.withGameLock(ctx, gameID, func(tx pgx.Tx) error {
		var playerID int64
		err := tx.QueryRow(ctx, `
			SELECT id FROM game.players WHERE game_id = $1 AND user_id = $2
		`, gameID, callerUserID).Scan(&playerID)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: caller is not a player in game %d", ErrUnauthorized, gameID)
		}
		if err != nil {
			return err
		}

		var timerless bool
		err = tx.QueryRow(ctx, `
			SELECT timerless FROM game.games WHERE id = $1
		`, gameID).Scan(&timerless)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		if err != nil {
			return err
		}
		phase, err := currentPhaseTx(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if phase == nil {
			return fmt.Errorf("%w: game %d has no phase to advance", ErrNoCurrentPhase, gameID)
		}
		var total, ready int64
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(1), COUNT(1) FILTER (WHERE ready)
			FROM game.players
			WHERE game_id = $1
		`, gameID).Scan(&total, &ready); err != nil {
			return err
		}
		if !AdvanceDue(timerless, phase, total, ready, s.now()) {
			return fmt.Errorf("%w: waiting on other players or the phase deadline", ErrPhaseNotDue)
		}

		out, err = s.advanceTx(ctx, tx, gameID)
		return err
	})
	if err != nil {
		return out, err
	}
	s.announceAdvance(gameID, out)
	return out, nil
}

func (s *Service) announceAdvance(gameID int64, out AdvanceResult) {
	s.log.Info("phase advanced", "game_id", gameID, "turn", out.TurnSeq, "phase", out.Phase, "game_over", out.GameOver)
	s.publish(gameID, "phase_started", map[string]any{
		"turn_seq":  out.TurnSeq,
		"phase":     string(out.Phase),
		"game_over": out.GameOver,
	})
}

func (s *Service) advanceTx(ctx context.Context, tx pgx.Tx, gameID int64) (AdvanceResult, error) {
	var out AdvanceResult

	var mode, status string
	var timerless bool
	var turnLimit int
	err := tx.QueryRow(ctx, `
		SELECT mode, timerless, turn_limit, status
		FROM game.games
		WHERE id = $1
		FOR UPDATE
	`, gameID).Scan(&mode, &timerless, &turnLimit, &status)
	if err == pgx.ErrNoRows {
		return out, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	if err != nil {
		return out, err
	}
	if status == "ENDED" {
		return out, fmt.Errorf("%w: game %d", ErrGameEnded, gameID)
	}

	phase, err := currentPhaseTx(ctx, tx, gameID)
	if err != nil {
		return out, err
	}
	if phase == nil {
		return out, fmt.Errorf("%w: game %d has no phase to advance", ErrNoCurrentPhase, gameID)
	}
	if phase.Name == PhaseEnd {
		return out, fmt.Errorf("%w: game %d", ErrGameEnded, gameID)
	}

	switch phase.Name {
	case PhaseFactoryBuild:
		if err := s.resolveFactoryOrdersTx(ctx, tx, gameID, phase.TurnID, phase.TurnSeq); err != nil {
			return out, err
		}
	case PhaseMarketingResearch:
		if err := s.resolveResearchOrdersTx(ctx, tx, gameID, phase.TurnID); err != nil {
			return out, err
		}
	case PhaseModernOperations:
		if err := s.runOperationsTx(ctx, tx, gameID, phase.TurnID, phase.TurnSeq); err != nil {
			return out, err
		}
	}

	next, newTurn, over := ModeByName(mode).Advance(phase.Name, phase.TurnSeq, turnLimit)

	if _, err := tx.Exec(ctx, `
		UPDATE game.phases SET is_current = false WHERE id = $1
	`, phase.ID); err != nil {
		return out, err
	}

	turnID := phase.TurnID
	seq := phase.TurnSeq
	if newTurn {
		seq++
		if err := tx.QueryRow(ctx, `
			INSERT INTO game.game_turns (game_id, seq) VALUES ($1, $2)
			RETURNING id
		`, gameID, seq).Scan(&turnID); err != nil {
			return out, err
		}
	}

	var start *time.Time
	if !timerless && !over {
		t := s.now()
		start = &t
	}
	var phaseID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO game.phases (game_id, game_turn_id, name, start_time, allotted_ms, is_current)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id
	`, gameID, turnID, string(next.Name), start, next.Duration.Milliseconds()).Scan(&phaseID); err != nil {
		return out, err
	}

	newStatus := "ACTIVE"
	if over {
		newStatus = "ENDED"
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.games
		SET current_turn_id = $1, current_phase_id = $2, status = $3
		WHERE id = $4
	`, turnID, phaseID, newStatus, gameID); err != nil {
		return out, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.players SET ready = false WHERE game_id = $1
	`, gameID); err != nil {
		return out, err
	}

	out = AdvanceResult{TurnSeq: seq, Phase: next.Name, GameOver: over}
	return out, nil
}

type factoryOrderRow struct {
	ID        int64
	CompanyID int64
	Size      int
	Blueprint []string
	Cost      int64
	UpgradeID *int64
}

// resolveFactoryOrdersTx pays for and builds every unresolved order of
// the closing turn. New plants start non-operational and come online
// one turn later. Each completed construction consumes one unit of the
// sector's resource track.
func (s *Service) resolveFactoryOrdersTx(ctx context.Context, tx pgx.Tx, gameID, turnID int64, turnSeq int) error {
	rows, err := tx.Query(ctx, `
		SELECT fo.id, fo.company_id, fo.size, fo.blueprint, fo.cost, fo.upgrade_factory_id
		FROM game.factory_orders fo
		JOIN game.companies c ON c.id = fo.company_id
		WHERE c.game_id = $1 AND fo.game_turn_id = $2 AND NOT fo.resolved
		ORDER BY fo.id
	`, gameID, turnID)
	if err != nil {
		return err
	}
	orders := make([]factoryOrderRow, 0)
	for rows.Next() {
		var o factoryOrderRow
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Size, &o.Blueprint, &o.Cost, &o.UpgradeID); err != nil {
			rows.Close()
			return err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, o := range orders {
		co, err := lockCompanyTx(ctx, tx, o.CompanyID, gameID)
		if err != nil {
			return err
		}
		if co.Cash < o.Cost || co.Status != CompanyActive {
			// Cash spent elsewhere since admission, or company went
			// under. The order lapses.
			s.log.Warn("factory order lapsed", "order_id", o.ID, "company_id", o.CompanyID, "cost", o.Cost, "cash", co.Cash)
			if _, err := tx.Exec(ctx, `
				UPDATE game.factory_orders SET resolved = true WHERE id = $1
			`, o.ID); err != nil {
				return err
			}
			continue
		}

		workers := int64(o.Size)
		if workers > co.Workers {
			workers = co.Workers
		}
		if o.UpgradeID != nil {
			if _, err := tx.Exec(ctx, `
				UPDATE game.factories
				SET size = $1, blueprint = $2, workers = $3, operational = false, built_turn_seq = $4
				WHERE id = $5 AND company_id = $6
			`, o.Size, o.Blueprint, workers, turnSeq, *o.UpgradeID, o.CompanyID); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `
				INSERT INTO game.factories
				    (company_id, size, blueprint, workers, operational, built_turn_seq, customers_served, profit)
				VALUES ($1, $2, $3, $4, false, $5, 0, 0)
			`, o.CompanyID, o.Size, o.Blueprint, workers, turnSeq); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.companies
			SET cash = cash - $1, workers = workers - $2
			WHERE id = $3
		`, o.Cost, workers, o.CompanyID); err != nil {
			return err
		}
		if err := consumeSectorTrackTx(ctx, tx, gameID, co.SectorID, 1); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.factory_orders SET resolved = true WHERE id = $1
		`, o.ID); err != nil {
			return err
		}
		s.log.Info("factory built", "order_id", o.ID, "company_id", o.CompanyID, "size", o.Size, "cost", o.Cost)
	}
	return nil
}

// resolveResearchOrdersTx rolls progress for every order of the
// closing turn and advances sector markers. Crossing a milestone
// consumes one unit of the sector's track per milestone.
func (s *Service) resolveResearchOrdersTx(ctx context.Context, tx pgx.Tx, gameID, turnID int64) error {
	rows, err := tx.Query(ctx, `
		SELECT ro.id, ro.company_id, c.sector_id
		FROM game.research_orders ro
		JOIN game.companies c ON c.id = ro.company_id
		WHERE c.game_id = $1 AND ro.game_turn_id = $2 AND ro.progress_gain IS NULL
		ORDER BY ro.id
	`, gameID, turnID)
	if err != nil {
		return err
	}
	type orderRow struct {
		ID        int64
		CompanyID int64
		SectorID  int64
	}
	orders := make([]orderRow, 0)
	for rows.Next() {
		var o orderRow
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.SectorID); err != nil {
			rows.Close()
			return err
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, o := range orders {
		var before int
		err := tx.QueryRow(ctx, `
			SELECT research_marker FROM game.sectors WHERE id = $1 FOR UPDATE
		`, o.SectorID).Scan(&before)
		if err == pgx.ErrNoRows {
			reason := "sector no longer exists"
			if _, err := tx.Exec(ctx, `
				UPDATE game.research_orders SET progress_gain = 0, failure_reason = $1 WHERE id = $2
			`, reason, o.ID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		gain := s.rollProgress()
		after := before + gain
		if _, err := tx.Exec(ctx, `
			UPDATE game.sectors SET research_marker = $1 WHERE id = $2
		`, after, o.SectorID); err != nil {
			return err
		}
		if crossed := MilestonesCrossed(before, after); crossed > 0 {
			if err := consumeSectorTrackTx(ctx, tx, gameID, o.SectorID, crossed); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.research_orders SET progress_gain = $1 WHERE id = $2
		`, gain, o.ID); err != nil {
			return err
		}
		s.log.Info("research resolved", "order_id", o.ID, "sector_id", o.SectorID, "gain", gain, "marker", after)
	}
	return nil
}

// consumeSectorTrackTx advances a sector's price ladder by n under a
// row lock, capping at the last rung. Sectors without a track of their
// own consume nothing.
func consumeSectorTrackTx(ctx context.Context, tx pgx.Tx, gameID, sectorID int64, n int) error {
	if n <= 0 {
		return nil
	}
	var t ResourceTrack
	var trackID int64
	err := tx.QueryRow(ctx, `
		SELECT id, resource_type, prices, position
		FROM game.resource_tracks
		WHERE game_id = $1 AND sector_id = $2 AND scope = 'SECTOR'
		FOR UPDATE
	`, gameID, sectorID).Scan(&trackID, &t.ResourceType, &t.Prices, &t.Position)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	t.Consume(n)
	_, err = tx.Exec(ctx, `
		UPDATE game.resource_tracks SET position = $1 WHERE id = $2
	`, t.Position, trackID)
	return err
}

type productionFactory struct {
	ID        int64
	CompanyID int64
	SectorID  int64
	Size      int
	Workers   int64
	Blueprint []string
}

// runOperationsTx closes the operating round: factories built in an
// earlier turn come online, operational factories serve the sector's
// demand pool largest first, revenue is distributed per the turn's
// dividend vote, and marketing campaigns decay.
func (s *Service) runOperationsTx(ctx context.Context, tx pgx.Tx, gameID, turnID int64, turnSeq int) error {
	if _, err := tx.Exec(ctx, `
		UPDATE game.factories f
		SET operational = true
		FROM game.companies c
		WHERE c.id = f.company_id AND c.game_id = $1
		  AND NOT f.operational AND f.built_turn_seq < $2
	`, gameID, turnSeq); err != nil {
		return err
	}

	sectors, err := s.sectorsForGameTx(ctx, tx, gameID)
	if err != nil {
		return err
	}
	forecast, err := s.forecastForTurnTx(ctx, tx, gameID, turnSeq)
	if err != nil {
		return err
	}

	companyRevenue := make(map[int64]int64)
	companyCost := make(map[int64]int64)

	for _, sec := range sectors {
		demand := sec.BaseDemand + forecast[sec.ID]
		factories, err := s.operationalFactoriesTx(ctx, tx, gameID, sec.ID)
		if err != nil {
			return err
		}
		for _, f := range factories {
			prices := make([]int64, 0, len(f.Blueprint))
			for _, rt := range f.Blueprint {
				trk, err := trackForTypeTx(ctx, tx, gameID, sec.ID, rt)
				if err != nil {
					return err
				}
				prices = append(prices, trk.CurrentPrice())
			}
			prod := RunProduction(FactorySize(f.Size), demand, sec.UnitPrice, prices, f.Workers, sec.Salary)
			demand -= prod.CustomersServed

			if _, err := tx.Exec(ctx, `
				UPDATE game.factories
				SET customers_served = $1, profit = $2
				WHERE id = $3
			`, prod.CustomersServed, prod.Revenue-prod.Cost, f.ID); err != nil {
				return err
			}
			companyRevenue[f.CompanyID] += prod.Revenue
			companyCost[f.CompanyID] += prod.Cost
		}
	}

	companies, err := s.activeCompaniesTx(ctx, tx, gameID)
	if err != nil {
		return err
	}
	for _, companyID := range companies {
		if err := s.settleCompanyTx(ctx, tx, companyID, turnID, companyRevenue[companyID], companyCost[companyID]); err != nil {
			return err
		}
	}

	return s.decayCampaignsTx(ctx, tx, gameID)
}

func (s *Service) sectorsForGameTx(ctx context.Context, tx pgx.Tx, gameID int64) ([]sectorRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, unit_price, salary, research_marker, base_demand
		FROM game.sectors
		WHERE game_id = $1
		ORDER BY id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]sectorRow, 0)
	for rows.Next() {
		var sec sectorRow
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.UnitPrice, &sec.Salary, &sec.ResearchMarker, &sec.BaseDemand); err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *Service) forecastForTurnTx(ctx context.Context, tx pgx.Tx, gameID int64, turnSeq int) (map[int64]int64, error) {
	rows, err := tx.Query(ctx, `
		SELECT sector_id, counters
		FROM game.demand_forecast
		WHERE game_id = $1 AND turn_seq = $2
	`, gameID, turnSeq)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int64)
	for rows.Next() {
		var sectorID, counters int64
		if err := rows.Scan(&sectorID, &counters); err != nil {
			return nil, err
		}
		out[sectorID] = counters
	}
	return out, rows.Err()
}

// Largest plants serve first; ties break by age.
func (s *Service) operationalFactoriesTx(ctx context.Context, tx pgx.Tx, gameID, sectorID int64) ([]productionFactory, error) {
	rows, err := tx.Query(ctx, `
		SELECT f.id, f.company_id, c.sector_id, f.size, f.workers, f.blueprint
		FROM game.factories f
		JOIN game.companies c ON c.id = f.company_id
		WHERE c.game_id = $1 AND c.sector_id = $2 AND c.status = 'ACTIVE' AND f.operational
		ORDER BY f.size DESC, f.id ASC
	`, gameID, sectorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]productionFactory, 0)
	for rows.Next() {
		var f productionFactory
		if err := rows.Scan(&f.ID, &f.CompanyID, &f.SectorID, &f.Size, &f.Workers, &f.Blueprint); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Service) activeCompaniesTx(ctx context.Context, tx pgx.Tx, gameID int64) ([]int64, error) {
	rows, err := tx.Query(ctx, `
		SELECT id FROM game.companies
		WHERE game_id = $1 AND status = 'ACTIVE'
		ORDER BY id
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// settleCompanyTx charges production cost, then splits revenue per the
// turn's weighted vote. Dividends land in player wallets; retained
// earnings land in company cash. A company driven below zero becomes
// insolvent.
func (s *Service) settleCompanyTx(ctx context.Context, tx pgx.Tx, companyID, turnID int64, revenue, cost int64) error {
	co, err := lockCompanyByIDTx(ctx, tx, companyID)
	if err != nil {
		return err
	}

	votes, err := s.votesForTurnTx(ctx, tx, companyID, turnID)
	if err != nil {
		return err
	}
	holdings, err := s.holdingsTx(ctx, tx, companyID)
	if err != nil {
		return err
	}

	outcome := TallyVotes(votes)
	dist := Distribute(revenue, outcome, holdings)

	cash := co.Cash - cost + dist.Retained
	status := co.Status
	if cash < 0 {
		status = CompanyInsolvent
		s.log.Warn("company insolvent", "company_id", companyID, "cash", cash)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.companies SET cash = $1, status = $2 WHERE id = $3
	`, cash, string(status), companyID); err != nil {
		return err
	}
	for playerID, payout := range dist.Payouts {
		if payout == 0 {
			continue
		}
		if _, err := tx.Exec(ctx, `
			UPDATE game.players SET cash = cash + $1 WHERE id = $2
		`, payout, playerID); err != nil {
			return err
		}
	}
	if revenue > 0 || cost > 0 {
		s.log.Info("operating round settled",
			"company_id", companyID, "revenue", revenue, "cost", cost,
			"outcome", string(dist.Outcome), "dividends", dist.DividendTotal, "retained", dist.Retained)
	}
	return nil
}

func lockCompanyByIDTx(ctx context.Context, tx pgx.Tx, companyID int64) (companyRow, error) {
	var co companyRow
	err := tx.QueryRow(ctx, `
		SELECT id, game_id, sector_id, ceo_player_id, name, cash, status, brand, workers
		FROM game.companies
		WHERE id = $1
		FOR UPDATE
	`, companyID).Scan(&co.ID, &co.GameID, &co.SectorID, &co.CEOPlayerID, &co.Name, &co.Cash, &co.Status, &co.Brand, &co.Workers)
	if err == pgx.ErrNoRows {
		return co, fmt.Errorf("%w: company %d", ErrNotFound, companyID)
	}
	return co, err
}

func (s *Service) votesForTurnTx(ctx context.Context, tx pgx.Tx, companyID, turnID int64) ([]DistributionVote, error) {
	rows, err := tx.Query(ctx, `
		SELECT player_id, outcome, weight
		FROM game.dividend_votes
		WHERE company_id = $1 AND game_turn_id = $2
	`, companyID, turnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DistributionVote, 0)
	for rows.Next() {
		var v DistributionVote
		var outcome string
		if err := rows.Scan(&v.PlayerID, &outcome, &v.Weight); err != nil {
			return nil, err
		}
		v.Outcome = DistributionOutcome(outcome)
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Service) holdingsTx(ctx context.Context, tx pgx.Tx, companyID int64) ([]ShareHolding, error) {
	rows, err := tx.Query(ctx, `
		SELECT location, COALESCE(player_id, 0)
		FROM game.shares
		WHERE company_id = $1
		ORDER BY id
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ShareHolding, 0, SharesPerCompany)
	for rows.Next() {
		var h ShareHolding
		var loc string
		if err := rows.Scan(&loc, &h.PlayerID); err != nil {
			return nil, err
		}
		h.Location = ShareLocation(loc)
		out = append(out, h)
	}
	return out, rows.Err()
}

// decayCampaignsTx steps every live campaign down one state. Workers
// come back to the company when a campaign expires.
func (s *Service) decayCampaignsTx(ctx context.Context, tx pgx.Tx, gameID int64) error {
	rows, err := tx.Query(ctx, `
		SELECT mc.id, mc.company_id, mc.workers, mc.state
		FROM game.marketing_campaigns mc
		JOIN game.companies c ON c.id = mc.company_id
		WHERE c.game_id = $1 AND mc.state <> 'EXPIRED'
		ORDER BY mc.id
	`, gameID)
	if err != nil {
		return err
	}
	type campaignRow struct {
		ID        int64
		CompanyID int64
		Workers   int64
		State     CampaignState
	}
	campaigns := make([]campaignRow, 0)
	for rows.Next() {
		var c campaignRow
		var state string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Workers, &state); err != nil {
			rows.Close()
			return err
		}
		c.State = CampaignState(state)
		campaigns = append(campaigns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range campaigns {
		next := DecayCampaign(c.State)
		if _, err := tx.Exec(ctx, `
			UPDATE game.marketing_campaigns SET state = $1 WHERE id = $2
		`, string(next), c.ID); err != nil {
			return err
		}
		if next == CampaignExpired && c.Workers > 0 {
			if _, err := tx.Exec(ctx, `
				UPDATE game.companies SET workers = workers + $1 WHERE id = $2
			`, c.Workers, c.CompanyID); err != nil {
				return err
			}
		}
	}
	return nil
}

// SweepDueGames advances every game whose phase timer elapsed or whose
// players are all ready. A game someone else holds the lock on is
// skipped and picked up next sweep.
func (s *Service) SweepDueGames(ctx context.Context) (int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT g.id
		FROM game.games g
		JOIN game.phases ph ON ph.id = g.current_phase_id
		WHERE g.status = 'ACTIVE' AND ph.name <> 'END' AND (
			(NOT g.timerless AND ph.start_time IS NOT NULL
			 AND ph.start_time + (ph.allotted_ms * interval '1 millisecond') < now())
			OR (
				EXISTS (SELECT 1 FROM game.players p WHERE p.game_id = g.id)
				AND NOT EXISTS (SELECT 1 FROM game.players p WHERE p.game_id = g.id AND NOT p.ready)
			)
		)
		ORDER BY g.id
	`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	due := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		due = append(due, id)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	advanced := 0
	for _, gameID := range due {
		if _, err := s.AdvancePhase(ctx, gameID); err != nil {
			if errors.Is(err, ErrGameBusy) || errors.Is(err, ErrGameEnded) {
				continue
			}
			s.log.Error("sweep advance failed", "game_id", gameID, "error", err)
			continue
		}
		advanced++
	}
	return advanced, nil
}
