package game

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type sectorSeed struct {
	Name       string
	UnitPrice  int64
	Salary     int64
	BaseDemand int64
	Resource   string
	Prices     []int64
	Companies  []string
}

// The fixed board every new game starts from. One resource track per
// sector plus a shared fuel track priced for everyone.
var defaultSectors = []sectorSeed{
	{Name: "Steelworks", UnitPrice: 40, Salary: 15, BaseDemand: 8, Resource: "STEEL", Prices: []int64{10, 15, 20, 25, 30, 35, 40, 45}, Companies: []string{"Ironclad Industries", "Bessemer & Sons"}},
	{Name: "Agriculture", UnitPrice: 25, Salary: 10, BaseDemand: 10, Resource: "GRAIN", Prices: []int64{5, 10, 15, 20, 25, 30, 35, 40}, Companies: []string{"Harvest Group", "Golden Fields Co"}},
	{Name: "Energy", UnitPrice: 55, Salary: 20, BaseDemand: 6, Resource: "ENERGY", Prices: []int64{15, 20, 25, 30, 35, 40, 45, 50}, Companies: []string{"Dynamo Power", "Meridian Grid"}},
	{Name: "Electronics", UnitPrice: 70, Salary: 25, BaseDemand: 5, Resource: "SILICON", Prices: []int64{20, 25, 30, 35, 40, 45, 50, 55}, Companies: []string{"Circuitry Ltd", "Vacuum Valve Works"}},
}

var globalFuelPrices = []int64{20, 30, 40, 50, 60}

const (
	defaultTurnLimit     = 12
	defaultWorkforcePool = 40
	companyWorkers       = 6
	ceoShareCount        = 3
	openMarketShareCount = 2
)

// CreateGame seeds a full board, opens turn 1's first phase, and joins
// the owner as the first player.
func (s *Service) CreateGame(ctx context.Context, in CreateGameInput) (CreateGameResult, error) {
	if in.Name == "" {
		return CreateGameResult{}, fmt.Errorf("%w: game name is required", ErrInvalidBlueprint)
	}
	mode := ModeByName(in.Mode)
	turnLimit := in.TurnLimit
	if turnLimit <= 0 {
		turnLimit = defaultTurnLimit
	}

	var out CreateGameResult
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return out, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO game.games (name, mode, timerless, workforce_pool, turn_limit, status)
		VALUES ($1, $2, $3, $4, $5, 'ACTIVE')
		RETURNING id
	`, in.Name, mode.Name, in.Timerless, defaultWorkforcePool, turnLimit).Scan(&out.GameID)
	if err != nil {
		return out, err
	}

	for _, seed := range defaultSectors {
		var sectorID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO game.sectors (game_id, name, unit_price, salary, research_marker, base_demand)
			VALUES ($1, $2, $3, $4, 0, $5)
			RETURNING id
		`, out.GameID, seed.Name, seed.UnitPrice, seed.Salary, seed.BaseDemand).Scan(&sectorID)
		if err != nil {
			return out, err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO game.resource_tracks (game_id, sector_id, resource_type, scope, prices, position)
			VALUES ($1, $2, $3, 'SECTOR', $4, 0)
		`, out.GameID, sectorID, seed.Resource, seed.Prices); err != nil {
			return out, err
		}
		for _, name := range seed.Companies {
			var companyID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO game.companies (game_id, sector_id, name, cash, status, brand, workers)
				VALUES ($1, $2, $3, $4, 'ACTIVE', 0, $5)
				RETURNING id
			`, out.GameID, sectorID, name, StartingCompanyCash, companyWorkers).Scan(&companyID)
			if err != nil {
				return out, err
			}
			for i := 0; i < SharesPerCompany; i++ {
				if _, err := tx.Exec(ctx, `
					INSERT INTO game.shares (company_id, location) VALUES ($1, 'IPO')
				`, companyID); err != nil {
					return out, err
				}
			}
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO game.resource_tracks (game_id, resource_type, scope, prices, position)
		VALUES ($1, 'FUEL', 'GLOBAL', $2, 0)
	`, out.GameID, globalFuelPrices); err != nil {
		return out, err
	}

	var turnID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO game.game_turns (game_id, seq) VALUES ($1, 1)
		RETURNING id
	`, out.GameID).Scan(&turnID); err != nil {
		return out, err
	}
	first := mode.First()
	var start any
	if !in.Timerless {
		start = s.now()
	}
	var phaseID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO game.phases (game_id, game_turn_id, name, start_time, allotted_ms, is_current)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id
	`, out.GameID, turnID, string(first.Name), start, first.Duration.Milliseconds()).Scan(&phaseID); err != nil {
		return out, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.games SET current_turn_id = $1, current_phase_id = $2 WHERE id = $3
	`, turnID, phaseID, out.GameID); err != nil {
		return out, err
	}

	out.PlayerID, err = s.joinTx(ctx, tx, out.GameID, in.OwnerUserID)
	if err != nil {
		return out, err
	}
	if err := tx.Commit(ctx); err != nil {
		return out, err
	}

	s.log.Info("game created", "game_id", out.GameID, "mode", mode.Name, "timerless", in.Timerless, "turn_limit", turnLimit)
	return out, nil
}

// JoinGame adds a player and, while companies still lack a CEO, hands
// the newcomer one: they become CEO and take the first shares out of
// the IPO rotation.
func (s *Service) JoinGame(ctx context.Context, gameID int64, userID string) (JoinGameResult, error) {
	var out JoinGameResult
	err := s.withGameLock(ctx, gameID, func(tx pgx.Tx) error {
		var status string
		err := tx.QueryRow(ctx, `
			SELECT status FROM game.games WHERE id = $1 FOR UPDATE
		`, gameID).Scan(&status)
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: game %d", ErrNotFound, gameID)
		}
		if err != nil {
			return err
		}
		if status == "ENDED" {
			return fmt.Errorf("%w: game %d", ErrGameEnded, gameID)
		}
		out.PlayerID, err = s.joinTx(ctx, tx, gameID, userID)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			SELECT cash FROM game.players WHERE id = $1
		`, out.PlayerID).Scan(&out.Cash)
	})
	if err != nil {
		return out, err
	}
	s.publish(gameID, "player_joined", map[string]any{"player_id": out.PlayerID})
	return out, nil
}

func (s *Service) joinTx(ctx context.Context, tx pgx.Tx, gameID int64, userID string) (int64, error) {
	var playerID int64
	err := tx.QueryRow(ctx, `
		SELECT id FROM game.players WHERE game_id = $1 AND user_id = $2
	`, gameID, userID).Scan(&playerID)
	if err == nil {
		return playerID, nil
	}
	if err != pgx.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO game.players (game_id, user_id, cash, ready)
		VALUES ($1, $2, $3, false)
		RETURNING id
	`, gameID, userID, StartingPlayerCash).Scan(&playerID)
	if err != nil {
		return 0, err
	}

	var companyID int64
	err = tx.QueryRow(ctx, `
		SELECT id FROM game.companies
		WHERE game_id = $1 AND ceo_player_id IS NULL AND status = 'ACTIVE'
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`, gameID).Scan(&companyID)
	if err == pgx.ErrNoRows {
		return playerID, nil
	}
	if err != nil {
		return 0, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE game.companies SET ceo_player_id = $1 WHERE id = $2
	`, playerID, companyID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.shares
		SET location = 'PLAYER', player_id = $1
		WHERE id IN (
			SELECT id FROM game.shares
			WHERE company_id = $2 AND location = 'IPO'
			ORDER BY id LIMIT $3
		)
	`, playerID, companyID, ceoShareCount); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE game.shares
		SET location = 'OPEN_MARKET'
		WHERE id IN (
			SELECT id FROM game.shares
			WHERE company_id = $1 AND location = 'IPO'
			ORDER BY id LIMIT $2
		)
	`, companyID, openMarketShareCount); err != nil {
		return 0, err
	}
	return playerID, nil
}

// EnsureProfile upserts the user row backing auth identities.
func (s *Service) EnsureProfile(ctx context.Context, userID, email, username string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users.profiles (id, email, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = $2, username = $3
	`, userID, email, username)
	return err
}
