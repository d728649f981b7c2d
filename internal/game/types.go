package game

import "time"

type CreateGameInput struct {
	OwnerUserID string
	Name        string
	Mode        string
	Timerless   bool
	TurnLimit   int
}

type CreateGameResult struct {
	GameID   int64 `json:"game_id"`
	PlayerID int64 `json:"player_id"`
}

type JoinGameResult struct {
	PlayerID int64 `json:"player_id"`
	Cash     int64 `json:"cash"`
}

type PhaseView struct {
	GameID     int64      `json:"game_id"`
	TurnSeq    int        `json:"turn_seq"`
	Name       PhaseName  `json:"name"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	AllottedMs int64      `json:"allotted_ms"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Timerless  bool       `json:"timerless"`
}

type TrackView struct {
	ResourceType string        `json:"resource_type"`
	Scope        ResourceScope `json:"scope"`
	SectorID     *int64        `json:"sector_id,omitempty"`
	Prices       []int64       `json:"prices"`
	Position     int           `json:"position"`
	CurrentPrice int64         `json:"current_price"`
}

type FactoryView struct {
	ID              int64    `json:"id"`
	Size            int      `json:"size"`
	Workers         int64    `json:"workers"`
	Blueprint       []string `json:"blueprint"`
	Operational     bool     `json:"operational"`
	BuiltTurnSeq    int      `json:"built_turn_seq"`
	CustomersServed int64    `json:"customers_served"`
	Profit          int64    `json:"profit"`
}

type CampaignView struct {
	ID         int64         `json:"id"`
	Tier       int           `json:"tier"`
	Slot       int           `json:"slot"`
	Workers    int64         `json:"workers"`
	BrandBonus int64         `json:"brand_bonus"`
	State      CampaignState `json:"state"`
}

type CompanyEconomics struct {
	CompanyID      int64          `json:"company_id"`
	GameID         int64          `json:"game_id"`
	SectorID       int64          `json:"sector_id"`
	Name           string         `json:"name"`
	Status         CompanyStatus  `json:"status"`
	Cash           int64          `json:"cash"`
	Brand          int64          `json:"brand"`
	Workers        int64          `json:"workers"`
	ResearchMarker int            `json:"research_marker"`
	ResearchStage  int            `json:"research_stage"`
	Factories      []FactoryView  `json:"factories"`
	Campaigns      []CampaignView `json:"campaigns"`
}

type ResearchOrderView struct {
	ID            int64   `json:"id"`
	GameTurnID    int64   `json:"game_turn_id"`
	Cost          int64   `json:"cost"`
	ProgressGain  *int    `json:"progress_gain,omitempty"`
	FailureReason *string `json:"failure_reason,omitempty"`
}

type FactoryOrderInput struct {
	GameID           int64
	CompanyID        int64
	ActorID          int64
	CallerUserID     string
	Size             FactorySize
	ResourceTypes    []string
	UpgradeFactoryID *int64
}

type FactoryOrderResult struct {
	OrderID     int64 `json:"order_id"`
	Cost        int64 `json:"cost"`
	PendingCost int64 `json:"pending_cost"`
	CashOnHand  int64 `json:"cash_on_hand"`
}

type CampaignInput struct {
	GameID       int64
	CompanyID    int64
	ActorID      int64
	CallerUserID string
	Tier         MarketingTier
	Slot         int
}

type CampaignResult struct {
	CampaignID int64 `json:"campaign_id"`
	Cost       int64 `json:"cost"`
	BrandBonus int64 `json:"brand_bonus"`
	Cash       int64 `json:"cash"`
}

type ResearchInput struct {
	GameID       int64
	CompanyID    int64
	ActorID      int64
	CallerUserID string
	SectorID     int64
}

type ResearchResult struct {
	OrderID int64 `json:"order_id"`
	Cost    int64 `json:"cost"`
	Cash    int64 `json:"cash"`
}

type VoteInput struct {
	GameID       int64
	CompanyID    int64
	GameTurnID   int64
	ActorID      int64
	CallerUserID string
	Outcome      DistributionOutcome
}

type VoteResult struct {
	VoteID int64 `json:"vote_id"`
	Weight int64 `json:"weight"`
}

type AdvanceResult struct {
	TurnSeq  int       `json:"turn_seq"`
	Phase    PhaseName `json:"phase"`
	GameOver bool      `json:"game_over"`
}
