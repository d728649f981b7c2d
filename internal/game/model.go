package game

// Money amounts are whole currency units; every division in the rules
// is a floor division, so int64 arithmetic is exact.
const (
	StartingPlayerCash  = int64(600)
	StartingCompanyCash = int64(400)
	SharesPerCompany    = 10

	PlotFee = int64(100)
)

// CompanyStatus tracks a company through its solvency lifecycle.
type CompanyStatus string

const (
	CompanyActive    CompanyStatus = "ACTIVE"
	CompanyInsolvent CompanyStatus = "INSOLVENT"
	CompanyInactive  CompanyStatus = "INACTIVE"
	CompanyBankrupt  CompanyStatus = "BANKRUPT"
)

// ShareLocation partitions a company's fixed 10-share rotation.
type ShareLocation string

const (
	LocationPlayer     ShareLocation = "PLAYER"
	LocationOpenMarket ShareLocation = "OPEN_MARKET"
	LocationIPO        ShareLocation = "IPO"
)

// FactorySize is the ordinal size class I..IV.
type FactorySize int

const (
	SizeI   FactorySize = 1
	SizeII  FactorySize = 2
	SizeIII FactorySize = 3
	SizeIV  FactorySize = 4
)

func (s FactorySize) Valid() bool {
	return s >= SizeI && s <= SizeIV
}

// CustomerCeiling is the per-turn cap on customers a factory can serve.
func (s FactorySize) CustomerCeiling() int64 {
	return int64(s) * 3
}

// MarketingTier is the campaign tier I..III.
type MarketingTier int

const (
	TierI   MarketingTier = 1
	TierII  MarketingTier = 2
	TierIII MarketingTier = 3
)

func (t MarketingTier) Valid() bool {
	return t >= TierI && t <= TierIII
}

// CampaignState is the marketing campaign lifecycle.
type CampaignState string

const (
	CampaignActive   CampaignState = "ACTIVE"
	CampaignDecaying CampaignState = "DECAYING"
	CampaignExpired  CampaignState = "EXPIRED"
)

// DecayCampaign advances a campaign one lifecycle step per turn.
func DecayCampaign(s CampaignState) CampaignState {
	switch s {
	case CampaignActive:
		return CampaignDecaying
	default:
		return CampaignExpired
	}
}
