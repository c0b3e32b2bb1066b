package consts

const (
	// Generic tasks
	TaskMessageProcessing  = "message_processing"
	TaskConflictResolution = "conflict_resolution"
	TaskClientRequest      = "client_request"

	// Sales & trading tasks
	TaskExecuteTrade = "execute_trade"
	TaskMarketMaking = "market_making"
	TaskClientOrder  = "client_order"
	TaskMarketUpdate = "market_update"

	// Investment banking tasks
	TaskIPOUnderwriting   = "ipo_underwriting"
	TaskBondIssuance      = "bond_issuance"
	TaskMAAdvisory        = "ma_advisory"
	TaskFinancingAdvisory = "financing_advisory"

	// Oversight tasks
	TaskRegulatoryAnalysis  = "regulatory_analysis"
	TaskRegulatoryResponse  = "regulatory_response"
	TaskOpportunityAnalysis = "opportunity_analysis"
)

const (
	// Gateway action types
	ActionPlaceOrder   = "place_order"
	ActionCancelOrder  = "cancel_order"
	ActionMarketMaking = "market_making"
)
