package consts

const (
	// Business divisions
	InvestmentBanking = "investment_banking"
	SalesTrading      = "sales_trading"
	Research          = "research"
	WealthManagement  = "wealth_management"
	AssetManagement   = "asset_management"

	// Oversight divisions
	RiskCompliance = "risk_compliance"
	Executive      = "executive"
)

const (
	// Division display names
	Division_InvestmentBanking = "Investment Banking Division"
	Division_SalesTrading      = "Sales & Trading Division"
	Division_Research          = "Research Division"
	Division_WealthManagement  = "Wealth Management Division"
	Division_AssetManagement   = "Asset Management Division"
	Division_RiskCompliance    = "Risk & Compliance Division"
	Division_Executive         = "Executive Committee"
)
