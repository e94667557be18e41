package instrdata

// Vocabularies for synthetic instrument generation
// This package provides the instrument data constants shared between
// the generator and the workload components

// CountryCodes contains the ISIN region codes used for generated identifiers
var CountryCodes = []string{
	"US", "GB", "DE", "FR", "JP", "CA", "AU", "CH", "NL", "SE",
}

// NamePrefixes contains the first word candidates for short instrument names
var NamePrefixes = []string{
	"Global", "International", "Advanced", "Dynamic", "Strategic", "Premier",
	"Elite", "Innovative", "Sustainable", "Digital", "Smart", "Future",
	"Alpha", "Beta", "Gamma", "Delta", "Omega", "Prime", "Core", "Edge",
}

// CompanyNames contains the company word candidates for short instrument names
var CompanyNames = []string{
	"TechCorp", "DataSystems", "CloudVentures", "BioMedical", "EnergyPlus",
	"FinanceGroup", "ManufacturingCo", "RetailChain", "TransportHub", "MediaWorks",
	"HealthServices", "ConsumerGoods", "IndustrialSolutions", "AgriTech", "RealEstate",
	"Telecommunications", "Automotive", "Aerospace", "Pharmaceuticals", "Utilities",
}

// NameSuffixes contains the legal-form suffix candidates for short instrument names
var NameSuffixes = []string{
	"Holdings", "Industries", "Solutions", "Technologies", "Systems", "Services",
	"Group", "Corporation", "Enterprises", "Partners", "Ventures", "International",
	"Global", "Limited", "Inc", "LLC", "AG", "SA", "PLC", "GmbH",
}

// BusinessAreas contains business area phrases for long instrument names
var BusinessAreas = []string{
	"Financial Services", "Investment Banking", "Asset Management", "Private Equity",
	"Venture Capital", "Real Estate Investment", "Infrastructure Development",
	"Technology Innovation", "Digital Transformation", "Artificial Intelligence",
	"Machine Learning", "Data Analytics", "Cloud Computing", "Cybersecurity",
	"Biotechnology Research", "Pharmaceutical Development", "Medical Devices",
	"Healthcare Solutions", "Renewable Energy", "Solar Power Generation",
	"Wind Energy Systems", "Energy Storage Solutions", "Smart Grid Technology",
	"Transportation Services", "Logistics Management", "Supply Chain Solutions",
}

// GeographicRegions contains geography phrases for long instrument names
var GeographicRegions = []string{
	"North America", "Europe", "Asia-Pacific", "Latin America", "Middle East",
	"Scandinavia", "Eastern Europe", "Southeast Asia", "Sub-Saharan Africa",
	"Western Europe", "Central Asia", "Caribbean", "Pacific Islands",
	"Mediterranean", "Baltic States", "Nordic Region", "Emerging Markets",
}

// FundTypes contains fund type phrases for long instrument names
var FundTypes = []string{
	"Equity Fund", "Bond Fund", "Hybrid Fund", "Index Fund", "ETF",
	"Mutual Fund", "Hedge Fund", "Private Equity Fund", "Real Estate Fund",
	"Infrastructure Fund", "Commodity Fund", "Currency Fund", "Derivatives Fund",
	"Alternative Investment Fund", "Sustainable Investment Fund", "Impact Fund",
}

// InvestmentStrategies contains strategy phrases for long instrument names
var InvestmentStrategies = []string{
	"Growth Strategy", "Value Strategy", "Momentum Strategy", "Dividend Strategy",
	"Quality Strategy", "Low Volatility Strategy", "High Yield Strategy",
	"Multi-Factor Strategy", "ESG Strategy", "Quantitative Strategy",
	"Fundamental Analysis Strategy", "Technical Analysis Strategy",
	"Market Neutral Strategy", "Long Short Strategy", "Arbitrage Strategy",
}

// FillerDetails contains the filler phrases appended to long names below the
// minimum length
var FillerDetails = []string{
	"with Professional Management", "and Institutional Grade Infrastructure",
	"featuring Advanced Analytics", "and Regulatory Compliance",
	"including ESG Integration", "and Transparent Reporting",
	"with Daily Liquidity", "and Competitive Fee Structure",
}

// SearchKeywords contains the fixed vocabulary used by text-match queries.
// All of these occur naturally in generated long names.
var SearchKeywords = []string{
	"Investment", "Fund", "Technology", "Global", "Strategy",
	"Energy", "Healthcare", "Financial", "Sustainable", "Growth",
	"Management", "Infrastructure",
}

// LongNameMin and LongNameMax bound the generated long name length
const (
	LongNameMin = 100
	LongNameMax = 200
)
