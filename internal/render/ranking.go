package render

// Sector names used by the curated ranking.
const (
	sectorTech       = "Technology"
	sectorComm       = "Communication Services"
	sectorConsumer   = "Consumer"
	sectorEnergy     = "Energy"
	sectorFinancials = "Financials"
	sectorHealth     = "Health Care"
	sectorIndustrial = "Industrials"
)

// CuratedRanking holds approximate year-end market caps ($B) of the largest
// US-listed companies.
var CuratedRanking = []RacePoint{
	{2000, "General Electric", sectorIndustrial, 475},
	{2000, "Cisco", sectorTech, 305},
	{2000, "Pfizer", sectorHealth, 290},
	{2000, "ExxonMobil", sectorEnergy, 286},
	{2000, "Microsoft", sectorTech, 258},
	{2000, "Walmart", sectorConsumer, 250},
	{2000, "Citigroup", sectorFinancials, 250},
	{2000, "AIG", sectorFinancials, 230},
	{2000, "Merck", sectorHealth, 210},
	{2000, "Intel", sectorTech, 200},

	{2005, "ExxonMobil", sectorEnergy, 370},
	{2005, "General Electric", sectorIndustrial, 370},
	{2005, "Microsoft", sectorTech, 280},
	{2005, "Citigroup", sectorFinancials, 250},
	{2005, "Walmart", sectorConsumer, 195},
	{2005, "Bank of America", sectorFinancials, 185},
	{2005, "Johnson & Johnson", sectorHealth, 180},
	{2005, "AIG", sectorFinancials, 175},
	{2005, "Pfizer", sectorHealth, 170},
	{2005, "Intel", sectorTech, 150},

	{2010, "ExxonMobil", sectorEnergy, 365},
	{2010, "Apple", sectorTech, 295},
	{2010, "Microsoft", sectorTech, 235},
	{2010, "Berkshire Hathaway", sectorFinancials, 200},
	{2010, "Walmart", sectorConsumer, 200},
	{2010, "General Electric", sectorIndustrial, 195},
	{2010, "Alphabet", sectorComm, 190},
	{2010, "Chevron", sectorEnergy, 185},
	{2010, "IBM", sectorTech, 180},
	{2010, "Johnson & Johnson", sectorHealth, 170},

	{2015, "Apple", sectorTech, 585},
	{2015, "Alphabet", sectorComm, 525},
	{2015, "Microsoft", sectorTech, 440},
	{2015, "Berkshire Hathaway", sectorFinancials, 325},
	{2015, "ExxonMobil", sectorEnergy, 325},
	{2015, "Amazon", sectorConsumer, 315},
	{2015, "Meta", sectorComm, 295},
	{2015, "General Electric", sectorIndustrial, 295},
	{2015, "Johnson & Johnson", sectorHealth, 285},
	{2015, "Wells Fargo", sectorFinancials, 275},

	{2020, "Apple", sectorTech, 2255},
	{2020, "Microsoft", sectorTech, 1680},
	{2020, "Amazon", sectorConsumer, 1635},
	{2020, "Alphabet", sectorComm, 1185},
	{2020, "Meta", sectorComm, 780},
	{2020, "Tesla", sectorConsumer, 670},
	{2020, "Berkshire Hathaway", sectorFinancials, 545},
	{2020, "Visa", sectorFinancials, 465},
	{2020, "Johnson & Johnson", sectorHealth, 415},
	{2020, "Walmart", sectorConsumer, 410},

	{2024, "Apple", sectorTech, 3785},
	{2024, "Nvidia", sectorTech, 3290},
	{2024, "Microsoft", sectorTech, 3135},
	{2024, "Alphabet", sectorComm, 2330},
	{2024, "Amazon", sectorConsumer, 2305},
	{2024, "Meta", sectorComm, 1480},
	{2024, "Tesla", sectorConsumer, 1295},
	{2024, "Broadcom", sectorTech, 1090},
	{2024, "Berkshire Hathaway", sectorFinancials, 975},
	{2024, "Eli Lilly", sectorHealth, 730},
}
