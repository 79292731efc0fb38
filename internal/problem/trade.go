package problem

import "strings"

// Trade is a professional skill category.
type Trade string

const (
	TradeElectrician     Trade = "Electrician"
	TradePlumber         Trade = "Plumber"
	TradeHVAC            Trade = "HVAC"
	TradeCarpenter       Trade = "Carpenter"
	TradePainter         Trade = "Painter"
	TradeRoofer          Trade = "Roofer"
	TradeApplianceRepair Trade = "Appliance Repair"
	TradeHandyman        Trade = "Handyman"
	TradeLocksmith       Trade = "Locksmith"
	TradeCleaner         Trade = "Cleaner"
)

// Trades lists every trade the service knows about, in prompt order.
var Trades = []Trade{
	TradeElectrician,
	TradePlumber,
	TradeHVAC,
	TradeCarpenter,
	TradePainter,
	TradeRoofer,
	TradeApplianceRepair,
	TradeHandyman,
	TradeLocksmith,
	TradeCleaner,
}

var tradeAliases = map[string]Trade{
	"electrical":           TradeElectrician,
	"electric":             TradeElectrician,
	"plumbing":             TradePlumber,
	"heating":              TradeHVAC,
	"heating and cooling":  TradeHVAC,
	"air conditioning":     TradeHVAC,
	"carpentry":            TradeCarpenter,
	"painting":             TradePainter,
	"roofing":              TradeRoofer,
	"appliance":            TradeApplianceRepair,
	"appliances":           TradeApplianceRepair,
	"appliance technician": TradeApplianceRepair,
	"handy man":            TradeHandyman,
	"general contractor":   TradeHandyman,
	"locksmithing":         TradeLocksmith,
	"cleaning":             TradeCleaner,
	"cleaning service":     TradeCleaner,
}

// ParseTrade maps a free-form trade name onto a known Trade.
func ParseTrade(s string) (Trade, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if key == "" {
		return "", false
	}

	for _, t := range Trades {
		if strings.ToLower(string(t)) == key {
			return t, true
		}
	}

	if t, ok := tradeAliases[key]; ok {
		return t, true
	}

	return "", false
}
