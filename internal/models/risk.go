package models

// RiskLevel is the ordinal flood-risk classification of a forecast day.
type RiskLevel int

const (
	RiskNoFlood RiskLevel = iota
	RiskWarning
	RiskHighRisk
	RiskSevereFlood
)

// RiskNA marks days for which no usable data was available.
const RiskNA RiskLevel = -1

func (r RiskLevel) String() string {
	switch r {
	case RiskNoFlood:
		return "No Flood"
	case RiskWarning:
		return "Warning"
	case RiskHighRisk:
		return "High Risk"
	case RiskSevereFlood:
		return "Severe Flood"
	default:
		return "N/A"
	}
}

func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// Classify maps a water level onto a risk band for a site. The site
// threshold opens the Warning band, riskClass holds the ascending
// High Risk and Severe Flood boundaries. A value equal to a boundary
// falls into the higher band.
func Classify(value, threshold float64, riskClass [2]float64) RiskLevel {
	switch {
	case value < threshold:
		return RiskNoFlood
	case value < riskClass[0]:
		return RiskWarning
	case value < riskClass[1]:
		return RiskHighRisk
	default:
		return RiskSevereFlood
	}
}
