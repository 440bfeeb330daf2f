package types

import "fmt"

// RebalancePolicy selects when unit holdings are re-derived from the
// portfolio's current value instead of carried forward.
type RebalancePolicy string

const (
	RebalanceNone      RebalancePolicy = "none"
	RebalanceQuarterly RebalancePolicy = "quarterly"
	RebalanceAnnually  RebalancePolicy = "annually"
)

// ParseRebalancePolicy converts a user supplied string into a policy.
func ParseRebalancePolicy(s string) (RebalancePolicy, error) {
	switch RebalancePolicy(s) {
	case RebalanceNone, RebalanceQuarterly, RebalanceAnnually:
		return RebalancePolicy(s), nil
	case "":
		return RebalanceNone, nil
	default:
		return "", fmt.Errorf("unknown rebalance policy %q (want none, quarterly or annually)", s)
	}
}

func (p RebalancePolicy) String() string { return string(p) }
