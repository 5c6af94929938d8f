package mission

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// AssetInput is a new entry for the asset catalog.
type AssetInput struct {
	Code  string
	Type  string
	Value float64
}

// NormalizeAssetCode trims and upper-cases an asset code ("veh-003" -> "VEH-003").
func NormalizeAssetCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// CanAddAsset evaluates whether an asset can be added to the catalog.
// Rule: code and type are required and the value estimate is non-negative.
func CanAddAsset(in AssetInput) GuardResult {
	if in.Code == "" || in.Type == "" {
		return GuardResult{Allowed: false, Reason: "asset code and type are required"}
	}
	if in.Value < 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("asset value must be non-negative (got %.2f)", in.Value),
		}
	}
	return GuardResult{Allowed: true}
}
