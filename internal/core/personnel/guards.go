package personnel

import "fmt"

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

// CanRecruit evaluates whether a recruit carries everything its subtype row needs.
// Rule: names are required; scientists need a specialization; bosses need a region.
func CanRecruit(r Recruit) GuardResult {
	if r == nil {
		return GuardResult{Allowed: false, Reason: "recruit has no rank"}
	}
	p := r.Person()
	if p.FirstName == "" || p.LastName == "" {
		return GuardResult{Allowed: false, Reason: "first and last name are required"}
	}

	switch v := r.(type) {
	case GruntRecruit:
		return GuardResult{Allowed: true}
	case ScientistRecruit:
		if v.Specialization == "" {
			return GuardResult{Allowed: false, Reason: "scientists need a specialization"}
		}
		return GuardResult{Allowed: true}
	case BossRecruit:
		if v.Region == "" {
			return GuardResult{Allowed: false, Reason: "bosses need a managed region"}
		}
		return GuardResult{Allowed: true}
	}
	return GuardResult{Allowed: false, Reason: fmt.Sprintf("unsupported rank %q", r.Rank())}
}

// ReassignContext is what the MIA cascade knows about a missing personnel member
// after looking up their base.
type ReassignContext struct {
	SubjectID int64
	BaseID    *int64
	BossID    *int64 // boss of the subject's base, nil when the base has none
}

// CanReassignCreatures evaluates whether a missing member's creatures go to their base's boss.
// Rule: reassignment needs a boss, and the boss cannot be the subject.
// When the subject is the boss their creatures stay where they are.
func CanReassignCreatures(ctx ReassignContext) GuardResult {
	if ctx.BaseID == nil {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("personnel %d has no base", ctx.SubjectID),
		}
	}
	if ctx.BossID == nil {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("base %d has no boss", *ctx.BaseID),
		}
	}
	if *ctx.BossID == ctx.SubjectID {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("personnel %d is the boss of base %d", ctx.SubjectID, *ctx.BaseID),
		}
	}
	return GuardResult{Allowed: true}
}
