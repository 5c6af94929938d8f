package personnel

// Profile holds the fields every recruit carries regardless of rank.
type Profile struct {
	FirstName string
	LastName  string
	BaseID    *int64
}

// Recruit is the input for creating a personnel member. It is a closed
// union: GruntRecruit, ScientistRecruit and BossRecruit are the only variants,
// each carrying the fields its subtype table needs.
type Recruit interface {
	Rank() Rank
	Person() Profile
	isRecruit()
}

// GruntRecruit creates a PERSONNEL row plus a GRUNT row.
type GruntRecruit struct {
	Profile
	SquadID *int64
}

// ScientistRecruit creates a PERSONNEL row plus a SCIENTIST row.
type ScientistRecruit struct {
	Profile
	Specialization string
	ProjectID      *int64
}

// BossRecruit creates a PERSONNEL row plus a BOSS row.
type BossRecruit struct {
	Profile
	Region string
}

func (GruntRecruit) Rank() Rank     { return RankGrunt }
func (ScientistRecruit) Rank() Rank { return RankScientist }
func (BossRecruit) Rank() Rank      { return RankBoss }

func (r GruntRecruit) Person() Profile     { return r.Profile }
func (r ScientistRecruit) Person() Profile { return r.Profile }
func (r BossRecruit) Person() Profile      { return r.Profile }

func (GruntRecruit) isRecruit()     {}
func (ScientistRecruit) isRecruit() {}
func (BossRecruit) isRecruit()      {}

// RecruitFields are the rank-specific inputs collected alongside a rank.
// Fields not used by the chosen rank are ignored.
type RecruitFields struct {
	SquadID        *int64
	Specialization string
	ProjectID      *int64
	Region         string
}

// NewRecruit builds the variant matching rank.
func NewRecruit(rank Rank, p Profile, f RecruitFields) Recruit {
	switch rank {
	case RankGrunt:
		return GruntRecruit{Profile: p, SquadID: f.SquadID}
	case RankScientist:
		return ScientistRecruit{Profile: p, Specialization: f.Specialization, ProjectID: f.ProjectID}
	case RankBoss:
		return BossRecruit{Profile: p, Region: f.Region}
	}
	return nil
}
