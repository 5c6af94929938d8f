package personnel

import "testing"

func ptr(v int64) *int64 { return &v }

func TestParseRank(t *testing.T) {
	tests := []struct {
		raw     string
		want    Rank
		wantErr bool
	}{
		{raw: "Grunt", want: RankGrunt},
		{raw: "  scientist ", want: RankScientist},
		{raw: "BOSS", want: RankBoss},
		{raw: "Admiral", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseRank(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRank(%q) = %q, want error", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRank(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseRank(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewRecruit(t *testing.T) {
	p := Profile{FirstName: "Ana", LastName: "Reyes"}
	f := RecruitFields{SquadID: ptr(4), Specialization: "Genetics", Region: "Kanto"}

	for _, rank := range Ranks() {
		r := NewRecruit(rank, p, f)
		if r == nil {
			t.Fatalf("NewRecruit(%s) = nil", rank)
		}
		if r.Rank() != rank {
			t.Errorf("NewRecruit(%s).Rank() = %s", rank, r.Rank())
		}
		if r.Person() != p {
			t.Errorf("NewRecruit(%s).Person() = %+v, want %+v", rank, r.Person(), p)
		}
	}

	if r := NewRecruit("Admiral", p, f); r != nil {
		t.Errorf("NewRecruit(Admiral) = %#v, want nil", r)
	}
}

func TestCanRecruit(t *testing.T) {
	p := Profile{FirstName: "Ana", LastName: "Reyes"}

	tests := []struct {
		name        string
		recruit     Recruit
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "grunt with names",
			recruit:     GruntRecruit{Profile: p},
			wantAllowed: true,
		},
		{
			name:        "scientist needs specialization",
			recruit:     ScientistRecruit{Profile: p},
			wantAllowed: false,
			wantReason:  "scientists need a specialization",
		},
		{
			name:        "boss needs region",
			recruit:     BossRecruit{Profile: p},
			wantAllowed: false,
			wantReason:  "bosses need a managed region",
		},
		{
			name:        "boss with region",
			recruit:     BossRecruit{Profile: p, Region: "Johto"},
			wantAllowed: true,
		},
		{
			name:        "missing last name",
			recruit:     GruntRecruit{Profile: Profile{FirstName: "Ana"}},
			wantAllowed: false,
			wantReason:  "first and last name are required",
		},
		{
			name:        "nil recruit",
			recruit:     nil,
			wantAllowed: false,
			wantReason:  "recruit has no rank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRecruit(tt.recruit)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanRecruit() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanRecruit() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if err := result.Error(); tt.wantAllowed != (err == nil) {
				t.Errorf("CanRecruit().Error() = %v, wantAllowed %v", err, tt.wantAllowed)
			}
		})
	}
}

func TestCanReassignCreatures(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ReassignContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "grunt under a boss",
			ctx:         ReassignContext{SubjectID: 7, BaseID: ptr(1), BossID: ptr(2)},
			wantAllowed: true,
		},
		{
			name:        "base without boss",
			ctx:         ReassignContext{SubjectID: 7, BaseID: ptr(1)},
			wantAllowed: false,
			wantReason:  "base 1 has no boss",
		},
		{
			name:        "subject is the boss",
			ctx:         ReassignContext{SubjectID: 2, BaseID: ptr(1), BossID: ptr(2)},
			wantAllowed: false,
			wantReason:  "personnel 2 is the boss of base 1",
		},
		{
			name:        "no base",
			ctx:         ReassignContext{SubjectID: 7},
			wantAllowed: false,
			wantReason:  "personnel 7 has no base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanReassignCreatures(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanReassignCreatures() Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("CanReassignCreatures() Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}
