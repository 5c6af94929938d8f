package catalog

import (
	"context"
	"fmt"

	"github.com/example/chimera/internal/core/creature"
	"github.com/example/chimera/internal/core/mission"
	"github.com/example/chimera/internal/core/personnel"
)

// ProjectArchived is the RESEARCH_PROJECT status set by project.archive.
const ProjectArchived = "Archived"

var (
	stmtInsertPersonnel = statement("personnel.insert",
		"INSERT INTO PERSONNEL (FName, LName, `Rank`, StartDate, Base_ID) VALUES (?, ?, ?, ?, ?)")
	stmtInsertGrunt = statement("grunt.insert",
		"INSERT INTO GRUNT (Grunt_Personnel_ID, Squad_ID) VALUES (?, ?)")
	stmtInsertScientist = statement("scientist.insert",
		"INSERT INTO SCIENTIST (Scientist_Personnel_ID, Specialization, Project_ID) VALUES (?, ?, ?)")
	stmtInsertBoss = statement("boss.insert",
		"INSERT INTO BOSS (Boss_Personnel_ID, Region_Managed) VALUES (?, ?)")

	stmtInsertOwnership = statement("ownership.insert",
		"INSERT INTO OWNERSHIP (Personnel_ID, Pokemon_ID) VALUES (?, ?)")

	// The two mission status variants; which one runs depends only on mission.Status.Terminal.
	stmtMissionStatus = statement("mission.set-status",
		"UPDATE MISSION SET Status = ? WHERE Mission_ID = ?")
	stmtMissionStatusClosed = statement("mission.set-status-closed",
		"UPDATE MISSION SET Status = ?, EndDate = ? WHERE Mission_ID = ?")

	stmtInsertCreature = statement("creature.insert",
		"INSERT INTO POKEMON (Name, HP, Attack, Defense, Project_ID) VALUES (?, ?, ?, ?, ?)")
	stmtInsertCreatureType = statement("creature-type.insert",
		"INSERT INTO POKEMON_TYPE (Pokemon_ID, Type) VALUES (?, ?)")

	stmtInsertAsset = statement("asset.insert",
		"INSERT INTO ASSET (Asset_Code, Asset_Type, Value_Estimate) VALUES (?, ?, ?)")
	stmtRemoveMissionAsset = statement("mission-asset.delete",
		"DELETE FROM MISSION_ASSETS WHERE Mission_ID = ? AND Asset_Code = ?")

	stmtArchiveProject = statement("project.archive",
		"UPDATE RESEARCH_PROJECT SET Status = ? WHERE Project_ID = ?")
	stmtDeleteBase = statement("base.delete",
		"DELETE FROM BASE WHERE Base_ID = ?")

	stmtLookupMissing = statement("personnel.lookup-base", `
		SELECT p.Personnel_ID, p.Base_ID, b.Boss_ID
		FROM PERSONNEL p
		LEFT JOIN BASE b ON p.Base_ID = b.Base_ID
		WHERE p.Personnel_ID = ?`)
	stmtCompromiseAssignments = statement("assignment.compromise",
		"UPDATE MISSION_ASSIGNMENT SET Assignment_Status = ? WHERE Personnel_ID = ?")
	stmtReassignCreatures = statement("ownership.reassign",
		"UPDATE OWNERSHIP SET Personnel_ID = ? WHERE Personnel_ID = ?")
)

func writeOperations() []*Operation {
	return []*Operation{
		{
			ID:    "personnel.recruit",
			Title: "Recruit New Personnel",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "first_name", Prompt: "First Name", Type: ParamText},
				{Name: "last_name", Prompt: "Last Name", Type: ParamText},
				{Name: "rank", Prompt: "Rank (Boss, Grunt, Scientist)", Type: ParamRank},
				{Name: "base_id", Prompt: "Base ID (Enter to leave empty)", Type: ParamID, Optional: true},
				{Name: "squad_id", Prompt: "Squad ID (Enter to leave empty)", Type: ParamID, Optional: true,
					AppliesWhen: whenRank(personnel.RankGrunt)},
				{Name: "specialization", Prompt: "Specialization", Type: ParamText,
					AppliesWhen: whenRank(personnel.RankScientist)},
				{Name: "project_id", Prompt: "Project ID (Enter to leave empty)", Type: ParamID, Optional: true,
					AppliesWhen: whenRank(personnel.RankScientist)},
				{Name: "region", Prompt: "Region Managed", Type: ParamText,
					AppliesWhen: whenRank(personnel.RankBoss)},
			},
			Statements: []Statement{stmtInsertPersonnel, stmtInsertGrunt, stmtInsertScientist, stmtInsertBoss},
			Check: func(a Args) error {
				if err := personnel.CanRecruit(recruitFrom(a)).Error(); err != nil {
					return &ValidationError{Param: "rank", Reason: err.Error()}
				}
				return nil
			},
			Run: runRecruit,
		},
		{
			ID:    "creature.assign",
			Title: "Assign Pokemon to Personnel",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "personnel_id", Prompt: "Personnel ID", Type: ParamID},
				{Name: "creature_id", Prompt: "Pokemon ID", Type: ParamID},
			},
			Statements: []Statement{stmtInsertOwnership},
			Run: func(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
				res, err := r.Exec(ctx, stmtInsertOwnership, a.Int("personnel_id"), a.Int("creature_id"))
				if err != nil {
					return nil, err
				}
				return &Outcome{
					Shape:    ShapeAffected,
					Affected: res.RowsAffected,
					Message:  fmt.Sprintf("Pokemon %d assigned to Personnel %d.", a.Int("creature_id"), a.Int("personnel_id")),
				}, nil
			},
		},
		{
			ID:    "mission.update-status",
			Title: "Update Mission Status",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "mission_id", Prompt: "Mission ID to update", Type: ParamID},
				{Name: "status", Prompt: "New status (Pending, Active, Completed, Failed, Aborted)", Type: ParamMissionStatus},
			},
			Statements: []Statement{stmtMissionStatus, stmtMissionStatusClosed},
			Run:        runUpdateMissionStatus,
		},
		{
			ID:    "creature.add",
			Title: "Insert Pokemon (Strict Type Check)",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "name", Prompt: "Pokemon Name", Type: ParamText},
				{Name: "type", Prompt: "Type (Normal, Fire, Water, Grass, Electric...)", Type: ParamCreatureType},
				{Name: "hp", Prompt: "HP", Type: ParamCount},
				{Name: "attack", Prompt: "Attack", Type: ParamCount},
				{Name: "defense", Prompt: "Defense", Type: ParamCount},
				{Name: "project_id", Prompt: "Project ID (Enter to leave empty)", Type: ParamID, Optional: true},
			},
			Statements: []Statement{stmtInsertCreature, stmtInsertCreatureType},
			Check: func(a Args) error {
				if err := creature.CanRegister(a.String("name"), statsFrom(a)).Error(); err != nil {
					return &ValidationError{Param: "name", Reason: err.Error()}
				}
				return nil
			},
			Run: runAddCreature,
		},
		{
			ID:    "asset.add",
			Title: "Add New Asset",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "asset_code", Prompt: "Asset Code (e.g., 'VEH-003')", Type: ParamCode},
				{Name: "asset_type", Prompt: "Asset Type (e.g., 'Jeep')", Type: ParamText},
				{Name: "value", Prompt: "Value Estimate (e.g., 45000.00)", Type: ParamAmount},
			},
			Statements: []Statement{stmtInsertAsset},
			Check: func(a Args) error {
				in := mission.AssetInput{Code: a.String("asset_code"), Type: a.String("asset_type"), Value: a.Float("value")}
				if err := mission.CanAddAsset(in).Error(); err != nil {
					return &ValidationError{Param: "asset_code", Reason: err.Error()}
				}
				return nil
			},
			Run: func(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
				res, err := r.Exec(ctx, stmtInsertAsset, a.String("asset_code"), a.String("asset_type"), a.Float("value"))
				if err != nil {
					return nil, err
				}
				return &Outcome{
					Shape:    ShapeAffected,
					Affected: res.RowsAffected,
					Message:  fmt.Sprintf("Asset '%s' added to the database.", a.String("asset_code")),
				}, nil
			},
		},
		{
			ID:    "mission.remove-asset",
			Title: "Remove Asset from Mission",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "mission_id", Prompt: "Mission ID", Type: ParamID},
				{Name: "asset_code", Prompt: "Asset Code to remove (e.g., 'CH-HELI-01')", Type: ParamCode},
			},
			Statements: []Statement{stmtRemoveMissionAsset},
			Run: execOne(stmtRemoveMissionAsset,
				func(a Args) []any { return []any{a.Int("mission_id"), a.String("asset_code")} },
				func(a Args) string {
					return fmt.Sprintf("asset '%s' assigned to mission %d", a.String("asset_code"), a.Int("mission_id"))
				},
				func(a Args) string {
					return fmt.Sprintf("Asset '%s' removed from mission %d.", a.String("asset_code"), a.Int("mission_id"))
				}),
		},
		{
			ID:    "project.archive",
			Title: "Archive Research Project",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "project_id", Prompt: "Project ID to Archive", Type: ParamID},
			},
			Statements: []Statement{stmtArchiveProject},
			Run: execOne(stmtArchiveProject,
				func(a Args) []any { return []any{ProjectArchived, a.Int("project_id")} },
				func(a Args) string { return fmt.Sprintf("project with ID %d", a.Int("project_id")) },
				func(a Args) string { return fmt.Sprintf("Project %d marked as Archived.", a.Int("project_id")) }),
		},
		{
			ID:    "base.delete",
			Title: "Delete Base",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "base_id", Prompt: "Base ID to Delete", Type: ParamID},
			},
			Statements: []Statement{stmtDeleteBase},
			Run: execOne(stmtDeleteBase,
				func(a Args) []any { return []any{a.Int("base_id")} },
				func(a Args) string { return fmt.Sprintf("base with ID %d", a.Int("base_id")) },
				func(a Args) string { return fmt.Sprintf("Base %d deleted.", a.Int("base_id")) }),
		},
		{
			ID:    "personnel.mark-mia",
			Title: "Mark Personnel MIA",
			Kind:  KindWrite,
			Shape: ShapeAffected,
			Params: []Param{
				{Name: "personnel_id", Prompt: "Personnel ID", Type: ParamID},
			},
			Statements: []Statement{stmtLookupMissing, stmtCompromiseAssignments, stmtReassignCreatures},
			Run:        runMarkMissing,
		},
	}
}

func recruitFrom(a Args) personnel.Recruit {
	return personnel.NewRecruit(a.Rank("rank"),
		personnel.Profile{
			FirstName: a.String("first_name"),
			LastName:  a.String("last_name"),
			BaseID:    a.OptionalInt("base_id"),
		},
		personnel.RecruitFields{
			SquadID:        a.OptionalInt("squad_id"),
			Specialization: a.String("specialization"),
			ProjectID:      a.OptionalInt("project_id"),
			Region:         a.String("region"),
		})
}

func runRecruit(ctx context.Context, r Runner, env Env, a Args) (*Outcome, error) {
	rec := recruitFrom(a)
	p := rec.Person()

	res, err := r.Exec(ctx, stmtInsertPersonnel, p.FirstName, p.LastName, string(rec.Rank()), env.Today(), nullable(p.BaseID))
	if err != nil {
		return nil, err
	}
	id := res.LastInsertID

	var sub ExecResult
	switch v := rec.(type) {
	case personnel.GruntRecruit:
		sub, err = r.Exec(ctx, stmtInsertGrunt, id, nullable(v.SquadID))
	case personnel.ScientistRecruit:
		sub, err = r.Exec(ctx, stmtInsertScientist, id, v.Specialization, nullable(v.ProjectID))
	case personnel.BossRecruit:
		sub, err = r.Exec(ctx, stmtInsertBoss, id, v.Region)
	default:
		return nil, fmt.Errorf("unsupported recruit %T", rec)
	}
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Shape:        ShapeAffected,
		Affected:     res.RowsAffected + sub.RowsAffected,
		LastInsertID: id,
		Message:      fmt.Sprintf("Recruited %s %s %s (ID: %d).", rec.Rank(), p.FirstName, p.LastName, id),
	}, nil
}

func runUpdateMissionStatus(ctx context.Context, r Runner, env Env, a Args) (*Outcome, error) {
	id := a.Int("mission_id")
	tr := mission.ApplyStatusTransition(a.MissionStatus("status"), env.Now)

	var (
		res ExecResult
		err error
	)
	if tr.EndDate != nil {
		res, err = r.Exec(ctx, stmtMissionStatusClosed, string(tr.NewStatus), tr.EndDate.Format("2006-01-02"), id)
	} else {
		res, err = r.Exec(ctx, stmtMissionStatus, string(tr.NewStatus), id)
	}
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, &NotFoundError{Operation: "mission.update-status", Subject: fmt.Sprintf("mission with ID %d", id)}
	}

	return &Outcome{
		Shape:    ShapeAffected,
		Affected: res.RowsAffected,
		Message:  fmt.Sprintf("Mission %d status updated to '%s'.", id, tr.NewStatus),
	}, nil
}

func statsFrom(a Args) creature.Stats {
	return creature.Stats{HP: a.Int("hp"), Attack: a.Int("attack"), Defense: a.Int("defense")}
}

func runAddCreature(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
	name := a.String("name")
	kind := a.CreatureType("type")
	stats := statsFrom(a)

	res, err := r.Exec(ctx, stmtInsertCreature, name, stats.HP, stats.Attack, stats.Defense, nullable(a.OptionalInt("project_id")))
	if err != nil {
		return nil, err
	}
	typed, err := r.Exec(ctx, stmtInsertCreatureType, res.LastInsertID, string(kind))
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Shape:        ShapeAffected,
		Affected:     res.RowsAffected + typed.RowsAffected,
		LastInsertID: res.LastInsertID,
		Message:      fmt.Sprintf("Added %s (ID: %d) with type %s.", name, res.LastInsertID, kind),
	}, nil
}

// runMarkMissing marks a personnel member missing in action:
//  1. look up their base and its boss
//  2. mark their mission assignments compromised
//  3. hand their creatures to the boss, unless there is none or they are the boss
func runMarkMissing(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
	id := a.Int("personnel_id")

	subject, err := r.Query(ctx, stmtLookupMissing, id)
	if err != nil {
		return nil, err
	}
	if subject.Len() == 0 {
		return nil, &NotFoundError{Operation: "personnel.mark-mia", Subject: fmt.Sprintf("personnel with ID %d", id)}
	}

	rc := personnel.ReassignContext{SubjectID: id}
	if v, ok := subject.Int64(0, "Base_ID"); ok {
		rc.BaseID = &v
	}
	if v, ok := subject.Int64(0, "Boss_ID"); ok {
		rc.BossID = &v
	}

	assignments, err := r.Exec(ctx, stmtCompromiseAssignments, mission.AssignmentCompromised, id)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Shape: ShapeAffected, Affected: assignments.RowsAffected}

	guard := personnel.CanReassignCreatures(rc)
	if !guard.Allowed {
		out.Message = fmt.Sprintf("Personnel %d marked MIA: %d assignment(s) compromised; no Pokemon reassigned (%s).",
			id, assignments.RowsAffected, guard.Reason)
		return out, nil
	}

	moved, err := r.Exec(ctx, stmtReassignCreatures, *rc.BossID, id)
	if err != nil {
		return nil, err
	}
	out.Cascaded = moved.RowsAffected
	out.Message = fmt.Sprintf("Personnel %d marked MIA: %d assignment(s) compromised; %d Pokemon reassigned to boss %d.",
		id, assignments.RowsAffected, moved.RowsAffected, *rc.BossID)
	return out, nil
}

// execOne runs a single UPDATE/DELETE that must match at least one row.
func execOne(stmt Statement, bind func(Args) []any, subject, done func(Args) string) RunFunc {
	return func(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
		res, err := r.Exec(ctx, stmt, bind(a)...)
		if err != nil {
			return nil, err
		}
		if res.RowsAffected == 0 {
			return nil, &NotFoundError{Subject: subject(a)}
		}
		return &Outcome{Shape: ShapeAffected, Affected: res.RowsAffected, Message: done(a)}, nil
	}
}

// nullable turns an optional id into a bind value; nil binds NULL.
func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
