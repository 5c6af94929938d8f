package catalog

import (
	"context"
	"fmt"

	"github.com/example/chimera/internal/core/mission"
	"github.com/example/chimera/internal/core/personnel"
)

var (
	stmtPersonnelByRank = statement("personnel.by-rank",
		"SELECT Personnel_ID, FName, LName, StartDate FROM PERSONNEL WHERE `Rank` = ? ORDER BY LName, Personnel_ID")

	stmtGruntCreatures = statement("grunt.creatures",
		"SELECT pok.Name, pok.HP, pok.Attack, pok.Defense "+
			"FROM POKEMON pok "+
			"JOIN OWNERSHIP o ON pok.Pokemon_ID = o.Pokemon_ID "+
			"JOIN PERSONNEL per ON o.Personnel_ID = per.Personnel_ID "+
			"WHERE per.FName = ? AND per.`Rank` = ? "+
			"ORDER BY pok.Name")

	stmtActiveMissions = statement("mission.active", `
		SELECT m.Mission_ID, m.Objective, p.FName, p.LName, ma.Role
		FROM MISSION m
		JOIN MISSION_ASSIGNMENT ma ON m.Mission_ID = ma.Mission_ID
		JOIN PERSONNEL p ON ma.Personnel_ID = p.Personnel_ID
		WHERE m.Status = ?
		ORDER BY m.Mission_ID, p.LName`)

	stmtProjectScientists = statement("project.scientists", `
		SELECT rp.Title, rp.Status, p.FName, p.LName, s.Specialization
		FROM RESEARCH_PROJECT rp
		JOIN SCIENTIST s ON rp.Project_ID = s.Project_ID
		JOIN PERSONNEL p ON s.Scientist_Personnel_ID = p.Personnel_ID
		WHERE rp.Title LIKE ?
		ORDER BY rp.Title, p.LName`)

	stmtPendingRisk = statement("mission.pending-risk", `
		SELECT COUNT(m.Mission_ID) AS Mission_Count, SUM(t.NotorietyScore) AS Total_Risk
		FROM MISSION m
		JOIN TRAINER t ON t.Trainer_ID = m.Target_Trainer_ID
		WHERE m.Status = ? AND t.NotorietyScore > 0`)

	stmtScientistsBySpecialization = statement("scientist.by-specialization", `
		SELECT p.FName, p.LName, s.Specialization, b.Name AS Base
		FROM SCIENTIST s
		JOIN PERSONNEL p ON s.Scientist_Personnel_ID = p.Personnel_ID
		LEFT JOIN BASE b ON p.Base_ID = b.Base_ID
		WHERE s.Specialization LIKE ?
		ORDER BY p.LName, p.FName`)

	stmtGruntsByBase = statement("grunt.by-base",
		"SELECT p.FName, p.LName, p.`Rank`, g.Squad_ID "+
			"FROM GRUNT g "+
			"JOIN PERSONNEL p ON g.Grunt_Personnel_ID = p.Personnel_ID "+
			"JOIN BASE b ON p.Base_ID = b.Base_ID "+
			"WHERE b.Name = ? "+
			"ORDER BY p.LName, p.FName")

	stmtProjectCombatRating = statement("project.combat-rating", `
		SELECT AVG(pok.Attack + pok.Defense) AS Avg_Rating
		FROM POKEMON pok
		JOIN RESEARCH_PROJECT rp ON pok.Project_ID = rp.Project_ID
		WHERE rp.Title = ?`)

	stmtMissionAssets = statement("mission.assets", `
		SELECT ma.Asset_Code, a.Asset_Type, ma.Acquisition_Status, a.Value_Estimate
		FROM MISSION_ASSETS ma
		JOIN ASSET a ON ma.Asset_Code = a.Asset_Code
		WHERE ma.Mission_ID = ? AND a.Asset_Type = ? AND ma.Acquisition_Status = ?
		ORDER BY ma.Asset_Code`)

	stmtMissionReadiness = statement("report.mission-readiness", `
		SELECT m.Mission_ID, m.Objective, p.Personnel_ID, p.LName,
		       pok.Pokemon_ID, pok.Name AS PokeName, pt.Type
		FROM MISSION m
		JOIN MISSION_ASSIGNMENT ma ON m.Mission_ID = ma.Mission_ID
		JOIN PERSONNEL p ON ma.Personnel_ID = p.Personnel_ID
		LEFT JOIN OWNERSHIP o ON p.Personnel_ID = o.Personnel_ID
		LEFT JOIN POKEMON pok ON o.Pokemon_ID = pok.Pokemon_ID
		LEFT JOIN POKEMON_TYPE pt ON pok.Pokemon_ID = pt.Pokemon_ID
		WHERE m.Status = ?
		ORDER BY m.Mission_ID, p.LName, p.Personnel_ID, pok.Name, pok.Pokemon_ID, pt.Type`)

	stmtExperimentalSubjects = statement("report.experimental-subjects", `
		SELECT pok.Name, COUNT(ee.Serum_ID) AS Exp_Count,
		       pok.HP, pok.Attack, pok.Defense, rp.Title AS Project
		FROM POKEMON pok
		JOIN EXPERIMENTATION_EVENT ee ON pok.Pokemon_ID = ee.Pokemon_ID
		LEFT JOIN RESEARCH_PROJECT rp ON pok.Project_ID = rp.Project_ID
		GROUP BY pok.Pokemon_ID, pok.Name, pok.HP, pok.Attack, pok.Defense, rp.Title
		HAVING COUNT(ee.Serum_ID) > ?
		ORDER BY Exp_Count DESC, pok.Name`)

	stmtRegionalStrength = statement("report.regional-strength", `
		SELECT b.Name AS Base, bp.LName AS Boss,
		       COUNT(DISTINCT g.Grunt_Personnel_ID) AS Grunt_Count,
		       AVG(pok.Attack + pok.Defense) AS Avg_Combat_Rating
		FROM BASE b
		LEFT JOIN BOSS bs ON b.Boss_ID = bs.Boss_Personnel_ID
		LEFT JOIN PERSONNEL bp ON bs.Boss_Personnel_ID = bp.Personnel_ID
		LEFT JOIN PERSONNEL mb ON mb.Base_ID = b.Base_ID
		LEFT JOIN GRUNT g ON mb.Personnel_ID = g.Grunt_Personnel_ID
		LEFT JOIN OWNERSHIP o ON g.Grunt_Personnel_ID = o.Personnel_ID
		LEFT JOIN POKEMON pok ON o.Pokemon_ID = pok.Pokemon_ID
		GROUP BY b.Base_ID, b.Name, bp.LName
		ORDER BY b.Name`)
)

func readOperations() []*Operation {
	return []*Operation{
		{
			ID:    "personnel.by-rank",
			Title: "Find Personnel by Rank",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "rank", Prompt: "Rank (Boss, Grunt, Scientist)", Type: ParamRank},
			},
			Statements: []Statement{stmtPersonnelByRank},
			Run: rows(stmtPersonnelByRank,
				func(a Args) []any { return []any{string(a.Rank("rank"))} },
				func(a Args) string { return fmt.Sprintf("No personnel found with rank '%s'.", a.Rank("rank")) }),
		},
		{
			ID:    "grunt.creatures",
			Title: "Find a Grunt's Pokemon",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "first_name", Prompt: "Grunt's First Name", Type: ParamName},
			},
			Statements: []Statement{stmtGruntCreatures},
			Run: rows(stmtGruntCreatures,
				func(a Args) []any { return []any{a.String("first_name"), string(personnel.RankGrunt)} },
				func(a Args) string { return fmt.Sprintf("No Pokemon found for a Grunt named '%s'.", a.String("first_name")) }),
		},
		{
			ID:         "mission.active",
			Title:      "Show Active Missions and Assignments",
			Kind:       KindRead,
			Shape:      ShapeRows,
			Statements: []Statement{stmtActiveMissions},
			Run: rows(stmtActiveMissions,
				func(Args) []any { return []any{string(mission.StatusActive)} },
				func(Args) string { return "No active missions with assigned personnel found." }),
		},
		{
			ID:    "project.scientists",
			Title: "Find Scientists on a Project",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "keyword", Prompt: "Keyword from the project title (e.g., 'Apex')", Type: ParamText},
			},
			Statements: []Statement{stmtProjectScientists},
			Run: rows(stmtProjectScientists,
				func(a Args) []any { return []any{contains(a.String("keyword"))} },
				func(a Args) string { return fmt.Sprintf("No projects found matching '%s'.", a.String("keyword")) }),
		},
		{
			ID:         "mission.pending-risk",
			Title:      "Calculate Pending Mission Risk",
			Kind:       KindRead,
			Shape:      ShapeScalar,
			Statements: []Statement{stmtPendingRisk},
			Run: scalar(stmtPendingRisk, "Total_Risk",
				func(Args) []any { return []any{string(mission.StatusPending)} },
				func(Args) string { return "No pending missions are targeting trainers with a notoriety score." }),
		},
		{
			ID:    "scientist.by-specialization",
			Title: "Scientists by Specialization",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "specialization", Prompt: "Specialization keyword", Type: ParamText, Default: "Genetics"},
			},
			Statements: []Statement{stmtScientistsBySpecialization},
			Run: rows(stmtScientistsBySpecialization,
				func(a Args) []any { return []any{contains(a.String("specialization"))} },
				func(a Args) string { return fmt.Sprintf("No %s specialists found.", a.String("specialization")) }),
		},
		{
			ID:    "grunt.by-base",
			Title: "Grunts by Base",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "base_name", Prompt: "Base Name (e.g., 'Chimera HQ')", Type: ParamText},
			},
			Statements: []Statement{stmtGruntsByBase},
			Run: rows(stmtGruntsByBase,
				func(a Args) []any { return []any{a.String("base_name")} },
				func(a Args) string {
					return fmt.Sprintf("No Grunts found at '%s' (or base does not exist).", a.String("base_name"))
				}),
		},
		{
			ID:    "project.combat-rating",
			Title: "Project Combat Rating",
			Kind:  KindRead,
			Shape: ShapeScalar,
			Params: []Param{
				{Name: "project_title", Prompt: "Project Title (e.g., 'Project Chimera')", Type: ParamText},
			},
			Statements: []Statement{stmtProjectCombatRating},
			Run: scalar(stmtProjectCombatRating, "Avg_Rating",
				func(a Args) []any { return []any{a.String("project_title")} },
				func(a Args) string { return fmt.Sprintf("No Pokemon found for project '%s'.", a.String("project_title")) }),
		},
		{
			ID:    "mission.assets",
			Title: "Search Mission Assets",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "mission_id", Prompt: "Mission ID", Type: ParamID},
				{Name: "asset_type", Prompt: "Asset Type (e.g., 'Stealth Helicopter')", Type: ParamText},
				{Name: "acquisition_status", Prompt: "Acquisition Status (e.g., 'Acquired')", Type: ParamText},
			},
			Statements: []Statement{stmtMissionAssets},
			Run: rows(stmtMissionAssets,
				func(a Args) []any {
					return []any{a.Int("mission_id"), a.String("asset_type"), a.String("acquisition_status")}
				},
				func(Args) string { return "No matching assets found." }),
		},
		{
			ID:         "report.mission-readiness",
			Title:      "Mission Readiness Report",
			Kind:       KindRead,
			Shape:      ShapeRows,
			Statements: []Statement{stmtMissionReadiness},
			Run: rows(stmtMissionReadiness,
				func(Args) []any { return []any{string(mission.StatusPending)} },
				func(Args) string { return "No pending missions with assigned personnel." }),
		},
		{
			ID:    "report.experimental-subjects",
			Title: "Experimental Subject Analysis",
			Kind:  KindRead,
			Shape: ShapeRows,
			Params: []Param{
				{Name: "min_experiments", Prompt: "Only subjects with more experiments than", Type: ParamCount, Default: "0"},
			},
			Statements: []Statement{stmtExperimentalSubjects},
			Run: rows(stmtExperimentalSubjects,
				func(a Args) []any { return []any{a.Int("min_experiments")} },
				func(a Args) string {
					return fmt.Sprintf("No subjects found with more than %d experiments.", a.Int("min_experiments"))
				}),
		},
		{
			ID:         "report.regional-strength",
			Title:      "Regional Strength Assessment",
			Kind:       KindRead,
			Shape:      ShapeRows,
			Statements: []Statement{stmtRegionalStrength},
			Run: rows(stmtRegionalStrength,
				func(Args) []any { return nil },
				func(Args) string { return "No bases on record." }),
		},
	}
}

// rows runs a single SELECT and returns its rows; an empty result is informational.
func rows(stmt Statement, bind func(Args) []any, empty func(Args) string) RunFunc {
	return func(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
		rs, err := r.Query(ctx, stmt, bind(a)...)
		if err != nil {
			return nil, err
		}
		out := &Outcome{Shape: ShapeRows, Rows: rs}
		if rs.Len() == 0 {
			out.Empty = true
			out.Message = empty(a)
		}
		return out, nil
	}
}

// scalar runs a single-row aggregate. The result is empty when key is NULL.
func scalar(stmt Statement, key string, bind func(Args) []any, empty func(Args) string) RunFunc {
	return func(ctx context.Context, r Runner, _ Env, a Args) (*Outcome, error) {
		rs, err := r.Query(ctx, stmt, bind(a)...)
		if err != nil {
			return nil, err
		}
		out := &Outcome{Shape: ShapeScalar, Rows: rs}
		if rs.Len() == 0 || rs.Value(0, key) == nil {
			out.Empty = true
			out.Message = empty(a)
			return out, nil
		}
		for i, col := range rs.Columns {
			out.Scalar = append(out.Scalar, Field{Name: col, Value: rs.Rows[0][i]})
		}
		return out, nil
	}
}

// contains wraps a keyword for a LIKE match. The wildcards are part of the
// bound value, not the statement.
func contains(keyword string) string {
	return "%" + keyword + "%"
}
