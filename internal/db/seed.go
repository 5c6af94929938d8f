package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SeedFixtures populates the database with development fixtures.
// IDs are fixed so tests and demos can refer to them:
//
//	bases      1 Chimera HQ (boss 1), 2 Cinnabar Lab (boss 2), 3 Outpost Zero (empty)
//	personnel  1-2 bosses, 3-5 grunts, 6-8 scientists
//	missions   1 Active, 2-3 Pending, 4 Completed
func SeedFixtures(ctx context.Context, database *sqlx.DB) error {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exec := func(what, query string, args ...any) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed %s: %w", what, err)
		}
		return nil
	}

	// Trainers
	trainers := []struct {
		id        int
		name      string
		notoriety int
	}{
		{1, "Red", 95},
		{2, "Ash Ketchum", 80},
		{3, "Brock", 0},
	}
	for _, tr := range trainers {
		if err := exec("trainers", "INSERT INTO TRAINER (Trainer_ID, Name, NotorietyScore) VALUES (?, ?, ?)",
			tr.id, tr.name, tr.notoriety); err != nil {
			return err
		}
	}

	// Research projects
	projects := []struct {
		id            int
		title, status string
	}{
		{1, "Project Chimera", "Active"},
		{2, "Project Apex Predator", "Active"},
		{3, "Project Dormant Gene", "Archived"},
	}
	for _, p := range projects {
		if err := exec("projects", "INSERT INTO RESEARCH_PROJECT (Project_ID, Title, Status) VALUES (?, ?, ?)",
			p.id, p.title, p.status); err != nil {
			return err
		}
	}

	// Bases start without a boss; bosses need personnel rows first.
	bases := []struct {
		id   int
		name string
	}{
		{1, "Chimera HQ"},
		{2, "Cinnabar Lab"},
		{3, "Outpost Zero"},
	}
	for _, b := range bases {
		if err := exec("bases", "INSERT INTO BASE (Base_ID, Name) VALUES (?, ?)", b.id, b.name); err != nil {
			return err
		}
	}

	// Personnel
	personnel := []struct {
		id                int
		first, last, rank string
		start             string
		base              int
	}{
		{1, "Giovanni", "Sakaki", "Boss", "2019-04-01", 1},
		{2, "Ariana", "Vance", "Boss", "2020-01-15", 2},
		{3, "James", "Kojiro", "Grunt", "2021-06-10", 1},
		{4, "Jessie", "Musashi", "Grunt", "2021-06-10", 1},
		{5, "Cassidy", "Reyes", "Grunt", "2022-02-20", 2},
		{6, "Ana", "Fuji", "Scientist", "2018-09-03", 2},
		{7, "Sebastian", "Zager", "Scientist", "2023-03-12", 1},
		{8, "Mira", "Tanaka", "Scientist", "2023-07-30", 2},
	}
	for _, p := range personnel {
		if err := exec("personnel", "INSERT INTO PERSONNEL (Personnel_ID, FName, LName, `Rank`, StartDate, Base_ID) VALUES (?, ?, ?, ?, ?, ?)",
			p.id, p.first, p.last, p.rank, p.start, p.base); err != nil {
			return err
		}
	}

	bosses := []struct {
		id     int
		region string
		base   int
	}{
		{1, "Kanto", 1},
		{2, "Johto", 2},
	}
	for _, b := range bosses {
		if err := exec("bosses", "INSERT INTO BOSS (Boss_Personnel_ID, Region_Managed) VALUES (?, ?)", b.id, b.region); err != nil {
			return err
		}
		if err := exec("base bosses", "UPDATE BASE SET Boss_ID = ? WHERE Base_ID = ?", b.id, b.base); err != nil {
			return err
		}
	}

	grunts := []struct{ id, squad int }{{3, 1}, {4, 1}, {5, 2}}
	for _, g := range grunts {
		if err := exec("grunts", "INSERT INTO GRUNT (Grunt_Personnel_ID, Squad_ID) VALUES (?, ?)", g.id, g.squad); err != nil {
			return err
		}
	}

	scientists := []struct {
		id             int
		specialization string
		project        int
	}{
		{6, "Genetics", 1},
		{7, "Cybernetics", 2},
		{8, "Genetic Engineering", 2},
	}
	for _, s := range scientists {
		if err := exec("scientists", "INSERT INTO SCIENTIST (Scientist_Personnel_ID, Specialization, Project_ID) VALUES (?, ?, ?)",
			s.id, s.specialization, s.project); err != nil {
			return err
		}
	}

	// Missions
	missions := []struct {
		id                int
		objective, status string
		target            int
		end               any
	}{
		{1, "Capture Mewtwo", "Active", 1, nil},
		{2, "Infiltrate Silph Co.", "Pending", 2, nil},
		{3, "Steal Moon Stones", "Pending", 3, nil},
		{4, "Raid Safari Zone", "Completed", 2, "2025-11-02"},
	}
	for _, m := range missions {
		if err := exec("missions", "INSERT INTO MISSION (Mission_ID, Objective, Status, Target_Trainer_ID, EndDate) VALUES (?, ?, ?, ?, ?)",
			m.id, m.objective, m.status, m.target, m.end); err != nil {
			return err
		}
	}

	assignments := []struct {
		mission, personnel int
		role               string
	}{
		{1, 3, "Infiltrator"},
		{1, 4, "Lookout"},
		{2, 5, "Lead"},
		{2, 7, "Tech Support"},
		{3, 3, "Driver"},
	}
	for _, a := range assignments {
		if err := exec("assignments", "INSERT INTO MISSION_ASSIGNMENT (Mission_ID, Personnel_ID, Role, Assignment_Status) VALUES (?, ?, ?, 'Assigned')",
			a.mission, a.personnel, a.role); err != nil {
			return err
		}
	}

	// Assets
	assets := []struct {
		code, kind string
		value      float64
	}{
		{"CH-HELI-01", "Stealth Helicopter", 1250000.00},
		{"VEH-001", "Jeep", 45000.00},
		{"VEH-002", "Jeep", 42000.00},
		{"TECH-01", "Master Ball Prototype", 500000.00},
	}
	for _, a := range assets {
		if err := exec("assets", "INSERT INTO ASSET (Asset_Code, Asset_Type, Value_Estimate) VALUES (?, ?, ?)",
			a.code, a.kind, a.value); err != nil {
			return err
		}
	}

	missionAssets := []struct {
		mission      int
		code, status string
	}{
		{1, "CH-HELI-01", "Acquired"},
		{1, "VEH-001", "Acquired"},
		{2, "VEH-002", "Requested"},
		{2, "TECH-01", "Acquired"},
	}
	for _, ma := range missionAssets {
		if err := exec("mission assets", "INSERT INTO MISSION_ASSETS (Mission_ID, Asset_Code, Acquisition_Status) VALUES (?, ?, ?)",
			ma.mission, ma.code, ma.status); err != nil {
			return err
		}
	}

	// Pokemon
	pokemon := []struct {
		id                  int
		name                string
		hp, attack, defense int
		project             any
		types               []string
	}{
		{1, "Mewtwo", 106, 110, 90, 1, []string{"Psychic"}},
		{2, "Ekans", 35, 60, 44, nil, []string{"Poison"}},
		{3, "Koffing", 40, 65, 95, nil, []string{"Poison"}},
		{4, "Arbok", 60, 95, 69, 2, []string{"Poison"}},
		{5, "Porygon", 65, 60, 70, 2, []string{"Normal"}},
		{6, "Zubat", 40, 45, 35, nil, []string{"Poison", "Flying"}},
	}
	for _, p := range pokemon {
		if err := exec("pokemon", "INSERT INTO POKEMON (Pokemon_ID, Name, HP, Attack, Defense, Project_ID) VALUES (?, ?, ?, ?, ?, ?)",
			p.id, p.name, p.hp, p.attack, p.defense, p.project); err != nil {
			return err
		}
		for _, typ := range p.types {
			if err := exec("pokemon types", "INSERT INTO POKEMON_TYPE (Pokemon_ID, Type) VALUES (?, ?)", p.id, typ); err != nil {
				return err
			}
		}
	}

	ownership := []struct{ personnel, pokemon int }{
		{1, 1},
		{3, 2},
		{4, 3},
		{4, 6},
		{5, 4},
	}
	for _, o := range ownership {
		if err := exec("ownership", "INSERT INTO OWNERSHIP (Personnel_ID, Pokemon_ID) VALUES (?, ?)", o.personnel, o.pokemon); err != nil {
			return err
		}
	}

	events := []struct {
		pokemon, serum, project int
		date                    string
	}{
		{1, 101, 1, "2025-06-01"},
		{1, 102, 1, "2025-06-15"},
		{1, 103, 1, "2025-07-02"},
		{4, 201, 2, "2025-08-11"},
		{5, 202, 2, "2025-08-12"},
		{5, 203, 2, "2025-09-01"},
	}
	for _, e := range events {
		if err := exec("experiments", "INSERT INTO EXPERIMENTATION_EVENT (Pokemon_ID, Serum_ID, Project_ID, Event_Date) VALUES (?, ?, ?, ?)",
			e.pokemon, e.serum, e.project, e.date); err != nil {
			return err
		}
	}

	return tx.Commit()
}
