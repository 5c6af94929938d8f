// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// validation and execution to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/example/chimera/internal/core/catalog"
	"github.com/example/chimera/internal/ports/primary"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
)

func tagSuccess() string  { return green("[SUCCESS]") }
func tagInfo() string     { return cyan("[INFO]") }
func tagResult() string   { return cyan("[RESULT]") }
func tagRejected() string { return yellow("[REJECTED]") }
func tagError() string    { return red("[ERROR]") }

const rule = "────────────────────────────────────────────────────────────────"

// OperationAdapter is a thin adapter that translates CLI operations to OperationService calls.
// It depends only on the OperationService interface, enabling easy testing with mocks.
type OperationAdapter struct {
	service primary.OperationService
	out     io.Writer
}

// NewOperationAdapter creates a new OperationAdapter with the given service.
func NewOperationAdapter(service primary.OperationService, out io.Writer) *OperationAdapter {
	return &OperationAdapter{
		service: service,
		out:     out,
	}
}

// Operations returns the catalog listing.
func (a *OperationAdapter) Operations() []primary.OperationInfo {
	return a.service.Operations()
}

// Lookup finds an operation by menu number or id.
func (a *OperationAdapter) Lookup(choice string) (primary.OperationInfo, bool) {
	for _, op := range a.service.Operations() {
		if choice == op.ID || choice == fmt.Sprint(op.Number) {
			return op, true
		}
	}
	return primary.OperationInfo{}, false
}

// Run executes an operation and prints its outcome or failure.
// The error is returned after it has been printed.
func (a *OperationAdapter) Run(ctx context.Context, operationID string, params map[string]string) error {
	out, err := a.service.Execute(ctx, operationID, params)
	if err != nil {
		a.PrintError(err)
		return err
	}
	a.PrintOutcome(out)
	return nil
}

// List prints the catalog as a table.
func (a *OperationAdapter) List() {
	ops := a.service.Operations()
	fmt.Fprintf(a.out, "\n%-4s %-30s %-6s %s\n", "#", "ID", "KIND", "PARAMS")
	fmt.Fprintln(a.out, rule)
	for _, op := range ops {
		names := make([]string, 0, len(op.Params))
		for _, p := range op.Params {
			name := p.Name
			if p.Optional || p.Default != "" || p.Applies != nil {
				name += "?"
			}
			names = append(names, name)
		}
		fmt.Fprintf(a.out, "%-4d %-30s %-6s %s\n", op.Number, op.ID, op.Kind, strings.Join(names, ", "))
	}
	fmt.Fprintln(a.out)
}

// Menu prints the numbered main menu, reads first then writes.
func (a *OperationAdapter) Menu() {
	banner := strings.Repeat("=", 50)
	fmt.Fprintln(a.out, "\n"+banner)
	fmt.Fprintln(a.out, "    C H I M E R A  DB  -  O P E R A T I O N S")
	fmt.Fprintln(a.out, banner)

	section := ""
	for _, op := range a.service.Operations() {
		if op.Kind != section {
			section = op.Kind
			heading := " [READ QUERIES]"
			if section == catalog.KindWrite.String() {
				heading = "\n [WRITE QUERIES]"
			}
			fmt.Fprintln(a.out, heading)
		}
		fmt.Fprintf(a.out, "  %3d. %s\n", op.Number, op.Title)
	}

	fmt.Fprintln(a.out, "\n [SYSTEM]")
	fmt.Fprintln(a.out, "    q. Quit")
	fmt.Fprintln(a.out, banner)
}

// Title prints the heading shown before an operation prompts for input.
func (a *OperationAdapter) Title(op primary.OperationInfo) {
	fmt.Fprintf(a.out, "\n--- %d. %s ---\n", op.Number, op.Title)
}

// PrintOutcome renders a successful outcome.
func (a *OperationAdapter) PrintOutcome(out *catalog.Outcome) {
	if out.Empty {
		fmt.Fprintf(a.out, "\n%s %s\n", tagInfo(), out.Message)
		return
	}

	switch out.Shape {
	case catalog.ShapeAffected:
		fmt.Fprintf(a.out, "\n%s %s\n", tagSuccess(), out.Message)
	case catalog.ShapeScalar:
		a.printScalar(out)
	default:
		if layout, ok := layouts[out.Operation]; ok {
			layout(a.out, out.Rows)
			return
		}
		printTable(a.out, out.Rows)
	}
}

// PrintError renders a failure by kind.
func (a *OperationAdapter) PrintError(err error) {
	var (
		ve *catalog.ValidationError
		nf *catalog.NotFoundError
		cv *catalog.ConstraintViolation
		ce *catalog.ConnectivityError
	)
	switch {
	case errors.As(err, &ve):
		fmt.Fprintf(a.out, "\n%s %s\n", tagRejected(), ve.Error())
	case errors.As(err, &nf):
		fmt.Fprintf(a.out, "\n%s No %s found. Nothing was changed.\n", tagInfo(), nf.Subject)
	case errors.As(err, &cv):
		fmt.Fprintf(a.out, "\n%s %s\n", tagError(), constraintMessage(cv))
		fmt.Fprintf(a.out, "%s Transaction rolled back.\n", tagInfo())
	case errors.As(err, &ce):
		fmt.Fprintf(a.out, "\n%s %s\n", tagError(), ce.Error())
	default:
		fmt.Fprintf(a.out, "\n%s %v\n", tagError(), err)
		fmt.Fprintf(a.out, "%s Transaction rolled back.\n", tagInfo())
	}
}

func constraintMessage(cv *catalog.ConstraintViolation) string {
	switch cv.Constraint {
	case catalog.ConstraintForeignKey:
		return "Rejected by a foreign key: the record is still referenced, or refers to a record that does not exist."
	case catalog.ConstraintUnique:
		return "Rejected: a record with that key already exists."
	}
	return cv.Error()
}

func (a *OperationAdapter) printScalar(out *catalog.Outcome) {
	switch out.Operation {
	case "mission.pending-risk":
		fmt.Fprintf(a.out, "\n%s Total Notoriety Risk for %s pending mission(s): %s\n",
			tagResult(), scalarText(out, "Mission_Count"), scalarText(out, "Total_Risk"))
	case "project.combat-rating":
		fmt.Fprintf(a.out, "\n%s Average combat rating (attack + defense): %s\n",
			tagResult(), scalarText(out, "Avg_Rating"))
	default:
		parts := make([]string, len(out.Scalar))
		for i, f := range out.Scalar {
			parts[i] = fmt.Sprintf("%s: %s", f.Name, catalog.Text(f.Value))
		}
		fmt.Fprintf(a.out, "\n%s %s\n", tagResult(), strings.Join(parts, ", "))
	}
}

func scalarText(out *catalog.Outcome, name string) string {
	for _, f := range out.Scalar {
		if f.Name == name {
			return catalog.Text(f.Value)
		}
	}
	return ""
}

// printTable prints rows as fixed-width columns sized to their content.
func printTable(w io.Writer, rs *catalog.RowSet) {
	widths := make([]int, len(rs.Columns))
	for i, c := range rs.Columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	cells := make([][]string, rs.Len())
	for r, row := range rs.Rows {
		cells[r] = make([]string, len(row))
		for i, v := range row {
			cells[r][i] = catalog.Text(v)
			if n := utf8.RuneCountInString(cells[r][i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	line := func(values []string) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%-*s", widths[i], v)
		}
		fmt.Fprintln(w, "  "+strings.TrimRight(strings.Join(parts, " | "), " "))
	}

	fmt.Fprintf(w, "\nFound %d row(s):\n", rs.Len())
	line(rs.Columns)
	fmt.Fprintln(w, "  "+rule)
	for _, row := range cells {
		line(row)
	}
}

// layouts are the grouped renderings some reads use instead of a flat table.
var layouts = map[string]func(io.Writer, *catalog.RowSet){
	"grunt.creatures":          printCreatureStats,
	"mission.active":           printActiveMissions,
	"project.scientists":       printProjectScientists,
	"report.mission-readiness": printMissionReadiness,
}

func printCreatureStats(w io.Writer, rs *catalog.RowSet) {
	fmt.Fprintln(w, "\nPokemon owned:")
	for i := range rs.Rows {
		fmt.Fprintf(w, "  - %-18s (HP: %-3s, Atk: %-3s, Def: %-3s)\n",
			catalog.Text(rs.Value(i, "Name")),
			catalog.Text(rs.Value(i, "HP")),
			catalog.Text(rs.Value(i, "Attack")),
			catalog.Text(rs.Value(i, "Defense")))
	}
}

func printActiveMissions(w io.Writer, rs *catalog.RowSet) {
	fmt.Fprintln(w, "\nCurrent Active Missions:")
	current := ""
	for i := range rs.Rows {
		id := catalog.Text(rs.Value(i, "Mission_ID"))
		if id != current {
			current = id
			fmt.Fprintf(w, "\n  [Mission %s] %s\n", id, catalog.Text(rs.Value(i, "Objective")))
		}
		fmt.Fprintf(w, "    - %s %s (Role: %s)\n",
			catalog.Text(rs.Value(i, "FName")),
			catalog.Text(rs.Value(i, "LName")),
			catalog.Text(rs.Value(i, "Role")))
	}
}

func printProjectScientists(w io.Writer, rs *catalog.RowSet) {
	current := ""
	for i := range rs.Rows {
		title := catalog.Text(rs.Value(i, "Title"))
		if title != current {
			current = title
			fmt.Fprintf(w, "\n  [Project] %s (Status: %s)\n", title, catalog.Text(rs.Value(i, "Status")))
		}
		fmt.Fprintf(w, "    - Dr. %s %s (%s)\n",
			catalog.Text(rs.Value(i, "FName")),
			catalog.Text(rs.Value(i, "LName")),
			catalog.Text(rs.Value(i, "Specialization")))
	}
}

// printMissionReadiness groups by mission, then operative, listing each
// operative's Pokemon with their types. Operatives and Pokemon are keyed by id,
// so namesakes stay apart.
func printMissionReadiness(w io.Writer, rs *catalog.RowSet) {
	fmt.Fprintln(w, "\nPending Mission Readiness:")
	mission, operative, creature := "", "", ""
	for i := range rs.Rows {
		id := catalog.Text(rs.Value(i, "Mission_ID"))
		if id != mission {
			mission, operative, creature = id, "", ""
			fmt.Fprintf(w, "\n  [Mission %s] %s\n", id, catalog.Text(rs.Value(i, "Objective")))
		}
		personnelID := catalog.Text(rs.Value(i, "Personnel_ID"))
		if personnelID != operative {
			operative, creature = personnelID, ""
			fmt.Fprintf(w, "    Operative: %s (ID: %s)\n", catalog.Text(rs.Value(i, "LName")), personnelID)
		}
		pokemonID := catalog.Text(rs.Value(i, "Pokemon_ID"))
		switch {
		case pokemonID == "":
			fmt.Fprintln(w, "      (no Pokemon)")
		case pokemonID != creature:
			creature = pokemonID
			fmt.Fprintf(w, "      - %s [%s]\n", catalog.Text(rs.Value(i, "PokeName")), catalog.Text(rs.Value(i, "Type")))
		default:
			fmt.Fprintf(w, "        also [%s]\n", catalog.Text(rs.Value(i, "Type")))
		}
	}
}
