package app

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/chimera/internal/adapters/sqldb"
	"github.com/example/chimera/internal/core/catalog"
	"github.com/example/chimera/internal/ctxutil"
	"github.com/example/chimera/internal/db"
	"github.com/example/chimera/internal/ports/secondary"
)

var fixedNow = time.Date(2026, 3, 14, 16, 45, 0, 0, time.UTC)

// setupDispatcher returns a dispatcher over an in-memory database holding the
// reference schema and fixtures, plus the raw handle and captured logs.
func setupDispatcher(t *testing.T) (*Dispatcher, *sqlx.DB, *observer.ObservedLogs) {
	t.Helper()
	ctx := context.Background()

	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.InitSchema(ctx, database, db.GetSchemaSQL()))
	require.NoError(t, db.SeedFixtures(ctx, database))

	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(catalog.Default(), sqldb.NewStore(database), zap.New(core),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "exec-1" }),
	)
	return d, database, logs
}

func count(t *testing.T, database *sqlx.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, query, args...))
	return n
}

func phases(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.FilterMessage("phase").All() {
		out = append(out, e.ContextMap()["phase"].(string))
	}
	return out
}

// ============================================================================
// Validation
// ============================================================================

func TestExecute_UnknownOperation(t *testing.T) {
	d, _, logs := setupDispatcher(t)

	_, err := d.Execute(context.Background(), "base.nuke", nil)

	var ve *catalog.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "operation", ve.Param)
	require.Equal(t, []string{"validating", "rejected"}, phases(logs))
}

func TestExecute_BadRankWritesNothing(t *testing.T) {
	d, database, logs := setupDispatcher(t)

	_, err := d.Execute(context.Background(), "personnel.recruit", map[string]string{
		"first_name": "Ana", "last_name": "Reyes", "rank": "Admiral",
	})

	var ve *catalog.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "rank", ve.Param)
	require.Equal(t, 8, count(t, database, "SELECT COUNT(*) FROM PERSONNEL"))
	require.Equal(t, []string{"validating", "rejected"}, phases(logs))
}

func TestExecute_BadCreatureTypeWritesNothing(t *testing.T) {
	d, database, _ := setupDispatcher(t)

	_, err := d.Execute(context.Background(), "creature.add", map[string]string{
		"name": "Missingno", "type": "Glitch", "hp": "33", "attack": "136", "defense": "0",
	})

	var ve *catalog.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "type", ve.Param)
	require.Equal(t, 6, count(t, database, "SELECT COUNT(*) FROM POKEMON"))
	require.Equal(t, 7, count(t, database, "SELECT COUNT(*) FROM POKEMON_TYPE"))
}

// ============================================================================
// Writes
// ============================================================================

func TestExecute_RecruitCreatesOneMatchingSubtype(t *testing.T) {
	tests := []struct {
		rank     string
		extra    map[string]string
		subtable string
		subkey   string
	}{
		{rank: "Grunt", extra: map[string]string{"squad_id": "3"}, subtable: "GRUNT", subkey: "Grunt_Personnel_ID"},
		{rank: "scientist", extra: map[string]string{"specialization": "Cloning", "project_id": "1"}, subtable: "SCIENTIST", subkey: "Scientist_Personnel_ID"},
		{rank: "BOSS", extra: map[string]string{"region": "Hoenn"}, subtable: "BOSS", subkey: "Boss_Personnel_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.subtable, func(t *testing.T) {
			d, database, logs := setupDispatcher(t)
			params := map[string]string{"first_name": "Proton", "last_name": "Kane", "rank": tt.rank, "base_id": "2"}
			for k, v := range tt.extra {
				params[k] = v
			}

			out, err := d.Execute(context.Background(), "personnel.recruit", params)
			require.NoError(t, err)
			require.Equal(t, int64(9), out.LastInsertID)
			require.Equal(t, int64(2), out.Affected)
			require.Equal(t, "personnel.recruit", out.Operation)

			require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM "+tt.subtable+" WHERE "+tt.subkey+" = 9"))
			subtypes := count(t, database, `
				SELECT (SELECT COUNT(*) FROM GRUNT WHERE Grunt_Personnel_ID = 9)
				     + (SELECT COUNT(*) FROM SCIENTIST WHERE Scientist_Personnel_ID = 9)
				     + (SELECT COUNT(*) FROM BOSS WHERE Boss_Personnel_ID = 9)`)
			require.Equal(t, 1, subtypes)

			var start sql.NullTime
			require.NoError(t, database.Get(&start, "SELECT StartDate FROM PERSONNEL WHERE Personnel_ID = 9"))
			require.Equal(t, "2026-03-14", start.Time.Format("2006-01-02"))
			require.Equal(t, []string{"validating", "executing", "committed"}, phases(logs))
		})
	}
}

func TestExecute_FailedSubtypeRollsBackPersonnel(t *testing.T) {
	d, database, logs := setupDispatcher(t)

	// Project 999 does not exist, so the SCIENTIST insert fails after PERSONNEL succeeded.
	_, err := d.Execute(context.Background(), "personnel.recruit", map[string]string{
		"first_name": "Proton", "last_name": "Kane", "rank": "Scientist",
		"specialization": "Cloning", "project_id": "999",
	})

	var cv *catalog.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	require.Equal(t, catalog.ConstraintForeignKey, cv.Constraint)
	require.True(t, catalog.Recoverable(err))
	require.Equal(t, 8, count(t, database, "SELECT COUNT(*) FROM PERSONNEL"))
	require.Equal(t, []string{"validating", "executing", "rolled_back"}, phases(logs))
}

func TestExecute_MissionStatusEndDate(t *testing.T) {
	d, database, _ := setupDispatcher(t)
	ctx := context.Background()

	// Terminal status sets EndDate to today.
	out, err := d.Execute(ctx, "mission.update-status", map[string]string{"mission_id": "1", "status": "completed"})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Affected)

	var end sql.NullTime
	require.NoError(t, database.Get(&end, "SELECT EndDate FROM MISSION WHERE Mission_ID = 1"))
	require.True(t, end.Valid)
	require.Equal(t, "2026-03-14", end.Time.Format("2006-01-02"))

	// Non-terminal status leaves EndDate alone.
	_, err = d.Execute(ctx, "mission.update-status", map[string]string{"mission_id": "2", "status": "Active"})
	require.NoError(t, err)
	require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM MISSION WHERE Mission_ID = 2 AND Status = 'Active' AND EndDate IS NULL"))
}

func TestExecute_MissionStatusNotFound(t *testing.T) {
	d, _, _ := setupDispatcher(t)

	_, err := d.Execute(context.Background(), "mission.update-status", map[string]string{"mission_id": "99", "status": "Aborted"})

	var nf *catalog.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "mission.update-status", nf.Operation)
}

func TestExecute_DeleteBase(t *testing.T) {
	d, database, _ := setupDispatcher(t)
	ctx := context.Background()

	// Referenced by personnel.
	_, err := d.Execute(ctx, "base.delete", map[string]string{"base_id": "1"})
	var cv *catalog.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	require.Equal(t, catalog.ConstraintForeignKey, cv.Constraint)
	require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM BASE WHERE Base_ID = 1"))

	// Unknown base; the dispatcher names the operation.
	_, err = d.Execute(ctx, "base.delete", map[string]string{"base_id": "42"})
	var nf *catalog.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "base.delete", nf.Operation)

	// Unreferenced base.
	out, err := d.Execute(ctx, "base.delete", map[string]string{"base_id": "3"})
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Affected)
	require.Equal(t, 0, count(t, database, "SELECT COUNT(*) FROM BASE WHERE Base_ID = 3"))
}

func TestExecute_MarkMissing(t *testing.T) {
	t.Run("grunt with a boss", func(t *testing.T) {
		d, database, _ := setupDispatcher(t)

		// Jessie (4) is at Chimera HQ (boss 1), owns Koffing and Zubat, and has one assignment.
		out, err := d.Execute(context.Background(), "personnel.mark-mia", map[string]string{"personnel_id": "4"})
		require.NoError(t, err)
		require.Equal(t, int64(1), out.Affected)
		require.Equal(t, int64(2), out.Cascaded)

		require.Equal(t, 0, count(t, database, "SELECT COUNT(*) FROM OWNERSHIP WHERE Personnel_ID = 4"))
		require.Equal(t, 3, count(t, database, "SELECT COUNT(*) FROM OWNERSHIP WHERE Personnel_ID = 1"))
		require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM MISSION_ASSIGNMENT WHERE Personnel_ID = 4 AND Assignment_Status = 'Compromised'"))
	})

	t.Run("subject is the boss", func(t *testing.T) {
		d, database, _ := setupDispatcher(t)

		out, err := d.Execute(context.Background(), "personnel.mark-mia", map[string]string{"personnel_id": "1"})
		require.NoError(t, err)
		require.Equal(t, int64(0), out.Cascaded)
		require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM OWNERSHIP WHERE Personnel_ID = 1"))
	})

	t.Run("base without a boss", func(t *testing.T) {
		d, database, _ := setupDispatcher(t)
		_, err := database.Exec("INSERT INTO PERSONNEL (Personnel_ID, FName, LName, `Rank`, StartDate, Base_ID) VALUES (20, 'Petrel', 'Lance', 'Grunt', '2024-01-01', 3)")
		require.NoError(t, err)
		_, err = database.Exec("INSERT INTO OWNERSHIP (Personnel_ID, Pokemon_ID) VALUES (20, 5)")
		require.NoError(t, err)

		out, err := d.Execute(context.Background(), "personnel.mark-mia", map[string]string{"personnel_id": "20"})
		require.NoError(t, err)
		require.Equal(t, int64(0), out.Affected)
		require.Equal(t, int64(0), out.Cascaded)
		require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM OWNERSHIP WHERE Personnel_ID = 20"))
	})

	t.Run("unknown personnel", func(t *testing.T) {
		d, _, _ := setupDispatcher(t)

		_, err := d.Execute(context.Background(), "personnel.mark-mia", map[string]string{"personnel_id": "404"})
		var nf *catalog.NotFoundError
		require.ErrorAs(t, err, &nf)
	})
}

func TestExecute_AddCreature(t *testing.T) {
	d, database, _ := setupDispatcher(t)

	out, err := d.Execute(context.Background(), "creature.add", map[string]string{
		"name": "Grimer", "type": "poison", "hp": "80", "attack": "80", "defense": "50", "project_id": "2",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), out.LastInsertID)
	require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM POKEMON_TYPE WHERE Pokemon_ID = 7 AND Type = 'Poison'"))
}

func TestExecute_AssetCodeIsUpperCased(t *testing.T) {
	d, database, _ := setupDispatcher(t)
	ctx := context.Background()

	_, err := d.Execute(ctx, "asset.add", map[string]string{"asset_code": " veh-003 ", "asset_type": "Jeep", "value": "45000.00"})
	require.NoError(t, err)
	require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM ASSET WHERE Asset_Code = 'VEH-003'"))

	// Duplicate code.
	_, err = d.Execute(ctx, "asset.add", map[string]string{"asset_code": "VEH-003", "asset_type": "Jeep", "value": "1"})
	var cv *catalog.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	require.Equal(t, catalog.ConstraintUnique, cv.Constraint)
}

func TestExecute_DetachedFromCallerCancellation(t *testing.T) {
	d, database, _ := setupDispatcher(t)
	ctx, cancel := context.WithCancel(ctxutil.WithOperator(context.Background(), "giovanni"))
	cancel()

	_, err := d.Execute(ctx, "project.archive", map[string]string{"project_id": "1"})
	require.NoError(t, err)
	require.Equal(t, 1, count(t, database, "SELECT COUNT(*) FROM RESEARCH_PROJECT WHERE Project_ID = 1 AND Status = 'Archived'"))
}

func TestExecute_UndeclaredStatementRollsBack(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.InitSchema(context.Background(), database, db.GetSchemaSQL()))

	foreign, _ := catalog.Default().Lookup("base.delete")
	rogue := &catalog.Operation{
		ID:   "rogue",
		Kind: catalog.KindWrite,
		Run: func(ctx context.Context, r catalog.Runner, _ catalog.Env, _ catalog.Args) (*catalog.Outcome, error) {
			if _, err := r.Exec(ctx, foreign.Statements[0], 1); err != nil {
				return nil, err
			}
			return &catalog.Outcome{}, nil
		},
	}
	d := NewDispatcher(catalog.New(rogue), sqldb.NewStore(database), zap.NewNop())

	_, err = d.Execute(context.Background(), "rogue", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not declared")
}

// ============================================================================
// Reads
// ============================================================================

func TestExecute_ReadsAreRepeatable(t *testing.T) {
	d, _, _ := setupDispatcher(t)
	ctx := context.Background()

	first, err := d.Execute(ctx, "report.regional-strength", nil)
	require.NoError(t, err)
	second, err := d.Execute(ctx, "report.regional-strength", nil)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 3, first.Rows.Len())
	require.Equal(t, "Chimera HQ", first.Rows.Value(0, "Base"))
}

func TestExecute_PendingRisk(t *testing.T) {
	d, _, _ := setupDispatcher(t)

	out, err := d.Execute(context.Background(), "mission.pending-risk", nil)
	require.NoError(t, err)
	require.False(t, out.Empty)

	values := map[string]int64{}
	for _, f := range out.Scalar {
		n, ok := catalog.AsInt64(f.Value)
		require.True(t, ok, f.Name)
		values[f.Name] = n
	}
	// Mission 3 targets a trainer with no notoriety.
	require.Equal(t, map[string]int64{"Mission_Count": 1, "Total_Risk": 80}, values)
}

func TestExecute_ExperimentalSubjects(t *testing.T) {
	d, _, _ := setupDispatcher(t)

	out, err := d.Execute(context.Background(), "report.experimental-subjects", map[string]string{"min_experiments": "1"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Rows.Len())
	require.Equal(t, "Mewtwo", out.Rows.Value(0, "Name"))
}

func TestExecute_EmptyReadIsInformational(t *testing.T) {
	d, _, _ := setupDispatcher(t)

	out, err := d.Execute(context.Background(), "grunt.creatures", map[string]string{"first_name": "nobody"})
	require.NoError(t, err)
	require.True(t, out.Empty)
	require.Equal(t, "No Pokemon found for a Grunt named 'Nobody'.", out.Message)
}

func TestExecute_StoreUnavailable(t *testing.T) {
	database, err := db.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Close())

	d := NewDispatcher(catalog.Default(), sqldb.NewStore(database), zap.NewNop())
	_, err = d.Execute(context.Background(), "mission.active", nil)
	var ce *catalog.ConnectivityError
	require.ErrorAs(t, err, &ce)
	require.False(t, catalog.Recoverable(err))
}

// ============================================================================
// Transaction failures
// ============================================================================

// stubStore hands out a single scripted transaction.
type stubStore struct {
	beginErr error
	tx       *stubTx
}

func (s *stubStore) Begin(ctx context.Context, opts secondary.TxOptions) (secondary.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func (s *stubStore) Ping(ctx context.Context) error { return nil }
func (s *stubStore) Close() error                   { return nil }

// stubTx succeeds unless told otherwise and records how it ended.
type stubTx struct {
	execErr     error
	commitErr   error
	rollbackErr error

	committed  bool
	rolledBack bool
}

func (t *stubTx) Exec(ctx context.Context, query string, args ...any) (catalog.ExecResult, error) {
	if t.execErr != nil {
		return catalog.ExecResult{}, t.execErr
	}
	return catalog.ExecResult{RowsAffected: 1}, nil
}

func (t *stubTx) Query(ctx context.Context, query string, args ...any) (*catalog.RowSet, error) {
	return &catalog.RowSet{}, nil
}

func (t *stubTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *stubTx) Rollback() error {
	t.rolledBack = true
	return t.rollbackErr
}

func stubDispatcher(store *stubStore) (*Dispatcher, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewDispatcher(catalog.Default(), store, zap.New(core)), logs
}

func TestExecute_CommitFailure(t *testing.T) {
	commitErr := errors.New("disk I/O error")
	tx := &stubTx{commitErr: commitErr}
	d, logs := stubDispatcher(&stubStore{tx: tx})

	_, err := d.Execute(context.Background(), "base.delete", map[string]string{"base_id": "3"})

	var te *catalog.TransactionError
	require.ErrorAs(t, err, &te)
	require.ErrorIs(t, err, commitErr)
	require.True(t, tx.committed)
	require.True(t, tx.rolledBack)
	require.False(t, catalog.Recoverable(err))
	require.Equal(t, []string{"validating", "executing", "rolled_back"}, phases(logs))
}

func TestExecute_RollbackFailureJoinsErrors(t *testing.T) {
	rbErr := errors.New("connection lost during rollback")
	tx := &stubTx{
		execErr:     &catalog.ConstraintViolation{Constraint: catalog.ConstraintForeignKey},
		rollbackErr: rbErr,
	}
	d, logs := stubDispatcher(&stubStore{tx: tx})

	_, err := d.Execute(context.Background(), "base.delete", map[string]string{"base_id": "1"})

	var te *catalog.TransactionError
	require.ErrorAs(t, err, &te)
	require.ErrorIs(t, err, rbErr)
	var cv *catalog.ConstraintViolation
	require.ErrorAs(t, err, &cv, "the statement error should survive the join")
	require.False(t, tx.committed)
	require.Equal(t, []string{"validating", "executing", "rolled_back"}, phases(logs))
	require.Equal(t, 1, logs.FilterMessage("rollback failed").Len())
}

func TestExecute_BeginUnreachable(t *testing.T) {
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	d, logs := stubDispatcher(&stubStore{beginErr: &catalog.ConnectivityError{Err: netErr}})

	_, err := d.Execute(context.Background(), "mission.active", nil)

	var ce *catalog.ConnectivityError
	require.ErrorAs(t, err, &ce)
	require.ErrorIs(t, err, netErr)
	require.Equal(t, []string{"validating", "executing", "rolled_back"}, phases(logs))
}

func TestOperations(t *testing.T) {
	d, _, _ := setupDispatcher(t)

	ops := d.Operations()
	require.Len(t, ops, 21)
	require.Equal(t, 1, ops[0].Number)
	require.Equal(t, "personnel.by-rank", ops[0].ID)
	require.Equal(t, "read", ops[0].Kind)
	require.Equal(t, "personnel.mark-mia", ops[20].ID)
	require.Equal(t, "write", ops[20].Kind)

	recruit := ops[12]
	require.Equal(t, "personnel.recruit", recruit.ID)
	var region bool
	for _, p := range recruit.Params {
		if p.Name == "region" {
			region = true
			require.True(t, p.Applies(map[string]string{"rank": "boss"}))
			require.False(t, p.Applies(map[string]string{"rank": "grunt"}))
		}
	}
	require.True(t, region)
}
