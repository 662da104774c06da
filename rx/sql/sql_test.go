package sql_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lguimbarda/reagent/rx"
	"github.com/lguimbarda/reagent/rx/core"
	"github.com/lguimbarda/reagent/rx/rxtest"
	rxsql "github.com/lguimbarda/reagent/rx/sql"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			age INTEGER NOT NULL
		)
	`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (name, age) VALUES ('Alice', 30), ('Bob', 25), ('Charlie', 35)`)
	require.NoError(t, err)
	return db
}

type User struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
	Age  int    `db:"age"`
}

func scanUser(rows *sql.Rows) (User, error) {
	var u User
	err := rows.Scan(&u.ID, &u.Name, &u.Age)
	return u, err
}

func scanName(rows *sql.Rows) (string, error) {
	var name string
	err := rows.Scan(&name)
	return name, err
}

func countUsers(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM users"))
	return n
}

func TestQuery(t *testing.T) {
	db := setupTestDB(t)
	sub := rxtest.NewMany[User]()

	rxsql.Query(context.Background(), db, "SELECT id, name, age FROM users ORDER BY id", scanUser).Subscribe(sub)

	sub.AssertValid(t)
	require.True(t, sub.Completed())
	assert.Equal(t, []User{
		{ID: 1, Name: "Alice", Age: 30},
		{ID: 2, Name: "Bob", Age: 25},
		{ID: 3, Name: "Charlie", Age: 35},
	}, sub.Items())
}

func TestQueryWithArgs(t *testing.T) {
	db := setupTestDB(t)

	names, err := rx.Slice(context.Background(),
		rxsql.Query(context.Background(), db.DB, "SELECT name FROM users WHERE age > ? ORDER BY id", scanName, 26))

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Charlie"}, names)
}

func TestQueryErrors(t *testing.T) {
	db := setupTestDB(t)
	scanFails := errors.New("scan failed")

	tests := []struct {
		name  string
		query string
		scan  rxsql.Scanner[string]
		check func(t *testing.T, err error)
	}{
		{
			name:  "invalid query",
			query: "SELECT name FROM nowhere",
			scan:  scanName,
			check: func(t *testing.T, err error) { assert.ErrorContains(t, err, "no such table") },
		},
		{
			name:  "scanner error",
			query: "SELECT name FROM users",
			scan:  func(*sql.Rows) (string, error) { return "", scanFails },
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, scanFails) },
		},
		{
			name:  "scanner panic",
			query: "SELECT name FROM users",
			scan:  func(*sql.Rows) (string, error) { panic("bad row") },
			check: func(t *testing.T, err error) {
				var panicErr core.ErrPanic
				require.ErrorAs(t, err, &panicErr)
				assert.Equal(t, "bad row", panicErr.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := rxtest.NewMany[string]()

			rxsql.Query(context.Background(), db, tt.query, tt.scan).Subscribe(sub)

			sub.AssertValid(t)
			assert.Empty(t, sub.Items())
			tt.check(t, sub.Err())
		})
	}
}

func TestQueryDispose(t *testing.T) {
	db := setupTestDB(t)
	scanned := 0
	scan := func(rows *sql.Rows) (string, error) {
		scanned++
		return scanName(rows)
	}

	t.Run("before execution", func(t *testing.T) {
		sub := rxtest.NewMany[string]().DisposeOnSubscribe()

		rxsql.Query(context.Background(), db, "SELECT name FROM users", scan).Subscribe(sub)

		sub.AssertValid(t)
		assert.Len(t, sub.Notifications(), 1, "only OnSubscribe")
		assert.Zero(t, scanned)
	})

	t.Run("mid stream", func(t *testing.T) {
		sub := rxtest.NewMany[string]().DisposeAfter(1)

		rxsql.Query(context.Background(), db, "SELECT name FROM users ORDER BY id", scan).Subscribe(sub)

		sub.AssertValid(t)
		assert.Equal(t, []string{"Alice"}, sub.Items())
		assert.False(t, sub.Terminated())
		assert.Equal(t, 1, scanned)
	})

	// The connection must have been released.
	assert.Equal(t, 3, countUsers(t, db))
}

func TestQueryCancelledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sub := rxtest.NewMany[string]()

	rxsql.Query(ctx, db, "SELECT name FROM users", scanName).Subscribe(sub)

	sub.AssertValid(t)
	assert.ErrorIs(t, sub.Err(), context.Canceled)
}

func TestQueryRunsPerSubscription(t *testing.T) {
	db := setupTestDB(t)
	names := rxsql.Query(context.Background(), db, "SELECT name FROM users ORDER BY id", scanName)

	first, err := rx.Slice(context.Background(), names)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO users (name, age) VALUES ('Dave', 41)")
	require.NoError(t, err)
	second, err := rx.Slice(context.Background(), names)
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "Dave"}, second)
}

func TestQueryClosesRowsBeforeComplete(t *testing.T) {
	db := setupTestDB(t)
	var total int
	var nestedErr error

	rxsql.Query(context.Background(), db, "SELECT name FROM users", scanName).Subscribe(rx.ManyFuncs[string]{
		Complete: func() {
			// Blocks forever on the single connection if rows were still open.
			total, nestedErr = rx.Await(context.Background(),
				rxsql.QueryRow(context.Background(), db, "SELECT COUNT(*) FROM users", func(rows *sql.Rows) (int, error) {
					var n int
					err := rows.Scan(&n)
					return n, err
				}))
		},
		Error: func(err error) { nestedErr = err },
	})

	require.NoError(t, nestedErr)
	assert.Equal(t, 3, total)
}

func TestQueryRow(t *testing.T) {
	db := setupTestDB(t)

	t.Run("found", func(t *testing.T) {
		user, err := rx.Await(context.Background(),
			rxsql.QueryRow(context.Background(), db, "SELECT id, name, age FROM users WHERE name = ?", scanUser, "Bob"))

		require.NoError(t, err)
		assert.Equal(t, User{ID: 2, Name: "Bob", Age: 25}, user)
	})

	t.Run("no rows", func(t *testing.T) {
		sub := rxtest.NewOne[User]()

		rxsql.QueryRow(context.Background(), db, "SELECT id, name, age FROM users WHERE name = ?", scanUser, "Zed").Subscribe(sub)

		sub.AssertValid(t)
		assert.ErrorIs(t, sub.Err(), sql.ErrNoRows)
	})
}

func TestQueryMaybe(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name     string
		userName string
		want     User
		wantOK   bool
	}{
		{name: "found", userName: "Charlie", want: User{ID: 3, Name: "Charlie", Age: 35}, wantOK: true},
		{name: "nothing", userName: "Zed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := rxtest.NewMaybe[User]()

			rxsql.QueryMaybe(context.Background(), db, "SELECT id, name, age FROM users WHERE name = ?", scanUser, tt.userName).Subscribe(sub)

			sub.AssertValid(t)
			require.NoError(t, sub.Err())
			got, ok := sub.Item()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, !tt.wantOK, sub.GotNothing())
		})
	}
}

func TestExec(t *testing.T) {
	db := setupTestDB(t)

	err := rx.Wait(context.Background(),
		rxsql.Exec(context.Background(), db, "INSERT INTO users (name, age) VALUES (?, ?)", "Dave", 41))

	require.NoError(t, err)
	assert.Equal(t, 4, countUsers(t, db))
}

func TestExecError(t *testing.T) {
	db := setupTestDB(t)
	sub := rxtest.NewTask()

	rxsql.Exec(context.Background(), db, "INSERT INTO users (name) VALUES ('NoAge')").Subscribe(sub)

	sub.AssertValid(t)
	assert.ErrorContains(t, sub.Err(), "NOT NULL")
	assert.Equal(t, 3, countUsers(t, db))
}

func TestExecDisposedBeforeExecution(t *testing.T) {
	db := setupTestDB(t)
	sub := rxtest.NewTask().DisposeOnSubscribe()

	rxsql.Exec(context.Background(), db, "DELETE FROM users").Subscribe(sub)

	sub.AssertValid(t)
	assert.False(t, sub.Terminated())
	assert.Equal(t, 3, countUsers(t, db))
}

func TestExecWithResult(t *testing.T) {
	db := setupTestDB(t)

	inserted, err := rx.Await(context.Background(),
		rxsql.ExecWithResult(context.Background(), db, "INSERT INTO users (name, age) VALUES (?, ?)", "Dave", 41))
	require.NoError(t, err)
	assert.Equal(t, rxsql.ExecResult{LastInsertID: 4, RowsAffected: 1}, inserted)

	updated, err := rx.Await(context.Background(),
		rxsql.ExecWithResult(context.Background(), db, "UPDATE users SET age = age + 1 WHERE age > ?", 29))
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.RowsAffected)
}

func TestTransaction(t *testing.T) {
	insert := func(ctx context.Context, tx *sql.Tx) (int64, error) {
		result, err := tx.ExecContext(ctx, "INSERT INTO users (name, age) VALUES ('Dave', 41)")
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}
	rollback := errors.New("rollback")

	tests := []struct {
		name      string
		fn        func(context.Context, *sql.Tx) (int64, error)
		wantErr   func(t *testing.T, err error)
		wantCount int
	}{
		{
			name:      "commit",
			fn:        insert,
			wantCount: 4,
		},
		{
			name: "rollback on error",
			fn: func(ctx context.Context, tx *sql.Tx) (int64, error) {
				if _, err := insert(ctx, tx); err != nil {
					return 0, err
				}
				return 0, rollback
			},
			wantErr:   func(t *testing.T, err error) { assert.ErrorIs(t, err, rollback) },
			wantCount: 3,
		},
		{
			name: "rollback on panic",
			fn: func(ctx context.Context, tx *sql.Tx) (int64, error) {
				if _, err := insert(ctx, tx); err != nil {
					return 0, err
				}
				panic("abort")
			},
			wantErr: func(t *testing.T, err error) {
				var panicErr core.ErrPanic
				assert.ErrorAs(t, err, &panicErr)
			},
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)

			id, err := rx.Await(context.Background(), rxsql.Transaction(context.Background(), db.DB, tt.fn))

			if tt.wantErr != nil {
				tt.wantErr(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(4), id)
			}
			assert.Equal(t, tt.wantCount, countUsers(t, db))
		})
	}
}

func TestQueryMaps(t *testing.T) {
	db := setupTestDB(t)

	rows, err := rx.Slice(context.Background(),
		rxsql.QueryMaps(context.Background(), db, "SELECT name, age FROM users WHERE id = ?", 1))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, "Alice", rows[0]["name"])
	assert.EqualValues(t, int64(30), rows[0]["age"])
}
