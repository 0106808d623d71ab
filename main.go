package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/asaidimu/go-datatable/core"
	"github.com/asaidimu/go-datatable/core/check"
	"github.com/asaidimu/go-datatable/core/table"
	"github.com/asaidimu/go-datatable/sqlite"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const seedSQL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	age INTEGER,
	address TEXT
);
INSERT INTO users (name, email, age, address) VALUES
	('Zoë Adams', 'zoe@example.com', 34, '{"city":"Lisbon","country":"Portugal"}'),
	('Bruno Costa', 'bruno@example.com', 41, '{"city":"Porto","country":"Portugal"}'),
	('Chen Wei', 'chen@example.com', 28, '{"city":"Shanghai","country":"China"}'),
	('Dana Ruiz', 'dana@example.com', 52, '{"city":"Madrid","country":"Spain"}'),
	('Élodie Martin', 'elodie@example.com', 23, '{"city":"Lyon","country":"France"}'),
	('Farid Haddad', 'farid@example.com', 37, '{"city":"Beirut","country":"Lebanon"}'),
	('Greta Lind', 'greta@example.com', 45, '{"city":"Malmö","country":"Sweden"}'),
	('Hugo Silva', 'hugo@example.com', 30, '{"city":"Lisbon","country":"Portugal"}');
`

func main() {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(seedSQL); err != nil {
		logger.Fatal("Failed to seed database", zap.Error(err))
	}

	ctx := context.Background()
	source := sqlite.NewSource(db, logger, &sqlite.SourceOptions{OrderBy: "name"})
	rows, err := source.Load(ctx, "users")
	if err != nil {
		logger.Fatal("Failed to load users", zap.Error(err))
	}
	logger.Info("Loaded users", zap.Int("count", len(rows)))

	state, err := table.New(rows, table.Params[core.Document]{RowsPerPage: 3, Logger: logger})
	if err != nil {
		logger.Fatal("Failed to create table state", zap.Error(err))
	}

	state.Subscribe(table.SubscriptionOptions{
		Event: table.PageChanged,
		Callback: func(ctx context.Context, event table.TableEvent) error {
			logger.Info("Page changed", zap.Int("page", event.Page), zap.Int("total", event.Total))
			return nil
		},
	})

	printPage := func(title string) {
		count := state.RowCount.Get()
		fmt.Printf("\n%s: rows %d-%d of %d, pages %v\n", title, count.Start, count.End, count.Total, state.PagesWithEllipsis.Get())
		for _, row := range state.Rows.Get() {
			fmt.Printf("  %-16v %-20v %v\n", row["name"], row["email"], row["age"])
		}
	}

	printPage("All users")

	state.Paginator().Next()
	printPage("Second page")

	// Searching matches nested address fields and ignores accents.
	state.Search("lisbon")
	printPage("Search 'lisbon'")

	state.ClearSearch()
	gt, _ := check.Lookup(check.OperatorGt)
	state.Filter(table.Filter[core.Document]{Identifier: "age", Value: 35, Compare: gt})
	printPage("Age over 35")

	state.SetSelectScope(table.SelectCurrentPage)
	state.SelectAll()
	fmt.Printf("\nSelected %d rows, all selected: %v\n", len(state.GetSelected()), state.IsAllSelected.Get())
}
