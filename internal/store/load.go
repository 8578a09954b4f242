package store

import (
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed runs.sql
var runsSQL string

// RunsFunctions lists the functions runs.sql must define
var RunsFunctions = []string{
	"init_runs",
	"insert_run",
	"insert_run_node",
	"insert_run_element",
	"insert_node_result",
	"select_run",
	"select_all_runs",
	"select_run_nodes",
	"select_run_elements",
	"delete_run",
}

// LoadRunsSql loads the run archive SQL functions. Without force it is a
// no-op when all functions already exist.
func LoadRunsSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, RunsFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing runs functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(runsSQL)
	if err != nil {
		return fmt.Errorf("error executing runs SQL: %w", err)
	}

	exist, err := checkFunctions(db, RunsFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	return nil
}

func checkFunctions(db *sql.DB, names []string) (bool, error) {
	for _, name := range names {
		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`, name).Scan(&exists)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}
