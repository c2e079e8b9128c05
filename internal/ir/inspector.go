package ir

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// Inspector builds a Catalog from database queries
type Inspector struct {
	db *sql.DB
}

// NewInspector creates a new catalog inspector
func NewInspector(db *sql.DB) *Inspector {
	return &Inspector{db: db}
}

// BuildCatalog loads the columns of the target table, all foreign key
// constraints of the database, and the policies currently attached to
// the table. The three queries are independent and run concurrently.
func (i *Inspector) BuildCatalog(ctx context.Context, schema, table string) (*Catalog, error) {
	if err := i.validateTableExists(ctx, schema, table); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		Table: &Table{Schema: schema, Name: table},
	}

	var eg errgroup.Group

	eg.Go(func() error {
		columns, err := i.buildColumns(ctx, schema, table)
		if err != nil {
			return fmt.Errorf("failed to build columns: %w", err)
		}
		catalog.Table.Columns = columns
		return nil
	})

	eg.Go(func() error {
		constraints, err := i.buildForeignKeys(ctx)
		if err != nil {
			return fmt.Errorf("failed to build foreign keys: %w", err)
		}
		catalog.Constraints = constraints
		return nil
	})

	eg.Go(func() error {
		policies, err := i.buildPolicies(ctx, schema, table)
		if err != nil {
			return fmt.Errorf("failed to build policies: %w", err)
		}
		catalog.Policies = policies
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (i *Inspector) validateTableExists(ctx context.Context, schema, table string) error {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)`
	if err := i.db.QueryRowContext(ctx, query, schema, table).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("table %s.%s does not exist", schema, table)
	}
	return nil
}

func (i *Inspector) buildColumns(ctx context.Context, schema, table string) ([]*Column, error) {
	query := `
		SELECT
			column_name,
			ordinal_position,
			data_type,
			is_nullable = 'YES',
			is_identity = 'YES',
			is_generated <> 'NEVER'
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`

	rows, err := i.db.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*Column
	for rows.Next() {
		col := &Column{}
		if err := rows.Scan(&col.Name, &col.Position, &col.DataType, &col.IsNullable, &col.IsIdentity, &col.IsGenerated); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// buildForeignKeys loads every FOREIGN KEY constraint in the database,
// ordered by constraint oid so the path resolver sees a deterministic
// input order.
func (i *Inspector) buildForeignKeys(ctx context.Context) ([]*ForeignKeyConstraint, error) {
	query := `
		SELECT
			c.oid::text,
			sn.nspname,
			sc.relname,
			(SELECT array_agg(a.attname ORDER BY k.ord)
			   FROM unnest(c.conkey) WITH ORDINALITY AS k(attnum, ord)
			   JOIN pg_attribute a ON a.attrelid = c.conrelid AND a.attnum = k.attnum)::text,
			tn.nspname,
			tc.relname,
			(SELECT array_agg(a.attname ORDER BY k.ord)
			   FROM unnest(c.confkey) WITH ORDINALITY AS k(attnum, ord)
			   JOIN pg_attribute a ON a.attrelid = c.confrelid AND a.attnum = k.attnum)::text,
			c.confdeltype::text,
			c.confupdtype::text
		FROM pg_constraint c
		JOIN pg_class sc ON sc.oid = c.conrelid
		JOIN pg_namespace sn ON sn.oid = sc.relnamespace
		JOIN pg_class tc ON tc.oid = c.confrelid
		JOIN pg_namespace tn ON tn.oid = tc.relnamespace
		WHERE c.contype = 'f'
		ORDER BY c.oid`

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var constraints []*ForeignKeyConstraint
	for rows.Next() {
		fk := &ForeignKeyConstraint{}
		var sourceColumns, targetColumns pq.StringArray
		var deleteRule, updateRule string
		if err := rows.Scan(&fk.ID, &fk.SourceSchema, &fk.SourceTable, &sourceColumns, &fk.TargetSchema, &fk.TargetTable, &targetColumns, &deleteRule, &updateRule); err != nil {
			return nil, err
		}
		fk.SourceColumns = sourceColumns
		fk.TargetColumns = targetColumns
		fk.DeleteRule = referentialActionName(deleteRule)
		fk.UpdateRule = referentialActionName(updateRule)
		constraints = append(constraints, fk)
	}
	return constraints, rows.Err()
}

func (i *Inspector) buildPolicies(ctx context.Context, schema, table string) ([]*Policy, error) {
	query := `
		SELECT
			policyname,
			permissive,
			roles::text,
			cmd,
			qual,
			with_check
		FROM pg_policies
		WHERE schemaname = $1 AND tablename = $2
		ORDER BY policyname`

	rows, err := i.db.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*Policy
	for rows.Next() {
		p := &Policy{Schema: schema, Table: table}
		var permissive, cmd string
		var roles pq.StringArray
		var qual, withCheck sql.NullString
		if err := rows.Scan(&p.Name, &permissive, &roles, &cmd, &qual, &withCheck); err != nil {
			return nil, err
		}
		p.Action = PolicyAction(strings.ToUpper(permissive))
		p.Roles = roles
		p.Command = PolicyCommand(strings.ToUpper(cmd))
		if qual.Valid {
			p.Definition = &qual.String
		}
		if withCheck.Valid {
			p.Check = &withCheck.String
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

// referentialActionName maps pg_constraint action codes to the
// information_schema spelling.
func referentialActionName(code string) string {
	switch code {
	case "a":
		return "NO ACTION"
	case "r":
		return "RESTRICT"
	case "c":
		return "CASCADE"
	case "n":
		return "SET NULL"
	case "d":
		return "SET DEFAULT"
	default:
		return code
	}
}
