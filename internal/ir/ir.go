package ir

// Catalog represents the table metadata needed for policy suggestion:
// the table itself, its columns, the foreign key constraints of the
// database, and any policies already attached to the table.
type Catalog struct {
	Table       *Table                  `json:"table"`
	Constraints []*ForeignKeyConstraint `json:"constraints"`
	Policies    []*Policy               `json:"policies"`
}

// Table identifies a table by schema and name and carries its columns.
type Table struct {
	Schema  string    `json:"schema"`
	Name    string    `json:"name"`
	Columns []*Column `json:"columns"`
}

// Column represents a table column
type Column struct {
	Name        string `json:"name"`
	Position    int    `json:"position"` // ordinal_position
	DataType    string `json:"data_type"`
	IsNullable  bool   `json:"is_nullable"`
	IsIdentity  bool   `json:"is_identity,omitempty"`
	IsGenerated bool   `json:"is_generated,omitempty"`
}

// ForeignKeyConstraint represents a FOREIGN KEY constraint edge between
// two tables. Read-only input; the core never mutates it.
type ForeignKeyConstraint struct {
	ID            string   `json:"id"`
	SourceSchema  string   `json:"source_schema"`
	SourceTable   string   `json:"source_table"`
	SourceColumns []string `json:"source_columns"`
	TargetSchema  string   `json:"target_schema"`
	TargetTable   string   `json:"target_table"`
	TargetColumns []string `json:"target_columns"`
	DeleteRule    string   `json:"delete_rule,omitempty"`
	UpdateRule    string   `json:"update_rule,omitempty"`
}

// PolicyCommand represents the command for which a policy applies
type PolicyCommand string

const (
	PolicyCommandAll    PolicyCommand = "ALL"
	PolicyCommandSelect PolicyCommand = "SELECT"
	PolicyCommandInsert PolicyCommand = "INSERT"
	PolicyCommandUpdate PolicyCommand = "UPDATE"
	PolicyCommandDelete PolicyCommand = "DELETE"
)

// PolicyAction distinguishes permissive from restrictive policies
type PolicyAction string

const (
	PolicyActionPermissive  PolicyAction = "PERMISSIVE"
	PolicyActionRestrictive PolicyAction = "RESTRICTIVE"
)

// Policy mirrors a pg_policies catalog row.
//
// Invariant: SELECT and DELETE policies carry no Check; INSERT carries
// no Definition; UPDATE and ALL may carry both.
type Policy struct {
	Name       string        `json:"name"`
	Schema     string        `json:"schema"`
	Table      string        `json:"table"`
	Command    PolicyCommand `json:"command"`
	Action     PolicyAction  `json:"action"`
	Roles      []string      `json:"roles"`
	Definition *string       `json:"definition"` // USING expression
	Check      *string       `json:"check"`      // WITH CHECK expression
}

// PolicyForm is the mutable draft of a Policy used while editing. A nil
// Definition or Check means the field was never set, which is distinct
// from a field cleared to the empty string.
type PolicyForm struct {
	Name       string
	Schema     string
	Table      string
	Command    PolicyCommand
	Action     PolicyAction
	Roles      []string
	Definition *string
	Check      *string
}

// GeneratedPolicy is the output record of the programmatic generator
// and the AI fallback: a Policy plus its rendered SQL.
type GeneratedPolicy struct {
	Name       string        `json:"name"`
	SQL        string        `json:"sql"`
	Schema     string        `json:"schema"`
	Table      string        `json:"table"`
	Command    PolicyCommand `json:"command"`
	Action     PolicyAction  `json:"action"`
	Roles      []string      `json:"roles"`
	Definition *string       `json:"definition,omitempty"`
	Check      *string       `json:"check,omitempty"`
}

// PolicyTemplate is a catalog entry produced by the smart template
// generator. Templates are generated fresh per call; the ID has no
// persisted identity.
type PolicyTemplate struct {
	ID           string        `json:"id"`
	TemplateName string        `json:"templateName"`
	Description  string        `json:"description"`
	Statement    string        `json:"statement"` // full SQL statement
	Name         string        `json:"name"`      // policy name used in Statement
	Definition   string        `json:"definition,omitempty"`
	Check        string        `json:"check,omitempty"`
	Command      PolicyCommand `json:"command"`
	Roles        []string      `json:"roles"`
}

// Ptr returns a pointer to s. Shorthand for building Definition and
// Check fields.
func Ptr(s string) *string {
	return &s
}
