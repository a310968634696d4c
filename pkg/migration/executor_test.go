package migration

import (
	"testing"
)

func TestSplitSQL(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []string
	}{
		{
			name:     "empty input",
			sql:      "",
			expected: nil,
		},
		{
			name:     "single statement",
			sql:      "CREATE TABLE customers (id SERIAL PRIMARY KEY);",
			expected: []string{"CREATE TABLE customers (id SERIAL PRIMARY KEY)"},
		},
		{
			name: "multiple statements",
			sql: `CREATE TABLE a (id INT);
CREATE TABLE b (id INT);`,
			expected: []string{
				"CREATE TABLE a (id INT)",
				"CREATE TABLE b (id INT)",
			},
		},
		{
			name: "comment lines are stripped",
			sql: `-- creates the catalog
CREATE TABLE movies (id INT);
-- done`,
			expected: []string{"CREATE TABLE movies (id INT)"},
		},
		{
			name:     "trailing statement without semicolon",
			sql:      "DROP TABLE rentals",
			expected: []string{"DROP TABLE rentals"},
		},
		{
			name: "dollar-quoted body keeps internal semicolons",
			sql: `CREATE FUNCTION f() RETURNS trigger AS $$
BEGIN
	INSERT INTO log VALUES (1);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;
CREATE TRIGGER t AFTER INSERT ON rentals EXECUTE FUNCTION f();`,
			expected: []string{
				"CREATE FUNCTION f() RETURNS trigger AS $$\nBEGIN\n\tINSERT INTO log VALUES (1);\n\tRETURN NEW;\nEND;\n$$ LANGUAGE plpgsql",
				"CREATE TRIGGER t AFTER INSERT ON rentals EXECUTE FUNCTION f()",
			},
		},
		{
			name:     "tagged dollar quotes",
			sql:      `CREATE FUNCTION g() RETURNS int AS $fn$ BEGIN RETURN 1; END; $fn$ LANGUAGE plpgsql;`,
			expected: []string{"CREATE FUNCTION g() RETURNS int AS $fn$ BEGIN RETURN 1; END; $fn$ LANGUAGE plpgsql"},
		},
		{
			name:     "positional parameter is not a dollar quote",
			sql:      "SELECT * FROM rentals WHERE rental_id = $1;",
			expected: []string{"SELECT * FROM rentals WHERE rental_id = $1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSQL(tt.sql)

			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d statements, got %d: %q", len(tt.expected), len(got), got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("statement %d:\nexpected %q\ngot      %q", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestDollarQuoteTag(t *testing.T) {
	tests := []struct {
		input string
		tag   string
		ok    bool
	}{
		{"$$ body $$", "$$", true},
		{"$fn$ body $fn$", "$fn$", true},
		{"$1", "", false},
		{"$ two", "", false},
		{"$", "", false},
		{"x$$", "", false},
	}

	for _, tt := range tests {
		tag, ok := dollarQuoteTag(tt.input)
		if ok != tt.ok || tag != tt.tag {
			t.Errorf("dollarQuoteTag(%q) = (%q, %v), expected (%q, %v)", tt.input, tag, ok, tt.tag, tt.ok)
		}
	}
}
