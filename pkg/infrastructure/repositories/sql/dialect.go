package sql

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vsinha/demandplan/pkg/domain/dataset"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names as registered with database/sql
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// dialect captures the per-driver differences in DDL and value encoding
type dialect struct {
	driver string
	open   string
	close  string
	types  map[dataset.Kind]string
	// temporalAsText stores dates and timestamps as formatted text
	temporalAsText bool
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driver: DriverSQLite,
		open:   `"`,
		close:  `"`,
		types: map[dataset.Kind]string{
			dataset.KindText:      "TEXT",
			dataset.KindInt:       "INTEGER",
			dataset.KindFloat:     "REAL",
			dataset.KindMoney:     "NUMERIC",
			dataset.KindDate:      "TEXT",
			dataset.KindTimestamp: "TEXT",
			dataset.KindBool:      "BOOLEAN",
		},
		temporalAsText: true,
	},
	DriverPostgres: {
		driver: DriverPostgres,
		open:   `"`,
		close:  `"`,
		types: map[dataset.Kind]string{
			dataset.KindText:      "TEXT",
			dataset.KindInt:       "BIGINT",
			dataset.KindFloat:     "DOUBLE PRECISION",
			dataset.KindMoney:     "NUMERIC(16,2)",
			dataset.KindDate:      "DATE",
			dataset.KindTimestamp: "TIMESTAMP",
			dataset.KindBool:      "BOOLEAN",
		},
	},
	DriverMySQL: {
		driver: DriverMySQL,
		open:   "`",
		close:  "`",
		types: map[dataset.Kind]string{
			dataset.KindText:      "TEXT",
			dataset.KindInt:       "BIGINT",
			dataset.KindFloat:     "DOUBLE",
			dataset.KindMoney:     "DECIMAL(16,2)",
			dataset.KindDate:      "DATE",
			dataset.KindTimestamp: "DATETIME",
			dataset.KindBool:      "BOOLEAN",
		},
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported SQL driver %q (expected sqlite, postgres or mysql)", driver)
	}
	return d, nil
}

func (d dialect) quote(name string) string {
	return d.open + name + d.close
}

func (d dialect) dropTable(t dataset.Table) string {
	return "DROP TABLE IF EXISTS " + d.quote(t.Name)
}

func (d dialect) createTable(t dataset.Table) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(d.quote(t.Name))
	b.WriteString(" (\n")
	for i, c := range t.Columns {
		b.WriteString("\t")
		b.WriteString(d.quote(c.Name))
		b.WriteString(" ")
		b.WriteString(d.types[c.Kind])
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

// insert builds a named insert, e.g. INSERT INTO "t" ("a", "b") VALUES (:a, :b)
func (d dialect) insert(t dataset.Table) string {
	columns := make([]string, len(t.Columns))
	params := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = d.quote(c.Name)
		params[i] = ":" + c.Name
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(t.Name), strings.Join(columns, ", "), strings.Join(params, ", "))
}

// mysqlDSN accepts mysql:// and mariadb:// URLs as well as native DSNs
func mysqlDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "mariadb://") && !strings.HasPrefix(dsn, "mysql://") {
		return dsn, nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	user, pass := "", ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	host := u.Host
	db := strings.TrimPrefix(u.Path, "/")
	if user == "" || host == "" || db == "" {
		return "", fmt.Errorf("incomplete dsn: user, host and database are required")
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true", user, pass, host, db), nil
}
