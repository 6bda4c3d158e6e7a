package mysql

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/rowdesk/pkg/adapter"
	mysqldialect "github.com/leapstack-labs/rowdesk/pkg/adapters/mysql/dialect"
	"github.com/leapstack-labs/rowdesk/pkg/dialect"
)

// DefaultPort is the MySQL server port used when none is configured.
const DefaultPort = 3306

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// Connect opens the MySQL connection pool.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "mysql", buildMySQLDSN(cfg), cfg)
}

// buildMySQLDSN constructs a go-sql-driver DSN such as
// user:pass@tcp(localhost:3306)/shop?parseTime=true.
func buildMySQLDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true

	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}

	return mc.FormatDSN()
}

// Dialect returns the MySQL dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return mysqldialect.MySQL
}

// ListTablesSQL lists the tables and views of the connected database.
func (a *Adapter) ListTablesSQL() (string, []any) {
	return `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		ORDER BY table_name
	`, nil
}

// ListColumnsSQL lists a table's columns. A "db.table" reference reads
// another database on the same server.
func (a *Adapter) ListColumnsSQL(table string) (string, []any) {
	schema, name := adapter.ParseQualifiedName(table, "")
	if schema == "" {
		return `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`, []any{name}
	}
	return `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, []any{schema, name}
}

// QualifyTable leaves unqualified names to the connected database.
func (a *Adapter) QualifyTable(table string) string {
	return adapter.QualifyTable(a.Dialect(), table, "")
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
