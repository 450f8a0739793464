package loader

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// 存储驱动名称。
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Bootstrap 是配置文件的根节点。
type Bootstrap struct {
	Server Server `json:"server"`
	Data   Data   `json:"data"`
}

// Server 描述入站传输配置。
type Server struct {
	HTTP     HTTP     `json:"http"`
	Handlers Handlers `json:"handlers"`
}

// HTTP 描述 Kratos HTTP Server 的监听参数。
type HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Handlers 描述控制器层的超时策略。
type Handlers struct {
	DefaultTimeout Duration `json:"default_timeout"`
	CommandTimeout Duration `json:"command_timeout"`
	QueryTimeout   Duration `json:"query_timeout"`
}

// Data 描述存储后端配置。
type Data struct {
	Driver   string     `json:"driver"`
	Postgres PostgreSQL `json:"postgres"`
	SQLite   SQLite     `json:"sqlite"`
}

// PostgreSQL 描述 pgxpool 连接池与事务管理器参数。
type PostgreSQL struct {
	DSN                      string      `json:"dsn"`
	MaxOpenConns             int32       `json:"max_open_conns"`
	MinOpenConns             int32       `json:"min_open_conns"`
	MaxConnLifetime          Duration    `json:"max_conn_lifetime"`
	MaxConnIdleTime          Duration    `json:"max_conn_idle_time"`
	HealthCheckPeriod        Duration    `json:"health_check_period"`
	Schema                   string      `json:"schema"`
	EnablePreparedStatements bool        `json:"enable_prepared_statements"`
	ConnectRetryDelay        Duration    `json:"connect_retry_delay"`
	ConnectMaxAttempts       int         `json:"connect_max_attempts"`
	AutoMigrate              bool        `json:"auto_migrate"`
	Transaction              Transaction `json:"transaction"`
}

// Transaction 描述 txmanager 的默认行为。
type Transaction struct {
	DefaultTimeout Duration `json:"default_timeout"`
	LockTimeout    Duration `json:"lock_timeout"`
	MaxRetries     int      `json:"max_retries"`
}

// SQLite 描述嵌入式数据库文件。
type SQLite struct {
	Path string `json:"path"`
}

// Duration 支持 "1.5s" 形式的字符串；裸数字按秒解析。
type Duration struct {
	time.Duration
}

// UnmarshalJSON 实现 json.Unmarshaler。
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		d.Duration = 0
	case float64:
		if value < 0 {
			return fmt.Errorf("invalid duration %v: must not be negative", value)
		}
		d.Duration = time.Duration(value * float64(time.Second))
	case string:
		if strings.TrimSpace(value) == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration type %T", v)
	}
	return nil
}

// MarshalJSON 实现 json.Marshaler。
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Validate 校验配置完整性，返回第一个不满足的约束。
func (b *Bootstrap) Validate() error {
	if b == nil {
		return fmt.Errorf("bootstrap is nil")
	}
	if b.Server.HTTP.Timeout.Duration < 0 {
		return fmt.Errorf("server.http.timeout must not be negative")
	}
	switch b.Data.Driver {
	case DriverMemory:
	case DriverPostgres:
		pg := b.Data.Postgres
		if strings.TrimSpace(pg.DSN) == "" {
			return fmt.Errorf("data.postgres.dsn is required for driver %q (set DATABASE_URL)", DriverPostgres)
		}
		if pg.MaxOpenConns < 0 || pg.MinOpenConns < 0 {
			return fmt.Errorf("data.postgres connection limits must not be negative")
		}
		if pg.MaxOpenConns > 0 && pg.MinOpenConns > pg.MaxOpenConns {
			return fmt.Errorf("data.postgres.min_open_conns (%d) exceeds max_open_conns (%d)", pg.MinOpenConns, pg.MaxOpenConns)
		}
		if pg.ConnectMaxAttempts < 0 {
			return fmt.Errorf("data.postgres.connect_max_attempts must not be negative")
		}
	case DriverSQLite:
		if strings.TrimSpace(b.Data.SQLite.Path) == "" {
			return fmt.Errorf("data.sqlite.path is required for driver %q", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported data.driver %q", b.Data.Driver)
	}
	return nil
}
