package loader

import "time"

const (
	// defaultConfPath is the fallback configuration directory when no overrides are provided.
	defaultConfPath = "configs"
	// defaultEnvironment is used when APP_ENV is missing.
	defaultEnvironment = "development"
	// defaultServiceName is used when SERVICE_NAME is missing.
	defaultServiceName = "posts"
	// defaultServiceVersion is used when SERVICE_VERSION is missing.
	defaultServiceVersion = "dev"
	// defaultDriver keeps the service runnable without any database.
	defaultDriver = DriverMemory
	// defaultHTTPAddr is the listen address when the config omits one.
	defaultHTTPAddr = "0.0.0.0:8000"
	// defaultConnectRetryDelay matches the fixed delay between startup connection attempts.
	defaultConnectRetryDelay = 2 * time.Second
)

// applyDefaults fills zero values that the rest of the service relies on.
func applyDefaults(bc *Bootstrap) {
	if bc == nil {
		return
	}
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	if bc.Data.Driver == "" {
		bc.Data.Driver = defaultDriver
	}
	if bc.Data.Postgres.ConnectRetryDelay.Duration <= 0 {
		bc.Data.Postgres.ConnectRetryDelay.Duration = defaultConnectRetryDelay
	}
}
