package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/trackfit/internal/config"
	"github.com/julianstephens/trackfit/internal/keyring"
	"github.com/julianstephens/trackfit/internal/logger"
	"github.com/julianstephens/trackfit/internal/storage"
	"github.com/julianstephens/trackfit/internal/storage/postgres"
	"github.com/julianstephens/trackfit/internal/storage/sqlite"
)

// NewProvider builds the storage backend for backend and target. For
// PostgreSQL, target may be a connection string or empty, in which case it
// is resolved from the environment or the OS keyring.
func NewProvider(backend config.Backend, target string) (storage.Provider, error) {
	switch backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	case config.BackendJSON:
		return storage.NewJSONStore(target), nil
	case config.BackendSQLite:
		return sqlite.NewStore(target), nil
	case config.BackendPostgres:
		explicit := target
		if explicit == string(config.BackendPostgres) {
			explicit = ""
		}
		connStr, source, err := keyring.ResolveConnectionString(explicit)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no PostgreSQL connection string configured. Use 'trackfit keyring set' or TRACKFIT_DB_CONNECTION")
			}
			return nil, err
		}
		if _, err := postgres.ValidateConnString(connStr); err != nil {
			switch {
			case errors.Is(err, postgres.ErrEmbeddedCredentials) && source == "keyring":
				// the keyring is encrypted at rest
			case errors.Is(err, postgres.ErrEmbeddedCredentials):
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed from the %s. Use the OS keyring or ~/.pgpass instead", source)
			default:
				return nil, err
			}
		}
		logger.Debug("Using PostgreSQL storage", "source", source)
		return postgres.New(connStr), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
