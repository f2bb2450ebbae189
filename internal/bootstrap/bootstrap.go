// Package bootstrap provisions the application database at container
// startup: it ensures the UUID-generation extension is installed and grants
// full privileges on the application database to the application role. Both
// statements are idempotent; schema ownership stays with the external ORM
// layer and is deliberately out of scope here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	lockNamespace      = "cmldb"
	lockName           = "bootstrap"
	defaultLockTimeout = 45 * time.Second
)

// Options parameterizes the provisioning statements. Zero values fall back
// to the original init script literals via config defaults, not here.
type Options struct {
	Extensions    []string
	GrantDatabase string
	GrantRole     string
	LockTimeout   time.Duration
}

// Provisioner runs the startup statements exactly the way the init script
// did: single pass, no retries, failures surfaced verbatim.
type Provisioner struct {
	db    postgres.DBInterface
	opts  Options
	runID string
}

// New creates a Provisioner. Each instance carries a run ID that tags every
// log line of one invocation.
func New(db postgres.DBInterface, opts Options) *Provisioner {
	return &Provisioner{db: db, opts: opts, runID: uuid.NewString()}
}

// Run executes the provisioning statements under a transaction-scoped
// advisory lock so replicas starting at the same time serialize. The two
// statements are independent: a failure in one never suppresses the other,
// and all failures come back joined.
func (p *Provisioner) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).With("run_id", p.runID)

	lockTx, err := p.acquireLock(ctx)
	if err != nil {
		return err
	}

	extErr := p.ensureExtensions(ctx, log)
	grantErr := p.grantPrivileges(ctx, log)

	if err := errors.Join(extErr, grantErr); err != nil {
		if rbErr := lockTx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			log.Warn("Failed to release bootstrap advisory lock", "error", rbErr)
		}
		return err
	}
	if err := lockTx.Commit(ctx); err != nil {
		log.Warn("Failed to release bootstrap advisory lock", "error", err)
	}
	log.Info("Bootstrap complete",
		"extensions", len(p.opts.Extensions),
		"database", p.opts.GrantDatabase,
		"role", p.opts.GrantRole,
	)
	return nil
}

// acquireLock opens a transaction whose only job is to hold the advisory
// lock for the duration of the run. The statements themselves execute on
// separate pool connections so their outcomes stay independent.
func (p *Provisioner) acquireLock(ctx context.Context) (pgx.Tx, error) {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: begin lock session: %w", err)
	}
	timeout := p.opts.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := tx.Exec(
		lockCtx,
		"SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))",
		lockNamespace,
		lockName,
	); err != nil {
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			logger.FromContext(ctx).Warn("Failed to roll back lock session", "error", rbErr)
		}
		return nil, fmt.Errorf("bootstrap: acquire advisory lock: %w", err)
	}
	return tx, nil
}

// ensureExtensions issues CREATE EXTENSION IF NOT EXISTS for each configured
// extension. Extension names are sanitized as identifiers since DDL takes no
// bind parameters. A failing extension does not stop the remaining ones.
func (p *Provisioner) ensureExtensions(ctx context.Context, log logger.Logger) error {
	var errs []error
	for _, ext := range p.opts.Extensions {
		stmt := fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", pgx.Identifier{ext}.Sanitize())
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			errs = append(errs, fmt.Errorf("bootstrap: create extension %q: %w", ext, err))
			log.Error("Extension unavailable", "extension", ext, "error", err)
			continue
		}
		log.Info("Extension present", "extension", ext)
	}
	return errors.Join(errs...)
}

// grantPrivileges grants full privileges on the application database to the
// application role. Re-granting is a no-op on the engine side.
func (p *Provisioner) grantPrivileges(ctx context.Context, log logger.Logger) error {
	stmt := fmt.Sprintf(
		"GRANT ALL PRIVILEGES ON DATABASE %s TO %s",
		pgx.Identifier{p.opts.GrantDatabase}.Sanitize(),
		pgx.Identifier{p.opts.GrantRole}.Sanitize(),
	)
	if _, err := p.db.Exec(ctx, stmt); err != nil {
		log.Error("Privilege grant failed",
			"database", p.opts.GrantDatabase,
			"role", p.opts.GrantRole,
			"error", err,
		)
		return fmt.Errorf(
			"bootstrap: grant privileges on %q to %q: %w",
			p.opts.GrantDatabase, p.opts.GrantRole, err,
		)
	}
	log.Info("Privileges granted", "database", p.opts.GrantDatabase, "role", p.opts.GrantRole)
	return nil
}
