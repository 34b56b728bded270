// Package user provides the concrete SQL-based implementation of the user
// domain repository.
package user

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/user"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/database"
)

// SQLUserRepository is the SQL-based implementation of user.Repository.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, wallet_address, subscription_status, preferred_language, saved_jurisdictions, created_at, updated_at`

// FindByID retrieves a user by their unique identifier. A missing user
// returns (nil, nil).
func (r *SQLUserRepository) FindByID(id string) (*user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by ID", "id", id)

	row := r.db.QueryRow(query, id)
	u, err := r.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Database().Debug("User not found by ID", "id", id)
			return nil, nil
		}
		r.logger.Database().Error("Failed to load user by ID", "error", err.Error(), "id", id)
		return nil, failure.Wrap(failure.StorageError, "user.findByID", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), id)
	return u, nil
}

// FindByWallet retrieves a user by wallet address. A missing user returns
// (nil, nil).
func (r *SQLUserRepository) FindByWallet(walletAddress string) (*user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE wallet_address = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user by wallet", "wallet", walletAddress)

	row := r.db.QueryRow(query, walletAddress)
	u, err := r.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load user by wallet", "error", err.Error())
		return nil, failure.Wrap(failure.StorageError, "user.findByWallet", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), u.UserID)
	return u, nil
}

// Create saves a new user to the database.
func (r *SQLUserRepository) Create(u *user.User) error {
	const query = `
		INSERT INTO users (id, wallet_address, subscription_status, preferred_language, saved_jurisdictions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing user insert", "id", u.UserID)

	jurisdictions, err := json.Marshal(u.SavedJurisdictions)
	if err != nil {
		return failure.Wrap(failure.StorageError, "user.create", err)
	}

	_, err = r.db.Exec(
		query,
		u.UserID,
		u.WalletAddress,
		string(u.SubscriptionStatus),
		string(u.PreferredLanguage),
		string(jurisdictions),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		r.logger.Database().Error("Failed to insert user", "error", err.Error(), "id", u.UserID)
		return failure.Wrap(failure.StorageError, "user.create", err)
	}

	r.logger.Database().Info("User created", "id", u.UserID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), u.UserID)
	return nil
}

// Update merges the patch into the stored user and returns the result.
func (r *SQLUserRepository) Update(id string, patch user.Patch) (*user.User, error) {
	current, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, failure.New(failure.StorageError, "user.update")
	}

	updated := patch.Apply(*current)
	updated.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE users
		SET wallet_address = ?, subscription_status = ?, preferred_language = ?, saved_jurisdictions = ?, updated_at = ?
		WHERE id = ?`

	start := time.Now()
	jurisdictions, err := json.Marshal(updated.SavedJurisdictions)
	if err != nil {
		return nil, failure.Wrap(failure.StorageError, "user.update", err)
	}

	_, err = r.db.Exec(
		query,
		updated.WalletAddress,
		string(updated.SubscriptionStatus),
		string(updated.PreferredLanguage),
		string(jurisdictions),
		updated.UpdatedAt,
		id,
	)
	if err != nil {
		r.logger.Database().Error("Failed to update user", "error", err.Error(), "id", id)
		return nil, failure.Wrap(failure.StorageError, "user.update", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), id)
	return &updated, nil
}

func (r *SQLUserRepository) scanUser(row *sql.Row) (*user.User, error) {
	var u user.User
	var wallet sql.NullString
	var status, language, jurisdictions string

	err := row.Scan(&u.UserID, &wallet, &status, &language, &jurisdictions, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if wallet.Valid {
		u.WalletAddress = &wallet.String
	}
	u.SubscriptionStatus = user.SubscriptionStatus(status)
	u.PreferredLanguage = user.Language(language)
	if err := json.Unmarshal([]byte(jurisdictions), &u.SavedJurisdictions); err != nil {
		u.SavedJurisdictions = []string{}
	}
	return &u, nil
}
