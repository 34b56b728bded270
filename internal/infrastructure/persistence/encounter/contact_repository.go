package encounter

import (
	"database/sql"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/database"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/security"
)

// SQLContactRepository is the SQL-based implementation of
// encounter.ContactRepository. Phone and email are AES-GCM encrypted at
// rest; an empty AES key stores them in the clear (local development).
type SQLContactRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
	aesKey string
}

// NewSQLContactRepository creates a new instance of the repository.
func NewSQLContactRepository(db *database.DB, logger *logging.ChanneledLogger, aesKey string) *SQLContactRepository {
	return &SQLContactRepository{
		db:     db,
		logger: logger,
		aesKey: aesKey,
	}
}

// FindByUser returns a user's alert contacts in insertion order.
func (r *SQLContactRepository) FindByUser(userID string) ([]encounter.AlertContact, error) {
	const query = `SELECT id, user_id, name, phone, email, relationship FROM alert_contacts WHERE user_id = ? ORDER BY rowid`

	start := time.Now()
	r.logger.Database().Debug("Loading alert contacts", "userId", userID)

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Database().Error("Failed to query alert contacts", "error", err.Error(), "userId", userID)
		return nil, failure.Wrap(failure.StorageError, "contact.findByUser", err)
	}
	defer rows.Close()

	var contacts []encounter.AlertContact
	for rows.Next() {
		var c encounter.AlertContact
		var phone, email, relationship sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &phone, &email, &relationship); err != nil {
			return nil, failure.Wrap(failure.StorageError, "contact.findByUser", err)
		}
		c.Phone = r.reveal(phone.String)
		c.Email = r.reveal(email.String)
		c.Relationship = relationship.String
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, failure.Wrap(failure.StorageError, "contact.findByUser", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), userID)
	return contacts, nil
}

// Create saves a new alert contact. Contacts failing validation never
// reach the database.
func (r *SQLContactRepository) Create(c *encounter.AlertContact) error {
	if err := c.Validate(); err != nil {
		return err
	}

	const query = `
		INSERT INTO alert_contacts (id, user_id, name, phone, email, relationship)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, c.ID, c.UserID, c.Name, r.conceal(c.Phone), r.conceal(c.Email), c.Relationship)
	if err != nil {
		r.logger.Database().Error("Failed to insert alert contact", "error", err.Error(), "id", c.ID)
		return failure.Wrap(failure.StorageError, "contact.create", err)
	}

	r.logger.Database().Info("Alert contact created", "id", c.ID, "userId", c.UserID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), c.UserID)
	return nil
}

// Update merges the patch into the stored contact and returns the result.
// The patched contact must still satisfy the phone-or-email invariant.
func (r *SQLContactRepository) Update(id string, patch encounter.ContactPatch) (*encounter.AlertContact, error) {
	current, err := r.findByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, failure.New(failure.StorageError, "contact.update")
	}

	updated := patch.Apply(*current)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	const query = `UPDATE alert_contacts SET name = ?, phone = ?, email = ?, relationship = ? WHERE id = ?`

	start := time.Now()
	_, err = r.db.Exec(query, updated.Name, r.conceal(updated.Phone), r.conceal(updated.Email), updated.Relationship, id)
	if err != nil {
		r.logger.Database().Error("Failed to update alert contact", "error", err.Error(), "id", id)
		return nil, failure.Wrap(failure.StorageError, "contact.update", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), updated.UserID)
	return &updated, nil
}

// Delete removes an alert contact.
func (r *SQLContactRepository) Delete(id string) error {
	const query = `DELETE FROM alert_contacts WHERE id = ?`

	if _, err := r.db.Exec(query, id); err != nil {
		r.logger.Database().Error("Failed to delete alert contact", "error", err.Error(), "id", id)
		return failure.Wrap(failure.StorageError, "contact.delete", err)
	}
	return nil
}

func (r *SQLContactRepository) findByID(id string) (*encounter.AlertContact, error) {
	const query = `SELECT id, user_id, name, phone, email, relationship FROM alert_contacts WHERE id = ?`

	var c encounter.AlertContact
	var phone, email, relationship sql.NullString
	err := r.db.QueryRow(query, id).Scan(&c.ID, &c.UserID, &c.Name, &phone, &email, &relationship)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, failure.Wrap(failure.StorageError, "contact.findByID", err)
	}

	c.Phone = r.reveal(phone.String)
	c.Email = r.reveal(email.String)
	c.Relationship = relationship.String
	return &c, nil
}

func (r *SQLContactRepository) conceal(value string) any {
	if value == "" {
		return nil
	}
	if r.aesKey == "" {
		return value
	}
	encrypted, err := security.Encrypt(value, r.aesKey)
	if err != nil {
		r.logger.Database().Error("Failed to encrypt contact field", "error", err.Error())
		return value
	}
	return encrypted
}

func (r *SQLContactRepository) reveal(value string) string {
	if value == "" || r.aesKey == "" {
		return value
	}
	decrypted, err := security.Decrypt(value, r.aesKey)
	if err != nil {
		// Rows written before encryption was enabled stay readable.
		return value
	}
	return decrypted
}
