// Package encounter provides the concrete SQL-based implementations of the
// encounter and alert-contact domain repositories.
package encounter

import (
	"database/sql"
	"strings"
	"time"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/encounter"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/failure"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/database"
)

// SQLEncounterRepository is the SQL-based implementation of encounter.Repository.
type SQLEncounterRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEncounterRepository creates a new instance of the repository.
func NewSQLEncounterRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEncounterRepository {
	return &SQLEncounterRepository{
		db:     db,
		logger: logger,
	}
}

const encounterColumns = `id, user_id, timestamp, latitude, longitude, city, state, recording_url, summary, alert_sent, duration, status`

// FindByID retrieves one encounter. A missing encounter returns (nil, nil).
func (r *SQLEncounterRepository) FindByID(id string) (*encounter.Encounter, error) {
	const query = `SELECT ` + encounterColumns + ` FROM encounters WHERE id = ?`

	start := time.Now()
	row := r.db.QueryRow(query, id)
	e, err := scanEncounter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load encounter", "error", err.Error(), "id", id)
		return nil, failure.Wrap(failure.StorageError, "encounter.findByID", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), e.UserID)
	return e, nil
}

// FindByUser returns a user's encounters newest-first. Equal timestamps
// tie-break on id so ordering stays stable within a load.
func (r *SQLEncounterRepository) FindByUser(userID string) ([]encounter.Encounter, error) {
	const query = `SELECT ` + encounterColumns + ` FROM encounters WHERE user_id = ? ORDER BY timestamp DESC, id DESC`

	start := time.Now()
	r.logger.Database().Debug("Loading encounters for user", "userId", userID)

	rows, err := r.db.Query(query, userID)
	if err != nil {
		r.logger.Database().Error("Failed to query encounters", "error", err.Error(), "userId", userID)
		return nil, failure.Wrap(failure.StorageError, "encounter.findByUser", err)
	}
	defer rows.Close()

	var encounters []encounter.Encounter
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, failure.Wrap(failure.StorageError, "encounter.findByUser", err)
		}
		encounters = append(encounters, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, failure.Wrap(failure.StorageError, "encounter.findByUser", err)
	}

	r.logger.Database().Info("Encounters loaded", "userId", userID, "count", len(encounters), "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), userID)
	return encounters, nil
}

// Create saves a new encounter to the database.
func (r *SQLEncounterRepository) Create(e *encounter.Encounter) error {
	const query = `
		INSERT INTO encounters (id, user_id, timestamp, latitude, longitude, city, state, recording_url, summary, alert_sent, duration, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing encounter insert", "id", e.ID, "userId", e.UserID)

	_, err := r.db.Exec(
		query,
		e.ID,
		e.UserID,
		e.Timestamp,
		e.Location.Latitude,
		e.Location.Longitude,
		nullable(e.Location.City),
		nullable(e.Location.State),
		nullable(e.RecordingURL),
		nullable(e.Summary),
		e.AlertSent,
		e.Duration,
		string(e.Status),
	)
	if err != nil {
		r.logger.Database().Error("Failed to insert encounter", "error", err.Error(), "id", e.ID)
		return failure.Wrap(failure.StorageError, "encounter.create", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), e.UserID)
	return nil
}

// Update applies a patch to the stored encounter. Only the fields present
// in the patch are written.
func (r *SQLEncounterRepository) Update(id string, patch encounter.Patch) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if patch.RecordingURL != nil {
		sets = append(sets, "recording_url = ?")
		args = append(args, *patch.RecordingURL)
	}
	if patch.Summary != nil {
		sets = append(sets, "summary = ?")
		args = append(args, *patch.Summary)
	}
	if patch.AlertSent != nil {
		sets = append(sets, "alert_sent = ?")
		args = append(args, *patch.AlertSent)
	}
	if patch.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *patch.Duration)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*patch.Status))
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE encounters SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	start := time.Now()
	if _, err := r.db.Exec(query, args...); err != nil {
		r.logger.Database().Error("Failed to update encounter", "error", err.Error(), "id", id)
		return failure.Wrap(failure.StorageError, "encounter.update", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start), id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEncounter(row rowScanner) (*encounter.Encounter, error) {
	var e encounter.Encounter
	var city, state, recordingURL, summary sql.NullString
	var duration sql.NullInt64
	var status string

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Timestamp,
		&e.Location.Latitude,
		&e.Location.Longitude,
		&city,
		&state,
		&recordingURL,
		&summary,
		&e.AlertSent,
		&duration,
		&status,
	)
	if err != nil {
		return nil, err
	}

	e.Location.City = city.String
	e.Location.State = state.String
	e.RecordingURL = recordingURL.String
	e.Summary = summary.String
	if duration.Valid {
		d := int(duration.Int64)
		e.Duration = &d
	}
	e.Status = encounter.Status(status)
	return &e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
