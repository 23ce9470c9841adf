package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"refgate/internal/referral/models"
	id "refgate/pkg/domain"
)

// PostgresStore persists referral records in PostgreSQL. Schema lives in
// migrations/0001_referrals.sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed referral store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create appends a referral inside a transaction holding a per-referrer
// advisory lock. The lock serializes concurrent inserts for one referrer
// across processes, so the rate-limit read-then-write stays linearizable
// even when multiple instances share the database.
func (s *PostgresStore) Create(ctx context.Context, referral *models.Referral) error {
	if referral == nil {
		return fmt.Errorf("referral is required")
	}
	snapshot, err := json.Marshal(referral.ConvertedUser)
	if err != nil {
		return fmt.Errorf("encode converted user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create referral: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		referral.ReferringUserID.String(),
	); err != nil {
		return fmt.Errorf("acquire referrer lock: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO referrals (id, referring_user_id, converted_user, converted_at, status, converted_device)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		referral.ID.String(),
		referral.ReferringUserID.String(),
		snapshot,
		referral.ConvertedAt,
		string(referral.Status),
		referral.ConvertedDevice,
	); err != nil {
		return fmt.Errorf("insert referral: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create referral: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, referralID id.ReferralID) (*models.Referral, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, referring_user_id, converted_user, converted_at, status, converted_device
		FROM referrals WHERE id = $1`,
		referralID.String(),
	)
	record, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find referral: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByReferrer(ctx context.Context, referrerID id.UserID, sortSpec *models.SortSpec) ([]models.Referral, error) {
	query := `
		SELECT id, referring_user_id, converted_user, converted_at, status, converted_device
		FROM referrals WHERE referring_user_id = $1` + orderClause(sortSpec)

	rows, err := s.db.QueryContext(ctx, query, referrerID.String())
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	defer rows.Close()

	var results []models.Referral
	for rows.Next() {
		record, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		results = append(results, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	return results, nil
}

// orderClause maps a sort spec onto a whitelisted ORDER BY. Unknown fields
// fall back to store order, matching the no-op comparison the contract
// requires.
func orderClause(sortSpec *models.SortSpec) string {
	if sortSpec == nil {
		return ""
	}
	var column string
	switch sortSpec.Field {
	case models.SortByConvertedAt:
		column = "converted_at"
	case models.SortByStatus:
		column = "status"
	default:
		return ""
	}
	if sortSpec.Order == models.SortDesc {
		return " ORDER BY " + column + " DESC"
	}
	return " ORDER BY " + column + " ASC"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferral(row rowScanner) (*models.Referral, error) {
	var (
		record    models.Referral
		rawID     string
		rawUserID string
		snapshot  []byte
		rawStatus string
	)
	if err := row.Scan(&rawID, &rawUserID, &snapshot, &record.ConvertedAt, &rawStatus, &record.ConvertedDevice); err != nil {
		return nil, err
	}

	referralID, err := id.ParseReferralID(rawID)
	if err != nil {
		return nil, err
	}
	referrerID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &record.ConvertedUser); err != nil {
		return nil, fmt.Errorf("decode converted user: %w", err)
	}
	record.ID = referralID
	record.ReferringUserID = referrerID
	record.Status = models.Status(rawStatus)
	return &record, nil
}
