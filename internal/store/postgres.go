package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const vendorColumns = `id, name, scopes, rfi_status, rfi_received_at,
	final_decision, decided_by, decided_at, created_at, updated_at`

func (s *PostgresStore) CreateVendor(ctx context.Context, v *Vendor) error {
	if v.FinalDecision == "" {
		v.FinalDecision = DecisionPending
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, scopes, rfi_status, rfi_received_at, final_decision)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		v.Name, v.Scopes, v.RFIStatus, v.RFIReceivedAt, v.FinalDecision,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (s *PostgresStore) GetVendor(ctx context.Context, id uuid.UUID) (*Vendor, error) {
	v := &Vendor{}
	err := s.pool.QueryRow(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors WHERE id = $1`, id,
	).Scan(
		&v.ID, &v.Name, &v.Scopes, &v.RFIStatus, &v.RFIReceivedAt,
		&v.FinalDecision, &v.DecidedBy, &v.DecidedAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *PostgresStore) ListVendors(ctx context.Context) ([]*Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+vendorColumns+`
		FROM vendors ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*Vendor
	for rows.Next() {
		v := &Vendor{}
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Scopes, &v.RFIStatus, &v.RFIReceivedAt,
			&v.FinalDecision, &v.DecidedBy, &v.DecidedAt, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

const evaluationColumns = `id, vendor_id, evaluator_id, evaluator_name, domain,
	scores, remarks, overall_score, status, created_at, updated_at`

// UpsertEvaluation relies on the UNIQUE (vendor_id, evaluator_id) constraint:
// a second write from the same evaluator replaces the first, so two concurrent
// submissions can never leave two rows behind.
func (s *PostgresStore) UpsertEvaluation(ctx context.Context, e *Evaluation) error {
	scoresJSON, err := json.Marshal(e.Scores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	remarksJSON, err := json.Marshal(e.Remarks)
	if err != nil {
		return fmt.Errorf("marshal remarks: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO evaluations (vendor_id, evaluator_id, evaluator_name, domain,
			scores, remarks, overall_score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (vendor_id, evaluator_id) DO UPDATE SET
			evaluator_name = EXCLUDED.evaluator_name,
			domain = EXCLUDED.domain,
			scores = EXCLUDED.scores,
			remarks = EXCLUDED.remarks,
			overall_score = EXCLUDED.overall_score,
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		e.VendorID, e.EvaluatorID, e.EvaluatorName, e.Domain,
		scoresJSON, remarksJSON, e.OverallScore, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (s *PostgresStore) GetEvaluation(ctx context.Context, vendorID, evaluatorID uuid.UUID) (*Evaluation, error) {
	e := &Evaluation{}
	var scoresJSON, remarksJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations WHERE vendor_id = $1 AND evaluator_id = $2`,
		vendorID, evaluatorID,
	).Scan(
		&e.ID, &e.VendorID, &e.EvaluatorID, &e.EvaluatorName, &e.Domain,
		&scoresJSON, &remarksJSON, &e.OverallScore, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if scoresJSON != nil {
		_ = json.Unmarshal(scoresJSON, &e.Scores)
	}
	if remarksJSON != nil {
		_ = json.Unmarshal(remarksJSON, &e.Remarks)
	}
	return e, nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, vendorID uuid.UUID) ([]*Evaluation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+evaluationColumns+`
		FROM evaluations WHERE vendor_id = $1
		ORDER BY updated_at DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*Evaluation
	for rows.Next() {
		e := &Evaluation{}
		var scoresJSON, remarksJSON []byte
		if err := rows.Scan(
			&e.ID, &e.VendorID, &e.EvaluatorID, &e.EvaluatorName, &e.Domain,
			&scoresJSON, &remarksJSON, &e.OverallScore, &e.Status, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if scoresJSON != nil {
			_ = json.Unmarshal(scoresJSON, &e.Scores)
		}
		if remarksJSON != nil {
			_ = json.Unmarshal(remarksJSON, &e.Remarks)
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

func (s *PostgresStore) CreateVote(ctx context.Context, v *Vote) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO votes (vendor_id, voter_id, voter_name, choice)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		v.VendorID, v.VoterID, v.VoterName, v.Choice,
	).Scan(&v.ID, &v.CreatedAt)
}

func (s *PostgresStore) ListVotes(ctx context.Context, vendorID uuid.UUID) ([]*Vote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, vendor_id, voter_id, voter_name, choice, created_at
		FROM votes WHERE vendor_id = $1
		ORDER BY created_at DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []*Vote
	for rows.Next() {
		v := &Vote{}
		if err := rows.Scan(&v.ID, &v.VendorID, &v.VoterID, &v.VoterName, &v.Choice, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// DecideVendor is a check-and-set: the WHERE clause only matches a PENDING
// vendor, so of two simultaneous decision requests exactly one updates a row.
func (s *PostgresStore) DecideVendor(ctx context.Context, vendorID uuid.UUID, decision Decision, decidedBy uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vendors
		SET final_decision = $2, decided_by = $3, decided_at = now(), updated_at = now()
		WHERE id = $1 AND final_decision = $4`,
		vendorID, decision, decidedBy, DecisionPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) GetSettings(ctx context.Context) (*FeatureSettings, error) {
	fs := &FeatureSettings{}
	err := s.pool.QueryRow(ctx, `
		SELECT chat_enabled, direct_decision_enabled, print_enabled, export_enabled, updated_at
		FROM feature_settings WHERE id = 1`,
	).Scan(&fs.ChatEnabled, &fs.DirectDecisionEnabled, &fs.PrintEnabled, &fs.ExportEnabled, &fs.UpdatedAt)
	if err == pgx.ErrNoRows {
		// Singleton row not seeded yet: everything enabled, matching the
		// original deployment default.
		return &FeatureSettings{
			ChatEnabled:           true,
			DirectDecisionEnabled: true,
			PrintEnabled:          true,
			ExportEnabled:         true,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, fs *FeatureSettings) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO feature_settings (id, chat_enabled, direct_decision_enabled, print_enabled, export_enabled)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			chat_enabled = EXCLUDED.chat_enabled,
			direct_decision_enabled = EXCLUDED.direct_decision_enabled,
			print_enabled = EXCLUDED.print_enabled,
			export_enabled = EXCLUDED.export_enabled,
			updated_at = now()
		RETURNING updated_at`,
		fs.ChatEnabled, fs.DirectDecisionEnabled, fs.PrintEnabled, fs.ExportEnabled,
	).Scan(&fs.UpdatedAt)
}
