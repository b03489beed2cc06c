package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// insertChunkSize keeps multi-row inserts well below the bind parameter
// limits of both SQLite and Postgres.
const insertChunkSize = 500

var applicantColumns = []string{
	"entry_url", "entry_link", "program", "university", "degree", "status",
	"term", "nationality", "date_added", "gpa", "gre_quant", "gre_verbal",
	"gre_aw", "comments",
}

// ApplicantRepository handles database operations for applicant entries
type ApplicantRepository struct {
	db      *DB
	builder sq.StatementBuilderType

	schemaMu    sync.Mutex
	schemaReady bool
}

// NewApplicantRepository creates a new applicant repository
func NewApplicantRepository(db *DB) *ApplicantRepository {
	format := sq.PlaceholderFormat(sq.Question)
	if db.Driver == DriverPostgres {
		format = sq.Dollar
	}
	return &ApplicantRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// EnsureSchema runs migrations the first time it succeeds and is a no-op afterwards.
func (r *ApplicantRepository) EnsureSchema(ctx context.Context) error {
	r.schemaMu.Lock()
	defer r.schemaMu.Unlock()

	if r.schemaReady {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := RunMigrations(r.db); err != nil {
		return err
	}
	r.schemaReady = true
	return nil
}

// InsertApplicants writes records in input order inside one transaction.
// Rows whose entry_url already exists are skipped; the first write wins,
// including between two records of the same batch. Returns the number of
// rows actually inserted.
func (r *ApplicantRepository) InsertApplicants(ctx context.Context, records []applicant.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for start := 0; start < len(records); start += insertChunkSize {
		end := min(start+insertChunkSize, len(records))

		insert := r.builder.Insert("applicants").Columns(applicantColumns...)
		for _, rec := range records[start:end] {
			insert = insert.Values(recordArgs(rec)...)
		}
		query, args, err := insert.Suffix("ON CONFLICT (entry_url) DO NOTHING").ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build insert: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert applicants: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read inserted row count: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit applicants: %w", err)
	}
	return inserted, nil
}

// ListApplicants returns every stored entry ordered by id
func (r *ApplicantRepository) ListApplicants(ctx context.Context) ([]applicant.Stored, error) {
	query, args, err := r.builder.
		Select(
			"id", "entry_url", "entry_link", "program", "university", "degree",
			"status", "term", "nationality", "CAST(date_added AS TEXT)", "gpa",
			"gre_quant", "gre_verbal", "gre_aw", "comments", "std_program",
			"std_university", "created_at",
		).
		From("applicants").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	var result []applicant.Stored
	for rows.Next() {
		var (
			row       storedRow
			createdAt flexibleTime
			stored    applicant.Stored
		)
		err := rows.Scan(
			&stored.ID, &stored.EntryURL, &row.entryLink, &row.program, &row.university,
			&row.degree, &row.status, &row.term, &row.nationality, &row.dateAdded,
			&row.gpa, &row.greQuant, &row.greVerbal, &row.greAW, &row.comments,
			&row.stdProgram, &row.stdUniversity, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant row: %w", err)
		}
		row.apply(&stored)
		stored.CreatedAt = createdAt.Time
		result = append(result, stored)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applicant rows: %w", err)
	}

	return result, nil
}

// GetApplicantCount returns the total number of stored entries
func (r *ApplicantRepository) GetApplicantCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM applicants").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get applicant count: %w", err)
	}
	return count, nil
}

// SetStandardNames records canonical program and university names inside
// one transaction. Unknown values clear the column; names for entry URLs
// that are not stored are ignored. Returns the number of rows updated.
func (r *ApplicantRepository) SetStandardNames(ctx context.Context, names []applicant.StandardName) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updated := 0
	for _, name := range names {
		query, args, err := r.builder.Update("applicants").
			Set("std_program", textArg(name.Program)).
			Set("std_university", textArg(name.University)).
			Where(sq.Eq{"entry_url": name.EntryURL}).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to build update: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to update standard names: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read updated row count: %w", err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit standard names: %w", err)
	}
	return updated, nil
}

func recordArgs(rec applicant.Record) []interface{} {
	return []interface{}{
		rec.EntryURL,
		textArg(rec.EntryLink),
		textArg(rec.Program),
		textArg(rec.University),
		textArg(rec.Degree),
		textArg(rec.Status),
		textArg(rec.Term),
		textArg(rec.Nationality),
		textArg(rec.DateAdded),
		floatArg(rec.GPA),
		intArg(rec.GREQuant),
		intArg(rec.GREVerbal),
		floatArg(rec.GREAW),
		textArg(rec.Comments),
	}
}

// Bind helpers only ever hand plain string, int64, float64 or nil to the
// driver so both dialects accept them without conversion.

func textArg[T any](v applicant.Value[T]) interface{} {
	if !v.IsKnown() {
		return nil
	}
	return v.String()
}

func floatArg(v applicant.Value[float64]) interface{} {
	f, ok := v.Get()
	if !ok {
		return nil
	}
	return f
}

func intArg(v applicant.Value[int]) interface{} {
	i, ok := v.Get()
	if !ok {
		return nil
	}
	return int64(i)
}

type storedRow struct {
	entryLink, program, university    sql.NullString
	degree, status, term, nationality sql.NullString
	dateAdded, comments               sql.NullString
	stdProgram, stdUniversity         sql.NullString
	gpa, greAW                        sql.NullFloat64
	greQuant, greVerbal               sql.NullInt64
}

func (row storedRow) apply(s *applicant.Stored) {
	s.EntryLink = nullText(row.entryLink)
	s.Program = nullText(row.program)
	s.University = nullText(row.university)
	s.Comments = nullText(row.comments)
	s.StdProgram = nullText(row.stdProgram)
	s.StdUniversity = nullText(row.stdUniversity)

	s.Degree = parsed(row.degree, applicant.ParseDegree)
	s.Status = parsed(row.status, applicant.ParseStatus)
	s.Term = parsed(row.term, applicant.ParseTerm)
	s.Nationality = parsed(row.nationality, applicant.ParseNationality)
	s.DateAdded = parsed(row.dateAdded, applicant.ParseISODate)

	if row.gpa.Valid {
		s.GPA = applicant.Known(row.gpa.Float64)
	}
	if row.greAW.Valid {
		s.GREAW = applicant.Known(row.greAW.Float64)
	}
	if row.greQuant.Valid {
		s.GREQuant = applicant.Known(int(row.greQuant.Int64))
	}
	if row.greVerbal.Valid {
		s.GREVerbal = applicant.Known(int(row.greVerbal.Int64))
	}
}

func nullText(ns sql.NullString) applicant.Value[string] {
	if !ns.Valid {
		return applicant.Unknown[string]()
	}
	return applicant.Known(ns.String)
}

// parsed treats a stored value that no longer parses as unknown.
func parsed[T any](ns sql.NullString, parse func(string) (T, bool)) applicant.Value[T] {
	if !ns.Valid {
		return applicant.Unknown[T]()
	}
	v, ok := parse(ns.String)
	if !ok {
		return applicant.Unknown[T]()
	}
	return applicant.Known(v)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateTime,
}

// flexibleTime scans timestamps whether the driver hands back time.Time or text.
type flexibleTime struct {
	time.Time
}

func (ft *flexibleTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		ft.Time = time.Time{}
		return nil
	case time.Time:
		ft.Time = v
		return nil
	case []byte:
		return ft.parse(string(v))
	case string:
		return ft.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (ft *flexibleTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ft.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
