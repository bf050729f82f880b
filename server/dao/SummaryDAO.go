package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rbannon32/lawscan/server/data"
)

type SummaryDAO struct {
	Db *sql.DB
}

// ReplacePartSummaries regenerates the part rollups for one version date.
// Summaries are always replaced wholesale; there is no incremental path
// because the underlying section set for a date is immutable once assembled.
func (d *SummaryDAO) ReplacePartSummaries(
	ctx context.Context,
	versionDate time.Time,
	summaries []*data.PartSummary,
) error {
	tx, err := d.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM part_summary WHERE version_date = $1`,
		versionDate,
	)
	if err != nil {
		return fmt.Errorf("error clearing part summaries: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO part_summary(
			version_date, title_num, title_name, chapter_label, subchapter_label,
			part_num, part_label, agency_name, section_count, reserved_count,
			part_word_count, avg_burden_score, max_burden_score, part_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
	)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		_, err := stmt.ExecContext(
			ctx,
			s.VersionDate,
			s.TitleNum,
			s.TitleName,
			s.ChapterLabel,
			s.SubchapterLabel,
			s.PartNum,
			s.PartLabel,
			s.AgencyName,
			s.SectionCount,
			s.ReservedCount,
			s.PartWordCount,
			s.AvgBurdenScore,
			s.MaxBurdenScore,
			s.PartHash,
		)
		if err != nil {
			return fmt.Errorf("error inserting part summary %s: %w", s.PartNum, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// ReplaceAgencySummaries regenerates the agency rollups for one version date.
func (d *SummaryDAO) ReplaceAgencySummaries(
	ctx context.Context,
	versionDate time.Time,
	summaries []*data.AgencySummary,
) error {
	tx, err := d.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(
		ctx,
		`DELETE FROM agency_summary WHERE version_date = $1`,
		versionDate,
	)
	if err != nil {
		return fmt.Errorf("error clearing agency summaries: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO agency_summary(
			version_date, agency_name, part_count, section_count,
			agency_word_count, avg_burden_score, agency_hash
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range summaries {
		_, err := stmt.ExecContext(
			ctx,
			s.VersionDate,
			s.AgencyName,
			s.PartCount,
			s.SectionCount,
			s.AgencyWordCount,
			s.AvgBurdenScore,
			s.AgencyHash,
		)
		if err != nil {
			return fmt.Errorf("error inserting agency summary %s: %w", s.AgencyName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// FindPartSummaries loads part rollups for a date, optionally filtered to
// one title (titleNum <= 0 means all titles).
func (d *SummaryDAO) FindPartSummaries(
	ctx context.Context,
	versionDate time.Time,
	titleNum int,
) ([]*data.PartSummary, error) {
	query := `SELECT version_date, title_num, title_name, chapter_label,
			subchapter_label, part_num, part_label, agency_name, section_count,
			reserved_count, part_word_count, avg_burden_score, max_burden_score,
			part_hash
		FROM part_summary
		WHERE version_date = $1`
	args := []any{versionDate}

	if titleNum > 0 {
		query += ` AND title_num = $2`
		args = append(args, titleNum)
	}
	query += ` ORDER BY title_num, part_num`

	rows, err := d.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error finding part summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*data.PartSummary
	for rows.Next() {
		var s data.PartSummary
		err := rows.Scan(
			&s.VersionDate,
			&s.TitleNum,
			&s.TitleName,
			&s.ChapterLabel,
			&s.SubchapterLabel,
			&s.PartNum,
			&s.PartLabel,
			&s.AgencyName,
			&s.SectionCount,
			&s.ReservedCount,
			&s.PartWordCount,
			&s.AvgBurdenScore,
			&s.MaxBurdenScore,
			&s.PartHash,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning part summary row: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating part summary rows: %w", err)
	}

	return summaries, nil
}

// FindAgencySummaries loads agency rollups for a date.
func (d *SummaryDAO) FindAgencySummaries(
	ctx context.Context,
	versionDate time.Time,
) ([]*data.AgencySummary, error) {
	rows, err := d.Db.QueryContext(
		ctx,
		`SELECT version_date, agency_name, part_count, section_count,
			agency_word_count, avg_burden_score, agency_hash
		FROM agency_summary
		WHERE version_date = $1
		ORDER BY agency_name`,
		versionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error finding agency summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*data.AgencySummary
	for rows.Next() {
		var s data.AgencySummary
		err := rows.Scan(
			&s.VersionDate,
			&s.AgencyName,
			&s.PartCount,
			&s.SectionCount,
			&s.AgencyWordCount,
			&s.AvgBurdenScore,
			&s.AgencyHash,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning agency summary row: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agency summary rows: %w", err)
	}

	return summaries, nil
}
