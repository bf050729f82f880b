package dao

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rbannon32/lawscan/server/data"
)

type SectionDAO struct {
	Db *sql.DB
}

const sectionColumns = `
	section_id, version_date, snapshot_ts, title_num, title_name,
	chapter_id, chapter_label, subchapter_id, subchapter_label,
	part_num, part_label, subpart_id, subpart_label, agency_name,
	section_num, section_citation, section_heading, section_text,
	normalized_text, reserved, part_order, section_order,
	word_count, obligation_count, prohibition_count, requirement_count,
	exception_count, enforcement_count, sentence_count, avg_sentence_length,
	dollar_mentions, temporal_references, crossref_density_per_1k,
	regulatory_burden_score, section_hash, created_timestamp`

// BatchInsert inserts one snapshot's section records in a single
// transaction.
func (d *SectionDAO) BatchInsert(
	ctx context.Context,
	records []*data.SectionRecord,
) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := d.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO section_record(`+sectionColumns+`
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27,
			$28, $29, $30, $31, $32, $33, $34, $35, $36)`,
	)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		id := uuid.New().String()
		_, err := stmt.ExecContext(
			ctx,
			id,
			r.VersionDate,
			r.SnapshotTs,
			r.TitleNum,
			r.TitleName,
			r.ChapterId,
			r.ChapterLabel,
			r.SubchapterId,
			r.SubchapterLabel,
			r.PartNum,
			r.PartLabel,
			r.SubpartId,
			r.SubpartLabel,
			r.AgencyName,
			r.SectionNum,
			r.SectionCitation,
			r.SectionHeading,
			r.SectionText,
			r.NormalizedText,
			r.Reserved,
			r.PartOrder,
			r.SectionOrder,
			r.WordCount,
			r.ObligationCount,
			r.ProhibitionCount,
			r.RequirementCount,
			r.ExceptionCount,
			r.EnforcementCount,
			r.SentenceCount,
			r.AvgSentenceLength,
			r.DollarMentions,
			r.TemporalReferences,
			r.CrossrefDensityPer1k,
			r.RegulatoryBurdenScore,
			r.SectionHash,
			time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("error inserting section record %s: %w", r.SectionCitation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// DeleteByTitleAndDate clears one (title, date) partition. Paired with
// BatchInsert this makes re-ingestion idempotent: same input in, same row
// set out, no accumulation.
func (d *SectionDAO) DeleteByTitleAndDate(
	ctx context.Context,
	titleNum int,
	versionDate time.Time,
) error {
	_, err := d.Db.ExecContext(
		ctx,
		`DELETE FROM section_record WHERE title_num = $1 AND version_date = $2`,
		titleNum,
		versionDate,
	)

	if err != nil {
		return fmt.Errorf("error deleting sections for title %d at %s: %w",
			titleNum, versionDate.Format("2006-01-02"), err)
	}

	return nil
}

// SectionHashes loads the citation-to-hash mapping for one (title, date)
// snapshot. This is all the differencing engine needs; it never reloads
// section text.
func (d *SectionDAO) SectionHashes(
	ctx context.Context,
	titleNum int,
	versionDate time.Time,
) (map[string]string, error) {
	rows, err := d.Db.QueryContext(
		ctx,
		`SELECT section_citation, section_hash
		FROM section_record
		WHERE title_num = $1 AND version_date = $2`,
		titleNum,
		versionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error loading section hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var citation, hash string
		if err := rows.Scan(&citation, &hash); err != nil {
			return nil, fmt.Errorf("error scanning section hash row: %w", err)
		}
		hashes[citation] = hash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section hash rows: %w", err)
	}

	return hashes, nil
}

// FindByDate loads every section record for one version date, ordered by
// title, part order, then section order.
func (d *SectionDAO) FindByDate(
	ctx context.Context,
	versionDate time.Time,
) ([]*data.SectionRecord, error) {
	rows, err := d.Db.QueryContext(
		ctx,
		`SELECT id, `+sectionColumns+`
		FROM section_record
		WHERE version_date = $1
		ORDER BY title_num, part_order, section_order`,
		versionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error finding sections by date: %w", err)
	}
	defer rows.Close()

	return d.scanRecords(rows)
}

// FindByTitleAndDate loads one (title, date) snapshot in document order.
func (d *SectionDAO) FindByTitleAndDate(
	ctx context.Context,
	titleNum int,
	versionDate time.Time,
) ([]*data.SectionRecord, error) {
	rows, err := d.Db.QueryContext(
		ctx,
		`SELECT id, `+sectionColumns+`
		FROM section_record
		WHERE title_num = $1 AND version_date = $2
		ORDER BY part_order, section_order`,
		titleNum,
		versionDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error finding sections by title and date: %w", err)
	}
	defer rows.Close()

	return d.scanRecords(rows)
}

// SnapshotCounts summarizes one stored (title, date) snapshot for
// verification against an independent source count.
type SnapshotCounts struct {
	Parts    int `json:"parts"`
	Sections int `json:"sections"`
	Reserved int `json:"reserved"`
}

// CountByTitleAndDate counts the distinct parts, sections, and reserved
// sections stored for one (title, date) snapshot.
func (d *SectionDAO) CountByTitleAndDate(
	ctx context.Context,
	titleNum int,
	versionDate time.Time,
) (*SnapshotCounts, error) {
	var counts SnapshotCounts
	err := d.Db.QueryRowContext(
		ctx,
		`SELECT COUNT(DISTINCT part_num),
			COUNT(*),
			COUNT(*) FILTER (WHERE reserved)
		FROM section_record
		WHERE title_num = $1 AND version_date = $2`,
		titleNum,
		versionDate,
	).Scan(&counts.Parts, &counts.Sections, &counts.Reserved)

	if err != nil {
		return nil, fmt.Errorf("error counting sections for title %d: %w", titleNum, err)
	}

	return &counts, nil
}

func (d *SectionDAO) scanRecords(rows *sql.Rows) ([]*data.SectionRecord, error) {
	var records []*data.SectionRecord

	for rows.Next() {
		var r data.SectionRecord
		var createdAt time.Time
		err := rows.Scan(
			&r.InternalId,
			&r.Id,
			&r.VersionDate,
			&r.SnapshotTs,
			&r.TitleNum,
			&r.TitleName,
			&r.ChapterId,
			&r.ChapterLabel,
			&r.SubchapterId,
			&r.SubchapterLabel,
			&r.PartNum,
			&r.PartLabel,
			&r.SubpartId,
			&r.SubpartLabel,
			&r.AgencyName,
			&r.SectionNum,
			&r.SectionCitation,
			&r.SectionHeading,
			&r.SectionText,
			&r.NormalizedText,
			&r.Reserved,
			&r.PartOrder,
			&r.SectionOrder,
			&r.WordCount,
			&r.ObligationCount,
			&r.ProhibitionCount,
			&r.RequirementCount,
			&r.ExceptionCount,
			&r.EnforcementCount,
			&r.SentenceCount,
			&r.AvgSentenceLength,
			&r.DollarMentions,
			&r.TemporalReferences,
			&r.CrossrefDensityPer1k,
			&r.RegulatoryBurdenScore,
			&r.SectionHash,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning section record row: %w", err)
		}

		r.CreatedAt = createdAt
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating section record rows: %w", err)
	}

	return records, nil
}
