package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Document struct {
	ID           string
	DocumentID   string
	Filename     string
	SenderName   string
	Subject      string
	Tags         string
	CreatedAt    string
	DownloadedAt int64
}

const upsertDocument = `
INSERT INTO documents (id, document_id, filename, sender_name, subject, tags, created_at, downloaded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    document_id = excluded.document_id,
    filename = excluded.filename,
    sender_name = excluded.sender_name,
    subject = excluded.subject,
    tags = excluded.tags,
    created_at = excluded.created_at,
    downloaded_at = excluded.downloaded_at
`

func (q *Queries) UpsertDocument(ctx context.Context, arg Document) error {
	_, err := q.db.ExecContext(
		ctx, upsertDocument,
		arg.ID,
		arg.DocumentID,
		arg.Filename,
		arg.SenderName,
		arg.Subject,
		arg.Tags,
		arg.CreatedAt,
		arg.DownloadedAt,
	)
	return err
}

const listDocuments = `
SELECT id, document_id, filename, sender_name, subject, tags, created_at, downloaded_at
FROM documents
ORDER BY downloaded_at DESC, id
`

func (q *Queries) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := q.db.QueryContext(ctx, listDocuments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var d Document
		err := rows.Scan(
			&d.ID,
			&d.DocumentID,
			&d.Filename,
			&d.SenderName,
			&d.Subject,
			&d.Tags,
			&d.CreatedAt,
			&d.DownloadedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
