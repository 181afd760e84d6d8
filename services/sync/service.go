package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cayasync/lib/scrapers/caya"
	"cayasync/services/sync/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/sync")

type Service struct {
	client   *caya.Client
	ledger   *Ledger
	fetcher  *Fetcher
	index    *db.Queries
	folder   string
	pageSize int
}

type Options struct {
	Client  *caya.Client
	Ledger  *Ledger
	Fetcher *Fetcher
	// optional sqlite metadata index, informational only, the
	// ledger stays the source of truth for idempotency
	Index *db.Queries
	// "inbox" (default), "archive" or "trash"
	Folder   string
	PageSize int
}

func NewService(opts Options) Service {
	folder := opts.Folder
	if folder == "" {
		folder = "inbox"
	}
	return Service{
		client:   opts.Client,
		ledger:   opts.Ledger,
		fetcher:  opts.Fetcher,
		index:    opts.Index,
		folder:   folder,
		pageSize: opts.PageSize,
	}
}

type Report struct {
	Listed           int
	Downloaded       int
	SkippedDuplicate int
	SkippedNoUrl     int
	Failed           int
}

// Run executes one synchronization pass: resolve the folder, list its
// documents, then download everything not yet in the ledger. A single
// document's failure is logged and the pass continues, only folder
// resolution, listing and an unwritable ledger abort the run.
func (s Service) Run(ctx context.Context, auth caya.AuthContext) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var report Report

	folders, err := s.client.GetFolders(ctx, auth)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve folders")
		return report, err
	}
	folderId, err := selectFolderId(folders, s.folder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	span.SetAttributes(attribute.String("folder", folderId))

	docs, err := s.client.ListDocuments(ctx, auth, caya.ListDocumentsRequest{
		FolderId: folderId,
		PageSize: s.pageSize,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list documents")
		return report, err
	}
	report.Listed = len(docs)

	for _, doc := range docs {
		if s.ledger.Contains(doc.Id) {
			slog.DebugContext(ctx, "already downloaded, skipping", "id", doc.Id)
			report.SkippedDuplicate++
			continue
		}
		if doc.File == "" {
			slog.WarnContext(ctx, "no file url, skipping", "id", doc.Id)
			report.SkippedNoUrl++
			continue
		}

		dest, err := s.fetcher.Fetch(ctx, doc.File, documentFilename(doc), auth.CookieHeader)
		if err != nil {
			slog.ErrorContext(ctx, "download failed", "id", doc.Id, "err", err)
			report.Failed++
			continue
		}
		slog.InfoContext(ctx, "downloaded document", "id", doc.Id, "dest", dest)

		err = s.ledger.RecordSuccess(doc.Id)
		if err != nil {
			// an unwritable ledger would re-download everything
			// on the next run, stop here
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to persist ledger")
			return report, fmt.Errorf("persist ledger: %w", err)
		}
		report.Downloaded++

		s.recordIndex(ctx, doc)
	}

	span.SetAttributes(
		attribute.Int("listed", report.Listed),
		attribute.Int("downloaded", report.Downloaded),
		attribute.Int("failed", report.Failed),
	)
	return report, nil
}

func selectFolderId(folders *caya.Folders, name string) (string, error) {
	switch name {
	case "inbox":
		return folders.Inbox.Id, nil
	case "archive":
		return folders.Archive.Id, nil
	case "trash":
		return folders.Trash.Id, nil
	}
	return "", fmt.Errorf("unknown folder %q, expected inbox, archive or trash", name)
}

// scanned documents often come without a filename, fall back to the
// document id plus its creation timestamp (':' is not filesystem-safe)
func documentFilename(doc caya.DocumentRecord) string {
	if doc.Filename != "" {
		return doc.Filename
	}
	return doc.DocumentId + "_" + strings.ReplaceAll(doc.CreatedAt, ":", "_") + ".pdf"
}

func (s Service) recordIndex(ctx context.Context, doc caya.DocumentRecord) {
	if s.index == nil {
		return
	}
	err := s.index.UpsertDocument(ctx, db.Document{
		ID:           doc.Id,
		DocumentID:   doc.DocumentId,
		Filename:     SanitizeFilename(documentFilename(doc)),
		SenderName:   doc.Metadata.SenderName,
		Subject:      doc.Metadata.Subject,
		Tags:         strings.Join(doc.Metadata.Tags, ","),
		CreatedAt:    doc.CreatedAt,
		DownloadedAt: time.Now().Unix(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to index document metadata", "id", doc.Id, "err", err)
	}
}
