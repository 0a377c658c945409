package planner

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nyashahama/audit-planner/internal/audit"
	"github.com/nyashahama/audit-planner/internal/render"
)

// ExportKind names a downloadable artifact.
type ExportKind string

const (
	// ExportNarrativeText is the raw plan narrative as UTF-8 text.
	ExportNarrativeText ExportKind = "txt"

	// ExportPDF is the full document as a paginated PDF.
	ExportPDF ExportKind = "pdf"

	// ExportDocumentText is the full document flattened to plain text.
	ExportDocumentText ExportKind = "document"
)

// ExportKinds lists every kind in the order ExportAll returns them.
var ExportKinds = []ExportKind{ExportNarrativeText, ExportPDF, ExportDocumentText}

// ErrUnknownExport is returned for an export kind outside ExportKinds.
var ErrUnknownExport = errors.New("planner: unknown export kind")

// ParseExportKind maps a URL segment such as "pdf" to an ExportKind.
func ParseExportKind(s string) (ExportKind, error) {
	for _, k := range ExportKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownExport, s)
}

// Artifact is one exported file.
type Artifact struct {
	Kind        ExportKind
	FileName    string
	ContentType string
	Data        []byte
}

// Export produces one artifact for rec. Rendering failures are returned as
// *render.Error and leave the history untouched.
func (s *Service) Export(rec audit.Record, kind ExportKind) (Artifact, error) {
	switch kind {
	case ExportNarrativeText:
		return Artifact{
			Kind:        kind,
			FileName:    rec.FileName(".txt"),
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte(rec.PlanNarrative),
		}, nil

	case ExportPDF:
		data, err := s.render(rec, render.FormatPDF)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{
			Kind:        kind,
			FileName:    rec.FileName(".pdf"),
			ContentType: "application/pdf",
			Data:        data,
		}, nil

	case ExportDocumentText:
		data, err := s.render(rec, render.FormatText)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{
			Kind:        kind,
			FileName:    rec.FileName("_document.txt"),
			ContentType: "text/plain; charset=utf-8",
			Data:        data,
		}, nil
	}
	return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownExport, kind)
}

// ExportAll renders every artifact kind for rec concurrently. Each render
// builds its own buffer; the first failure is returned.
func (s *Service) ExportAll(ctx context.Context, rec audit.Record) ([]Artifact, error) {
	out := make([]Artifact, len(ExportKinds))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range ExportKinds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := s.Export(rec, kind)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("planner: export all: %w", err)
	}
	return out, nil
}

func (s *Service) render(rec audit.Record, format render.Format) ([]byte, error) {
	blocks := s.builder.Build(rec)
	data, err := render.Render(blocks, format,
		render.WithTimestamp(rec.Timestamp),
		render.WithTitle("Financial Audit Plan for "+rec.Inputs.CompanyName),
		render.WithAuthor(creatorName),
	)
	s.metrics.IncrementRender(string(format), err)
	if err != nil {
		s.logger.Error("planner: render failed",
			"record_id", rec.ID,
			"format", format,
			"error", err,
		)
		return nil, err
	}
	return data, nil
}

const creatorName = "Audit Planner"
