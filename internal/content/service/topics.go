package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/audit"
	"inkwell/internal/content/models"
	identitymodels "inkwell/internal/identity/models"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

var topicCSVHeader = []string{"question", "answer", "category", "position"}

const importValidationWorkers = 8

// UpsertTopic creates or edits one entry, keyed by its unique question.
func (s *Service) UpsertTopic(ctx context.Context, actor *identitymodels.Principal, req models.UpsertTopicRequest, origin audit.Origin) (*models.Topic, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requesttime.Now(ctx)
	action := audit.ActionUpdate
	topic, err := s.topics.GetByQuestion(ctx, req.Question)
	switch {
	case err == nil:
		topic.Question = req.Question
		topic.Answer = req.Answer
		topic.Category = req.Category
		topic.Position = req.Position
		topic.UpdatedAt = now
		if err := s.topics.Update(ctx, topic); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update topic")
		}
	case errors.Is(err, sentinel.ErrNotFound):
		action = audit.ActionCreate
		topic = &models.Topic{
			ID:        id.NewTopicID(),
			Question:  req.Question,
			Answer:    req.Answer,
			Category:  req.Category,
			Position:  req.Position,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.topics.Create(ctx, topic); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create topic")
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up topic")
	}

	if err := s.recordMutation(ctx, actor, action, "topic", topic.ID.String(),
		map[string]any{"question": topic.Question}, origin); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *Service) DeleteTopic(ctx context.Context, actor *identitymodels.Principal, topicID id.TopicID, origin audit.Origin) error {
	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "topic not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up topic")
	}
	if err := s.topics.Delete(ctx, topicID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete topic")
	}

	return s.recordMutation(ctx, actor, audit.ActionDelete, "topic", topicID.String(),
		map[string]any{"question": topic.Question}, origin)
}

func (s *Service) ListTopics(ctx context.Context) ([]*models.Topic, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list topics")
	}
	return topics, nil
}

// ExportTopicsCSV writes all topics in category/position order and audits
// the download.
func (s *Service) ExportTopicsCSV(ctx context.Context, actor *identitymodels.Principal, w io.Writer, origin audit.Origin) (int, error) {
	ctx, span := s.tracer.Start(ctx, "content.topics.export")
	defer span.End()

	topics, err := s.topics.List(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list topics")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(topicCSVHeader); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write export header")
	}
	for _, t := range topics {
		row := []string{t.Question, t.Answer, t.Category, strconv.Itoa(t.Position)}
		if err := cw.Write(row); err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to write export row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to flush export")
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     audit.ActionExport,
		EntityType: "topic",
		Detail:     map[string]any{"rows": len(topics)},
		Origin:     origin,
	})
	return len(topics), nil
}

// TopicImportSummary reports what a bulk import did. Row errors skip the row
// and never abort the rest of the file.
type TopicImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

type importRow struct {
	line int
	req  models.UpsertTopicRequest
	err  error
}

// ImportTopicsCSV upserts topics from a CSV stream keyed by question. Rows
// are validated concurrently, then applied in file order so later rows win
// when a file repeats a question.
func (s *Service) ImportTopicsCSV(ctx context.Context, actor *identitymodels.Principal, r io.Reader, origin audit.Origin) (*TopicImportSummary, error) {
	ctx, span := s.tracer.Start(ctx, "content.topics.import")
	defer span.End()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(topicCSVHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "import file is empty or not CSV")
	}
	for i, col := range topicCSVHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, dErrors.New(dErrors.CodeValidation, "import header must be: "+strings.Join(topicCSVHeader, ","))
		}
	}

	rows := make([]*importRow, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rows = append(rows, &importRow{line: line, err: fmt.Errorf("malformed row: %w", err)})
			continue
		}
		row := &importRow{
			line: line,
			req: models.UpsertTopicRequest{
				Question: record[0],
				Answer:   record[1],
				Category: record[2],
			},
		}
		if raw := strings.TrimSpace(record[3]); raw != "" {
			pos, err := strconv.Atoi(raw)
			if err != nil {
				row.err = fmt.Errorf("position %q is not a number", raw)
			} else {
				row.req.Position = pos
			}
		}
		rows = append(rows, row)
	}

	s.validateRows(ctx, rows)

	summary := &TopicImportSummary{}
	now := requesttime.Now(ctx)
	for _, row := range rows {
		if row.err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", row.line, row.err))
			continue
		}

		existing, err := s.topics.GetByQuestion(ctx, row.req.Question)
		switch {
		case err == nil:
			existing.Answer = row.req.Answer
			existing.Category = row.req.Category
			existing.Position = row.req.Position
			existing.UpdatedAt = now
			if err := s.topics.Update(ctx, existing); err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", row.line, err))
				continue
			}
			summary.Updated++
		case errors.Is(err, sentinel.ErrNotFound):
			topic := &models.Topic{
				ID:        id.NewTopicID(),
				Question:  row.req.Question,
				Answer:    row.req.Answer,
				Category:  row.req.Category,
				Position:  row.req.Position,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.topics.Create(ctx, topic); err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("line %d: %v", row.line, err))
				continue
			}
			summary.Created++
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up topic")
		}
	}

	if err := s.recorder.RecordSync(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     audit.ActionImport,
		EntityType: "topic",
		Detail: map[string]any{
			"created": summary.Created,
			"updated": summary.Updated,
			"skipped": summary.Skipped,
		},
		Origin: origin,
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "topic import finished",
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// validateRows normalizes and validates rows concurrently; each worker owns
// disjoint rows, so no locking is needed.
func (s *Service) validateRows(ctx context.Context, rows []*importRow) {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(importValidationWorkers)

	for _, row := range rows {
		if row.err != nil {
			continue
		}
		row := row
		g.Go(func() error {
			row.req.Normalize()
			row.err = row.req.Validate()
			return nil
		})
	}
	// Workers never return errors; Wait only fences completion.
	_ = g.Wait()
}
