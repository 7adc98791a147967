package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"lab-reception/internal/logging"
	"lab-reception/internal/metrics"
	"lab-reception/internal/models"
	"lab-reception/internal/selection"
	"lab-reception/internal/summary"

	"go.uber.org/zap"
)

// ErrActionNotAllowed is returned when the entity's current state does not offer the action.
var ErrActionNotAllowed = errors.New("La acción no está permitida en el estado actual.")

const unknownName = "Desconocido"

// ListQuery carries the list-page parameters sent by the browser.
type ListQuery struct {
	Selected       []int
	Fingerprint    string
	Search         string
	View           string
	IncludeDeleted bool
}

// ListView is a reloaded list page: visible rows, counters, cards and the
// reconciled selection.
type ListView[T any, C any] struct {
	Items     []T             `json:"items"`
	Counts    C               `json:"counts"`
	Cards     summary.Cards   `json:"cards"`
	Selection selection.State `json:"selection"`
}

// ActionRecorder persists an audit entry for a console mutation or export.
type ActionRecorder interface {
	CreateActionLog(ctx context.Context, log *models.ActionLog) error
}

// audit writes one action log entry. A nil recorder or a failed write never
// affects the caller's result.
type audit struct {
	recorder ActionRecorder
	logger   *zap.Logger
}

func (a audit) record(ctx context.Context, action, target string, id int, description string, err error) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	log := logging.For(ctx, a.logger)
	log.Info("console action",
		zap.String("action", action),
		zap.String("target", target),
		zap.Int("target_id", id),
		zap.String("outcome", outcome),
	)
	if a.recorder == nil {
		return
	}

	entry := &models.ActionLog{
		RequestID:   logging.RequestID(ctx),
		ActionType:  action,
		TargetType:  target,
		Description: description,
		Outcome:     outcome,
	}
	if id > 0 {
		entry.TargetID = &id
	}
	if ip := logging.ClientIP(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if err := a.recorder.CreateActionLog(context.WithoutCancel(ctx), entry); err != nil {
		log.Warn("action log write failed", zap.Error(err))
	}
}

// matches reports whether any of the fields contains the search term, ignoring case.
func matches(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// QuantityField accepts the quantity as typed in the form, JSON number or string.
type QuantityField string

func (q *QuantityField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*q = QuantityField(s)
		return nil
	}
	*q = QuantityField(bytes.TrimSpace(data))
	return nil
}
