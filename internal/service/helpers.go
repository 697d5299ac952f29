package service

import (
	"errors"

	"github.com/ledgerly/ledgerly-backend/internal/domain"
)

// isNotFound reports whether err is one of the not-found sentinels repositories return
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrBudgetNotFound) ||
		errors.Is(err, domain.ErrExpenseNotFound) ||
		errors.Is(err, domain.ErrGoalNotFound) ||
		errors.Is(err, domain.ErrReportNotFound) ||
		errors.Is(err, domain.ErrSettingsNotFound) ||
		errors.Is(err, domain.ErrUserNotFound)
}
