package usecase

import (
	"fmt"
	"time"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// nextSeq hands out the next identifier of the session.
func nextSeq(s *domain.State) int64 {
	s.Seq++
	return s.Seq
}

func nextID(s *domain.State, prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nextSeq(s))
}

// logHistory prepends an entry, dropping the oldest once the limit is reached.
func logHistory(s *domain.State, now time.Time, category domain.HistoryCategory, format string, args ...any) {
	entry := domain.HistoryEntry{
		ID:        nextSeq(s),
		Timestamp: now,
		Message:   fmt.Sprintf(format, args...),
		Category:  category,
	}

	limit := s.Settings.HistoryLimit
	if limit < 1 {
		limit = domain.DefaultHistoryLimit
	}
	keep := len(s.History)
	if keep > limit-1 {
		keep = limit - 1
	}

	history := make([]domain.HistoryEntry, 0, keep+1)
	history = append(history, entry)
	history = append(history, s.History[:keep]...)
	s.History = history
}

// pushToast appends a toast that expires one lifetime after now.
func pushToast(s *domain.State, now time.Time, kind domain.ToastKind, icon, title, message string) {
	lifetime := s.Settings.ToastLifetime
	if lifetime <= 0 {
		lifetime = domain.DefaultToastLifetime
	}
	toast := domain.Toast{
		ID:        nextSeq(s),
		Title:     title,
		Message:   message,
		Kind:      kind,
		Icon:      icon,
		ExpiresAt: now.Add(lifetime),
	}

	toasts := make([]domain.Toast, 0, len(s.Notifications)+1)
	toasts = append(toasts, s.Notifications...)
	s.Notifications = append(toasts, toast)
}

func addNotification(s domain.State, a AddNotification, now time.Time) domain.State {
	if a.Title == "" && a.Message == "" {
		return s
	}
	kind := a.Severity
	if kind == "" {
		kind = domain.ToastSuccess
	}
	pushToast(&s, now, kind, a.Icon, a.Title, a.Message)
	return s
}

func removeNotification(s domain.State, id int64) domain.State {
	idx := -1
	for i, t := range s.Notifications {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	toasts := make([]domain.Toast, 0, len(s.Notifications)-1)
	toasts = append(toasts, s.Notifications[:idx]...)
	s.Notifications = append(toasts, s.Notifications[idx+1:]...)
	return s
}

func expireNotifications(s domain.State, now time.Time) domain.State {
	live := make([]domain.Toast, 0, len(s.Notifications))
	for _, t := range s.Notifications {
		if now.Before(t.ExpiresAt) {
			live = append(live, t)
		}
	}
	if len(live) == len(s.Notifications) {
		return s
	}
	s.Notifications = live
	return s
}

func addHistoryEntry(s domain.State, a AddHistoryEntry, now time.Time) domain.State {
	if a.Message == "" {
		return s
	}
	category := a.Category
	switch category {
	case domain.CategoryAntivirus, domain.CategoryFirewall, domain.CategoryUpdates, domain.CategoryGeneral:
	default:
		category = domain.CategoryGeneral
	}
	logHistory(&s, now, category, "%s", a.Message)
	return s
}

func showHint(s domain.State, now time.Time) domain.State {
	c, ok := firstUnmet(s)
	if !ok {
		pushToast(&s, now, domain.ToastHint, "info", "Hint", "Everything is secured. Submit your evaluation.")
		return s
	}
	pushToast(&s, now, domain.ToastHint, "info", "Hint", c.Hint)
	return s
}
