// Package usecase contains the simulation's business logic: the state
// transition function, scoring, and the store that serialises dispatch.
package usecase

import (
	"time"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Reduce computes the state that follows s after a. It is pure and total:
// the clock is passed in as now, the input is never modified, and actions
// that are unknown or do not apply return s unchanged.
func Reduce(s domain.State, a Action, now time.Time) domain.State {
	next, ok := apply(s, a, now)
	if !ok {
		return s
	}
	return finalize(next)
}

// finalize applies rules that hold after every transition.
func finalize(s domain.State) domain.State {
	if !s.Achievements.Has(domain.PerfectScore) && SecurityScore(s) == MaxScore {
		s.Achievements = s.Achievements.With(domain.PerfectScore)
	}
	return s
}

func apply(s domain.State, a Action, now time.Time) (domain.State, bool) {
	switch a := a.(type) {
	// Protection
	case ToggleAntivirus:
		return toggleAntivirus(s, now), true
	case ToggleFirewall:
		return toggleFirewall(s, now), true
	case SetRansomwareProtection:
		return setRansomware(s, a, now), true

	// Scan
	case StartScan:
		return startScan(s, a, now), true
	case ScanProgress:
		return scanProgress(s, a), true
	case FinishScan:
		return finishScan(s, a, now), true
	case ManageThreat:
		return manageThreat(s, a, now), true
	case AddScanExclusion:
		return addScanExclusion(s, a, now), true
	case RemoveScanExclusion:
		return removeScanExclusion(s, a, now), true

	// Updates
	case CheckForUpdates:
		return checkForUpdates(s), true
	case StartUpdateInstall:
		return startUpdateInstall(s), true
	case UpdateInstallProgress:
		return updateInstallProgress(s, a, now), true
	case FinishUpdate:
		return finishUpdate(s, now), true

	// Desktop
	case ToggleStartMenu:
		s.StartMenuOpen = !s.StartMenuOpen
		return s, true
	case CloseStartMenu:
		s.StartMenuOpen = false
		return s, true
	case OpenWindow:
		return openWindow(s, a), true
	case CloseWindow:
		return closeWindow(s, a), true
	case FocusWindow:
		return focusWindow(s, a.App), true
	case ToggleMaximizeWindow:
		return toggleMaximize(s, a.App), true
	case MoveWindow:
		return moveWindow(s, a), true
	case MinimizeWindow:
		return minimizeWindow(s, a.App), true
	case RestoreWindow:
		return restoreWindow(s, a.App), true
	case Restart:
		return restart(s, now), true

	// Popups
	case ShowVulnerablePopup:
		s.VulnerablePopupOpen = true
		return s, true
	case CloseVulnerablePopup:
		s.VulnerablePopupOpen = false
		return s, true
	case ShowPhishingPopup:
		return showPhishing(s), true
	case ClosePhishingPopup:
		return closePhishing(s, a, now), true
	case ShowSecurityReport:
		return showSecurityReport(s), true
	case CloseSecurityReport:
		return closeSecurityReport(s), true

	// Records
	case AddNotification:
		return addNotification(s, a, now), true
	case RemoveNotification:
		return removeNotification(s, a.ID), true
	case ExpireNotifications:
		return expireNotifications(s, now), true
	case AddHistoryEntry:
		return addHistoryEntry(s, a, now), true

	// Settings
	case SetFamilyOptions:
		return setFamilyOptions(s, a, now), true
	case AddFirewallRule:
		return addFirewallRule(s, a, now), true
	case RemoveFirewallRule:
		return removeFirewallRule(s, a, now), true

	// Gamification
	case UnlockAchievement:
		s.Achievements = s.Achievements.With(a.ID)
		return s, true
	case Evaluate:
		return evaluate(s, now), true
	case ShowHint:
		return showHint(s, now), true
	}
	return s, false
}

// restart reboots into a fresh session but keeps what must never regress:
// history, achievements, installed updates and the id sequence.
func restart(s domain.State, now time.Time) domain.State {
	next := domain.NewState(s.Settings)
	next.History = s.History
	next.Achievements = s.Achievements
	next.Seq = s.Seq
	next.Phishing.Outcome = s.Phishing.Outcome

	installed := make(map[string]bool, len(s.Updates.Items))
	for _, it := range s.Updates.Items {
		if it.Status == domain.UpdateInstalled {
			installed[it.ID] = true
		}
	}
	for i, it := range next.Updates.Items {
		if installed[it.ID] {
			next.Updates.Items[i].Status = domain.UpdateInstalled
		}
	}

	logHistory(&next, now, domain.CategoryGeneral, "System restarted successfully.")
	return next
}

// evaluate records the rubric result once per session.
func evaluate(s domain.State, now time.Time) domain.State {
	if s.Evaluation != nil {
		return s
	}
	res := EvaluateRubric(s)
	s.Evaluation = &res
	logHistory(&s, now, domain.CategoryGeneral, "Evaluation completed with score %d/%d.", res.Score, res.MaxScore)
	return s
}
