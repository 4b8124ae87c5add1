package usecase

import (
	"time"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

func checkForUpdates(s domain.State) domain.State {
	if s.Updates.Checking || s.Updates.Installing {
		return s
	}
	s.Updates.Checking = true
	return s
}

func startUpdateInstall(s domain.State) domain.State {
	if s.Updates.Installing {
		return s
	}
	s.Updates.Installing = true
	s.Updates.Checking = false
	return s
}

// updateInstallProgress moves one item a single step forward. Items install
// one at a time in list order.
func updateInstallProgress(s domain.State, a UpdateInstallProgress, now time.Time) domain.State {
	if !s.Updates.Installing {
		return s
	}
	idx := -1
	for i, it := range s.Updates.Items {
		if it.ID == a.UpdateID {
			idx = i
			break
		}
	}
	if idx < 0 || !s.Updates.Items[idx].Status.CanAdvanceTo(a.Status) {
		return s
	}

	if a.Status == domain.UpdateInstalling {
		if _, busy := s.Updates.InFlight(); busy {
			return s
		}
		if next, _ := s.Updates.NextPending(); next.ID != a.UpdateID {
			return s
		}
	}

	items := make([]domain.UpdateItem, len(s.Updates.Items))
	copy(items, s.Updates.Items)
	items[idx].Status = a.Status
	s.Updates.Items = items

	if a.Status == domain.UpdateInstalled {
		logHistory(&s, now, domain.CategoryUpdates, "Update %s was installed.", items[idx].ID)
	}
	return s
}

func finishUpdate(s domain.State, now time.Time) domain.State {
	if !s.Updates.Installing || !s.Updates.AllInstalled() {
		return s
	}
	s.Updates.Installing = false
	s.Achievements = s.Achievements.With(domain.LatestAndGreatest)
	logHistory(&s, now, domain.CategoryUpdates, "System updates successfully installed.")
	return s
}
