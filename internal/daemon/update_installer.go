package daemon

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// UpdateInstallerConfig holds update simulation timing.
type UpdateInstallerConfig struct {
	CheckDelay time.Duration // How long "checking for updates" takes
	StepDelay  time.Duration // How long each update takes to install
}

// DefaultUpdateInstallerConfig returns default update timing.
func DefaultUpdateInstallerConfig() UpdateInstallerConfig {
	return UpdateInstallerConfig{
		CheckDelay: 2 * time.Second,
		StepDelay:  2 * time.Second,
	}
}

// UpdateInstaller drives the update lifecycle: checking, then installing
// pending updates one at a time in list order, then finishing.
type UpdateInstaller struct {
	config  UpdateInstallerConfig
	session usecase.Session
	clock   clockwork.Clock
	logger  *zap.Logger
}

// NewUpdateInstaller creates a new update installer.
func NewUpdateInstaller(
	config UpdateInstallerConfig,
	session usecase.Session,
	clock clockwork.Clock,
	logger *zap.Logger,
) *UpdateInstaller {
	return &UpdateInstaller{
		config:  config,
		session: session,
		clock:   clock,
		logger:  logger,
	}
}

// RunCheck waits out the check delay and starts installing.
func (u *UpdateInstaller) RunCheck(ctx context.Context) error {
	if err := sleep(ctx, u.clock, u.config.CheckDelay); err != nil {
		return err
	}
	if !u.session.State().Updates.Checking {
		return nil
	}
	u.session.Dispatch(usecase.StartUpdateInstall{})
	return nil
}

// Run installs updates until none are pending, then finishes. It returns
// early if installation stops or ctx is canceled.
func (u *UpdateInstaller) Run(ctx context.Context) error {
	u.logger.Debug("update installer started")

	for {
		s := u.session.State()
		if !s.Updates.Installing {
			return nil
		}

		item, busy := s.Updates.InFlight()
		if !busy {
			next, ok := s.Updates.NextPending()
			if !ok {
				if s.Updates.AllInstalled() {
					u.finish()
				}
				return nil
			}
			u.session.Dispatch(usecase.UpdateInstallProgress{UpdateID: next.ID, Status: domain.UpdateInstalling})
			item = next
		}

		if err := sleep(ctx, u.clock, u.config.StepDelay); err != nil {
			u.logger.Debug("update installer stopping")
			return err
		}

		u.session.Dispatch(usecase.UpdateInstallProgress{UpdateID: item.ID, Status: domain.UpdateInstalled})
		u.logger.Info("update installed", zap.String("update", item.ID))
	}
}

func (u *UpdateInstaller) finish() {
	u.session.Dispatch(usecase.FinishUpdate{})
	u.session.Dispatch(usecase.AddNotification{
		Title:    "System updated",
		Message:  "Your device is now up to date.",
		Severity: domain.ToastSuccess,
		Icon:     "check-circle",
	})
	u.logger.Info("updates finished")
}
