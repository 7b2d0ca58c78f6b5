package service

import (
	"context"
	"time"

	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
	"github.com/caffeinepub/total-amount-calculator-app/internal/worker"
)

// ProfileEnqueuer is the slice of the worker dispatcher the settings flow
// needs for best-effort profile mirroring.
type ProfileEnqueuer interface {
	EnqueueProfileSync(ctx context.Context, payload worker.ProfileSyncPayload)
}

// SettingsService manages the branch's local print-format defaults and the
// remote user profile. Defaults writes mirror the print location to the
// remote profile best-effort; direct profile operations are synchronous and
// surface remote errors to the caller.
type SettingsService interface {
	GetDefaults(ctx context.Context, branch string) (model.BillFormatDefaults, error)
	SaveDefaults(ctx context.Context, branch string, defaults model.BillFormatDefaults) error
	GetProfile(ctx context.Context, branch string) (*remote.UserProfile, error)
	SaveProfile(ctx context.Context, branch, name, billPrintLocation string) error
}

type settingsService struct {
	defaults   *localstore.DefaultsStore
	remote     remote.Ledger
	dispatcher ProfileEnqueuer
	timeout    time.Duration
}

func NewSettingsService(defaults *localstore.DefaultsStore, remoteLedger remote.Ledger, dispatcher ProfileEnqueuer, timeout time.Duration) SettingsService {
	return &settingsService{
		defaults:   defaults,
		remote:     remoteLedger,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

func (s *settingsService) GetDefaults(_ context.Context, branch string) (model.BillFormatDefaults, error) {
	return s.defaults.Load(branch)
}

func (s *settingsService) SaveDefaults(ctx context.Context, branch string, defaults model.BillFormatDefaults) error {
	if err := s.defaults.Save(branch, defaults); err != nil {
		return err
	}
	// Keep the remote profile's print location in step, fire-and-forget.
	s.dispatcher.EnqueueProfileSync(ctx, worker.ProfileSyncPayload{
		Branch:            branch,
		Name:              branch,
		BillPrintLocation: defaults.PrintLocationAddress,
	})
	return nil
}

func (s *settingsService) GetProfile(ctx context.Context, branch string) (*remote.UserProfile, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.remote.GetUserProfile(callCtx, branch)
}

func (s *settingsService) SaveProfile(ctx context.Context, branch, name, billPrintLocation string) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.remote.SaveUserProfile(callCtx, remote.UserProfile{
		Branch:            branch,
		Name:              name,
		BillPrintLocation: billPrintLocation,
	})
}
