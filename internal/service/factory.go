package service

import (
	"time"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	hasher   auth.PasswordHasher
	issuer   *auth.TokenIssuer
	welcome  WelcomeHook
	now      func() time.Time
}

func NewServices(
	stores *store.Stores,
	txRunner TxRunner,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	welcome WelcomeHook,
) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		hasher:   hasher,
		issuer:   issuer,
		welcome:  welcome,
		now:      time.Now,
	}
}

func (s *Services) Registration() RegistrationService {
	return NewRegistrationService(
		s.stores.Organizations(),
		s.stores.Users(),
		s.txRunner,
		s.hasher,
		s.welcome,
		s.now,
	)
}

func (s *Services) Subscriptions() SubscriptionService {
	return NewSubscriptionService(s.stores.Organizations(), s.txRunner, s.now)
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Organizations(), s.hasher, s.issuer, s.now)
}

func (s *Services) Schools() SchoolService {
	return NewSchoolService(s.stores.Schools(), s.stores.Users(), s.txRunner)
}

func (s *Services) Onboarding() OnboardingService {
	return NewOnboardingService(s.txRunner, s.now)
}

func (s *Services) Roster() RosterService {
	return NewRosterService(s.txRunner, s.now)
}
