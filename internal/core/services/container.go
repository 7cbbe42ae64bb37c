package services

import (
	"time"

	portsrepo "github.com/telemedix/ledger-backend/internal/core/ports/repositories"
	portssvc "github.com/telemedix/ledger-backend/internal/core/ports/services"
	"github.com/telemedix/ledger-backend/internal/platform/cache"
)

// ContainerDeps carries everything the service layer needs from the
// outside: repositories, the optional wallet cache and the auth settings.
type ContainerDeps struct {
	Repos             *portsrepo.RepositoryContainer
	WalletCache       *cache.WalletCache
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
	JWTDuration       time.Duration
}

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	var walletOpts []WalletServiceOption
	var batchOpts []BatchServiceOption
	if deps.WalletCache != nil {
		walletOpts = append(walletOpts, WithWalletCache(deps.WalletCache))
		batchOpts = append(batchOpts, WithBatchWalletCache(deps.WalletCache))
	}

	container.Account = NewAccountService(deps.Repos.Account, deps.Repos.Batch)
	container.Wallet = NewWalletService(deps.Repos.Wallet, walletOpts...)
	container.Batch = NewBatchService(deps.Repos.Account, deps.Repos.Batch, deps.Repos.Wallet, batchOpts...)
	container.Reporting = NewReportingService(deps.Repos.Reporting, deps.Repos.Account)
	container.Migration = NewMigrationService(deps.Repos.Legacy, deps.Repos.Batch, container.Batch, container.Wallet)
	container.Auth = NewAuthService(deps.AdminUsername, deps.AdminPasswordHash, deps.JWTSecret, deps.JWTDuration)

	return container
}
