// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/KnowYourRightsCard/kyrcard-go/internal/application/services"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/appstate"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/ai"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/geocoding"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/media"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/messaging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/notifications"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/performance"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/database"
	encounterrepo "github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/encounter"
	userrepo "github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/persistence/user"
	"github.com/KnowYourRightsCard/kyrcard-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	AuthService      *services.AuthService
	EncounterService *services.EncounterService
	AlertService     *services.AlertService
	ContactService   *services.ContactService
	GuideService     *services.GuideService
	EvidenceService  *services.EvidenceService
	OpsService       *services.OpsService

	// Infrastructure
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker
	DB             *database.DB
	StateHub       *appstate.Hub
	Broadcaster    messaging.Broadcaster
	OpsBroadcaster *messaging.OpsBroadcaster
	Geocoder       *geocoding.NominatimClient
	MediaBasePath  string
}

// NewContainer creates and wires all singleton services
func NewContainer() (*Container, error) {
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return nil, err
	}
	perfTracker := performance.NewTracker()

	db, err := database.NewConnection(logger)
	if err != nil {
		return nil, err
	}
	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return nil, err
	}

	hub := appstate.NewHub()
	broadcaster := messaging.NewSSEBroadcaster(logger)
	geocoder := geocoding.NewNominatimClient(logger)

	userRepo := userrepo.NewSQLUserRepository(db, logger)
	encounterRepo := encounterrepo.NewSQLEncounterRepository(db, logger)
	contactRepo := encounterrepo.NewSQLContactRepository(db, logger, config.AESKey)

	var smsSender notifications.SMSSender
	if sender, err := notifications.NewGatewaySMSSender(); err == nil {
		smsSender = sender
	} else {
		logger.Startup().Warn("SMS gateway not configured, alert texts will be logged only")
		smsSender = notifications.NewLogSMSSender(logger)
	}

	var emailSender notifications.EmailSender
	if sender, err := notifications.NewResendEmailSender(); err == nil {
		emailSender = sender
	} else {
		logger.Startup().Warn("Resend not configured, alert emails will be logged only")
		emailSender = notifications.NewLogEmailSender(logger)
	}

	generator := ai.NewLemurGenerator(logger)
	evidenceProcessor := media.NewEvidenceProcessor(config.MediaBasePath, logger)

	opsService := services.NewOpsService(hub, perfTracker)

	c := &Container{
		AuthService:      services.NewAuthService(userRepo, hub, logger),
		EncounterService: services.NewEncounterService(encounterRepo, hub, generator, broadcaster, logger, perfTracker),
		AlertService:     services.NewAlertService(encounterRepo, hub, smsSender, emailSender, broadcaster, logger, perfTracker),
		ContactService:   services.NewContactService(contactRepo, hub, logger),
		GuideService:     services.NewGuideService(hub, generator, logger),
		EvidenceService:  services.NewEvidenceService(encounterRepo, evidenceProcessor, logger),
		OpsService:       opsService,

		Logger:         logger,
		PerfTracker:    perfTracker,
		DB:             db,
		StateHub:       hub,
		Broadcaster:    broadcaster,
		OpsBroadcaster: messaging.NewOpsBroadcaster(opsService, logger),
		Geocoder:       geocoder,
		MediaBasePath:  config.MediaBasePath,
	}
	return c, nil
}

// Close releases container-held resources.
func (c *Container) Close() error {
	if err := c.DB.Close(); err != nil {
		return err
	}
	return c.Logger.Close()
}
