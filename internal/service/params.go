package service

import (
	"github.com/revlytics/revlytics/internal/config"
	"github.com/revlytics/revlytics/internal/domain/events"
	"github.com/revlytics/revlytics/internal/logger"
)

// ServiceParams holds the shared dependencies injected into every service
type ServiceParams struct {
	Logger     *logger.Logger
	Config     *config.Configuration
	EventRepo  events.Repository
	Classifier *events.Classifier
}
