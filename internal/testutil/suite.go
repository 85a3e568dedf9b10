package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/revlytics/revlytics/internal/config"
	"github.com/revlytics/revlytics/internal/domain/events"
	"github.com/revlytics/revlytics/internal/logger"
)

// BaseServiceTestSuite provides the shared fixtures service tests build on:
// default config, a logger, a fresh in-memory event store and the default
// classifier rule table.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx        context.Context
	cfg        *config.Configuration
	log        *logger.Logger
	eventStore *InMemoryEventStore
	classifier *events.Classifier
}

// SetupTest initializes fresh fixtures before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.eventStore = NewInMemoryEventStore()
	s.classifier = events.NewClassifier(events.DefaultClassificationRules())
}

// TearDownTest clears the event store after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	if s.eventStore != nil {
		s.eventStore.Clear()
	}
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetEventStore() *InMemoryEventStore {
	return s.eventStore
}

func (s *BaseServiceTestSuite) GetClassifier() *events.Classifier {
	return s.classifier
}
