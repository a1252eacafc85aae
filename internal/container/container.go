package container

import (
	"fmt"
	"time"

	"github.com/marcosfaria19/clarohub-sub000/internal/config"
	"github.com/marcosfaria19/clarohub-sub000/internal/database"
	"github.com/marcosfaria19/clarohub-sub000/internal/parser"
	"github.com/marcosfaria19/clarohub-sub000/internal/ws"
	"gorm.io/gorm"
)

// Container wires the shared application dependencies: database,
// parser registry and the board event hub.
type Container struct {
	db       *gorm.DB
	cities   parser.CityTable
	registry *parser.Registry
	hub      *ws.Hub
}

// NewContainer initializes all dependencies from the config.
func NewContainer(cfg *config.Config) (*Container, error) {
	// Retry 3 times with exponential backoff starting at 1s.
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	cities, err := parser.LoadCityTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load city table: %w", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	return &Container{
		db:       db,
		cities:   cities,
		registry: parser.NewRegistry(cities),
		hub:      hub,
	}, nil
}

// DB returns the database handle.
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Cities returns the operator-code lookup table.
func (c *Container) Cities() parser.CityTable {
	return c.cities
}

// ParserRegistry returns the spreadsheet parser registry.
func (c *Container) ParserRegistry() *parser.Registry {
	return c.registry
}

// Hub returns the board event hub.
func (c *Container) Hub() *ws.Hub {
	return c.hub
}

// Close releases container resources.
func (c *Container) Close() error {
	return database.Close(c.db)
}
