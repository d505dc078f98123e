package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"kron/internal/config"
	"kron/internal/occurrence"
	"kron/internal/series"
	"kron/internal/storage"
)

// DBFileName is the database file name inside the data directory.
const DBFileName = "kron.db"

// Context is shared by all commands.
type Context struct {
	DataDir string
	Log     zerolog.Logger

	store   *storage.Store
	config  *config.Store
	gateway *config.Gateway
	query   *occurrence.Query
	engine  *series.Engine
}

// DBPath returns the database file path.
func (c *Context) DBPath() string {
	return filepath.Join(c.DataDir, DBFileName)
}

// ConfigPath returns the config file path.
func (c *Context) ConfigPath() string {
	return filepath.Join(c.DataDir, config.FileName)
}

// Open connects to an initialized data directory. The database must already
// exist; init creates it.
func (c *Context) Open() error {
	if _, err := os.Stat(c.DBPath()); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'kron init' first")
	}
	return c.open()
}

func (c *Context) open() error {
	store, err := storage.Open(c.DBPath())
	if err != nil {
		return err
	}
	cfg := config.NewStore(c.ConfigPath())
	if err := cfg.Load(); err != nil {
		store.Close()
		return err
	}

	c.store = store
	c.config = cfg
	c.gateway = config.NewGateway(cfg, store)
	c.query = occurrence.NewQuery(store)
	c.engine = series.NewEngine(store)
	return nil
}

// Close releases the store. Safe to call when Open failed.
func (c *Context) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func (c *Context) Store() *storage.Store     { return c.store }
func (c *Context) Config() *config.Store     { return c.config }
func (c *Context) Gateway() *config.Gateway  { return c.gateway }
func (c *Context) Query() *occurrence.Query  { return c.query }
func (c *Context) Engine() *series.Engine    { return c.engine }
