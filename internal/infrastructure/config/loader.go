package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics  *PhysicsConfig
	Entities *EntitiesConfig
	World    *WorldConfig
}

// Loader loads game configuration using fs.FS interface.
// Tuning lives in JSON, world data in YAML.
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader reads from, if any.
func (l *Loader) BasePath() string {
	return l.basePath
}

func (l *Loader) readJSON(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (l *Loader) readYAML(name string, v any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// LoadPhysics loads physics.json
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	var cfg PhysicsConfig
	if err := l.readJSON("physics.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEntities loads entities.json
func (l *Loader) LoadEntities() (*EntitiesConfig, error) {
	var cfg EntitiesConfig
	if err := l.readJSON("entities.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadMap loads a single map file, relative to the loader root
func (l *Loader) LoadMap(name string) (*MapConfig, error) {
	var cfg MapConfig
	if err := l.readYAML(name, &cfg); err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = trimExt(path.Base(name))
	}
	return &cfg, nil
}

// LoadWorld loads world.yaml and every map it lists. Map files are parsed
// concurrently.
func (l *Loader) LoadWorld() (*WorldConfig, error) {
	var cfg WorldConfig
	if err := l.readYAML("world.yaml", &cfg); err != nil {
		return nil, err
	}

	maps := make([]*MapConfig, len(cfg.MapFiles))
	var g errgroup.Group
	for i, name := range cfg.MapFiles {
		g.Go(func() error {
			m, err := l.LoadMap(name)
			if err != nil {
				return err
			}
			maps[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load world: %w", err)
	}

	cfg.Maps = maps
	return &cfg, nil
}

// LoadAll loads every configuration file
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	entities, err := l.LoadEntities()
	if err != nil {
		return nil, err
	}

	world, err := l.LoadWorld()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics:  physics,
		Entities: entities,
		World:    world,
	}, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(path.Ext(name))]
}
