package loopy

import (
	"fmt"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/registry"
)

// Ensure Level satisfies the platform contract.
var _ registry.Game = (*Level)(nil)

// LevelKey is the registry id and score key of a level.
func LevelKey(id int) string {
	return fmt.Sprintf("level_%02d", id)
}

// Register adds a factory for every level of the catalogue. Each created
// level gets opts applied.
func Register(reg *registry.Registry, cat config.Catalog, opts ...Option) error {
	for _, def := range cat.Levels {
		def := def
		err := reg.Register(LevelKey(def.ID), func() registry.Game {
			return New(def, opts...)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
