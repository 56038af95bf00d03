package cmd

import (
	"context"

	"github.com/spf13/afero"

	"github.com/pders01/modeldrift/internal/config"
	"github.com/pders01/modeldrift/internal/registry"
)

// sources are the record and method providers of one command run
type sources struct {
	Records registry.Provider
	Methods registry.MethodSource
}

// loadSources reads the registry manifest when one is given and
// otherwise analyses the source tree
func loadSources(ctx context.Context, manifest, root string) (*sources, error) {
	if manifest != "" {
		reg, err := registry.LoadManifest(afero.NewOsFs(), manifest)
		if err != nil {
			return nil, err
		}
		return &sources{Records: reg, Methods: reg}, nil
	}

	snap, err := analyzeTree(ctx, config.ResolveSourceRoot(root), "", nil)
	if err != nil {
		return nil, err
	}
	return &sources{
		Records: registry.NewSourceProvider(snap),
		Methods: registry.NewSourceMethods(snap),
	}, nil
}
