package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sdkorder/pkg/cache"
	"github.com/matzehuels/sdkorder/pkg/errors"
)

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		code     errors.Code
	}{
		{"missing manifest", "", errors.ErrCodeInvalidInput},
		{"bad extension", "sdk.txt", errors.ErrCodeInvalidFormat},
		{"valid", "sdk.yaml", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Manifest: tt.manifest}
			err := opts.ValidateAndSetDefaults()
			assert.Equal(t, tt.code, errors.GetCode(err))
			if tt.code == "" {
				assert.NotNil(t, opts.Logger)
				assert.NoError(t, opts.ValidateAndSetDefaults(), "must be idempotent")
			}
		})
	}
}

func TestExecute_Report(t *testing.T) {
	r := quietRunner(t, nil)
	res, err := r.Execute(context.Background(), Options{Manifest: "testdata/sdk.json", Detailed: true})
	require.NoError(t, err)
	require.NotNil(t, res.Registry)
	assert.False(t, res.CacheHit)

	rep := res.Report
	assert.NotEmpty(t, rep.RunID)
	assert.Len(t, rep.ManifestHash, 64)

	type step struct{ pkg, kind, file string }
	var got []step
	for _, s := range rep.Steps {
		got = append(got, step{s.Package, s.Kind, s.File})
	}
	assert.Equal(t, []step{
		{"Game", "structs", "Game_structs.hpp"},
		{"Core", "structs", "Core_structs.hpp"},
		{"Engine", "structs", "Engine_structs.hpp"},
		{"Core", "classes", "Core_classes.hpp"},
		{"Engine", "classes", "Engine_classes.hpp"},
		{"Game", "classes", "Game_classes.hpp"},
		{"Engine_1", "structs", "Engine_1_structs.hpp"},
		{"Engine_1", "classes", ""},
		{"UMG", "structs", ""},
		{"UMG", "classes", "UMG_classes.hpp"},
	}, got)

	require.Len(t, rep.Packages, 5)
	game := rep.Packages[0]
	assert.Equal(t, []string{"Engine"}, game.ClassesRequire)
	assert.Nil(t, game.StructsRequire)
	assert.Equal(t, []string{
		"Game_structs.hpp", "Game_classes.hpp", "Core_structs.hpp", "UMG_classes.hpp",
	}, game.ParamIncludes)

	engine1 := rep.Packages[3]
	assert.Equal(t, "Engine", engine1.Name)
	assert.Equal(t, "Engine_1", engine1.UniqueName)
	assert.Equal(t, []string{"Engine"}, engine1.StructsRequire)
	assert.Equal(t, []int{8}, engine1.Structs)

	assert.Equal(t, []Collision{{Name: "Engine", Count: 2}}, rep.Collisions)
	assert.Empty(t, rep.Cycles)
	assert.Equal(t, Stats{
		Packages:     5,
		Requirements: rep.Stats.Requirements,
		Steps:        10,
		Cycles:       0,
		LoadTime:     rep.Stats.LoadTime,
		OrderTime:    rep.Stats.OrderTime,
	}, rep.Stats)
	assert.Equal(t, 7, rep.Stats.Requirements)
}

func TestExecute_Cycles(t *testing.T) {
	r := quietRunner(t, nil)

	res, err := r.Execute(context.Background(), Options{Manifest: "testdata/cycle.yaml"})
	require.NoError(t, err)
	require.Len(t, res.Report.Cycles, 2)
	assert.Equal(t, "A -> B -> A (structs)", res.Report.Cycles[0].String())
	assert.Equal(t, "A -> B -> A (classes)", res.Report.Cycles[1].String())
	assert.Len(t, res.Report.Steps, 4, "ordering still terminates on cyclic graphs")

	res, err = r.Execute(context.Background(), Options{Manifest: "testdata/cycle.yaml", StopAtFirstCycle: true})
	require.NoError(t, err)
	assert.Len(t, res.Report.Cycles, 1)
}

func TestExecute_Cache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	r := quietRunner(t, c)
	defer r.Close()

	first, err := r.Execute(ctx, Options{Manifest: "testdata/sdk.json"})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(ctx, Options{Manifest: "testdata/sdk.json"})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.Registry)
	assert.Equal(t, first.Report.Steps, second.Report.Steps)
	assert.Equal(t, first.Report.ManifestHash, second.Report.ManifestHash)
	assert.NotEqual(t, first.Report.RunID, second.Report.RunID)

	other, err := r.Execute(ctx, Options{Manifest: "testdata/sdk.json", Detailed: true})
	require.NoError(t, err)
	assert.False(t, other.CacheHit, "different options use a different key")

	fresh, err := r.Execute(ctx, Options{Manifest: "testdata/sdk.json", Refresh: true})
	require.NoError(t, err)
	assert.False(t, fresh.CacheHit)
}

func TestExecute_Errors(t *testing.T) {
	r := quietRunner(t, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{Manifest: "testdata/missing.json"})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))

	_, err = r.Execute(ctx, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Execute(cancelled, Options{Manifest: "testdata/sdk.json"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAndBuild(t *testing.T) {
	r := quietRunner(t, nil)
	ctx := context.Background()

	snap, hash, err := r.Load(ctx, "testdata/sdk.json")
	require.NoError(t, err)
	assert.Equal(t, 10, snap.Len())
	assert.Len(t, hash, 64)

	reg, err := r.Build(ctx, Options{Manifest: "testdata/cycle.yaml"})
	require.NoError(t, err)
	assert.True(t, reg.Initialized())
	assert.Equal(t, 2, reg.Len())
}
