package loader_test

import (
	"fmt"
	"testing"

	"scale-sync/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	loadErr error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	return f.loadErr
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		mgr := loader.NewManager()
		on := &stubFeature{name: "sync", enabled: true}
		off := &stubFeature{name: "history", enabled: false}
		mgr.Register(on)
		mgr.Register(off)

		err := mgr.LoadAll(fiber.New())
		assert.NoError(t, err)
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Equal(t, []string{"sync"}, mgr.Enabled())
	})

	t.Run("PropagatesLoadError", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "sync", enabled: true, loadErr: fmt.Errorf("boom")})

		err := mgr.LoadAll(fiber.New())
		assert.EqualError(t, err, "boom")
	})
}
