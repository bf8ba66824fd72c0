package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"microgrid-valuation/internal/api/models"
	"microgrid-valuation/internal/config"
	"microgrid-valuation/internal/log"
	"microgrid-valuation/internal/model"

	"github.com/gin-gonic/gin"
)

// PresetHandler serves project presets from a directory of YAML files.
type PresetHandler struct {
	dir string
}

func NewPresetHandler(dir string) *PresetHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &PresetHandler{dir: dir}
}

func (h *PresetHandler) Dir() string { return h.dir }

// Load reads the preset with the given id (file name without extension).
func (h *PresetHandler) Load(id string) (*config.Config, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return nil, fmt.Errorf("%w: invalid preset id %q", model.ErrInvalidConfiguration, id)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		p := filepath.Join(h.dir, id+ext)
		if _, err := os.Stat(p); err == nil {
			return config.LoadPreset(p)
		}
	}
	return nil, fmt.Errorf("%w: unknown preset %q", model.ErrInvalidConfiguration, id)
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	ctx := c.Request.Context()
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "preset directory unreadable", slog.String("dir", h.dir), slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		p, err := h.Load(id)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "skipping invalid preset", slog.String("file", e.Name()), slog.String("error", err.Error()))
			continue
		}
		mg := p.Microgrid.ToModel()
		presets = append(presets, models.PresetInfo{
			ID:           id,
			Name:         p.Name,
			File:         e.Name(),
			PVCapacityKW: mg.PVCapacityKW,
			StorageKWh:   mg.StorageCapacityKWh,
			StorageKW:    mg.StoragePowerKW,
			Tariff:       p.Pricing.Template,
		})
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
