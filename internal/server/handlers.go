package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tariff-cli/internal/engine"
	"github.com/sells-group/tariff-cli/internal/geo"
	"github.com/sells-group/tariff-cli/internal/model"
	"github.com/sells-group/tariff-cli/internal/store"
)

const dateLayout = "2006-01-02"

type computeRequest struct {
	ScenarioDate     string                 `json:"scenario_date"`
	AssemblySiteID   string                 `json:"assembly_site_id"`
	Overrides        []model.TariffOverride `json:"overrides,omitempty"`
	Preset           string                 `json:"preset,omitempty"`
	IncludeFixedFees bool                   `json:"include_fixed_fees"`
}

type flowMapRequest struct {
	computeRequest
	AllSites bool `json:"all_sites"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMeta reports the selectable inputs: scenarios, assembly sites,
// target SKUs, and the workbook's default override rows.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	tables := s.engine.Tables()

	type scenario struct {
		Date        string `json:"date"`
		Description string `json:"description"`
	}
	scenarios := make([]scenario, 0, len(tables.TariffScenarios))
	for _, sc := range tables.TariffScenarios {
		scenarios = append(scenarios, scenario{
			Date:        sc.ScenarioDate.Format(dateLayout),
			Description: sc.Description,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios":         scenarios,
		"assembly_sites":    s.engine.AssemblySiteIDs(),
		"target_skus":       engine.TargetSKUs,
		"default_overrides": tables.TariffInputs,
	})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	res, err := s.engine.Compute(*in)
	if err != nil {
		if eris.Is(err, engine.ErrUnknownSite) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		zap.L().Error("compute failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "compute failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}

	results, err := s.engine.CompareSites(r.Context(), *in)
	if err != nil {
		zap.L().Error("compare failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "compare failed")
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleFlowMap(w http.ResponseWriter, r *http.Request) {
	var req flowMapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, ok := s.buildInput(w, r, req.computeRequest)
	if !ok {
		return
	}

	var results []*engine.Result
	if req.AllSites {
		all, err := s.engine.CompareSites(r.Context(), *in)
		if err != nil {
			zap.L().Error("flowmap compare failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "flowmap failed")
			return
		}
		results = all
	} else {
		res, err := s.engine.Compute(*in)
		if err != nil {
			if eris.Is(err, engine.ErrUnknownSite) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			zap.L().Error("flowmap compute failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "flowmap failed")
			return
		}
		results = []*engine.Result{res}
	}

	fc, err := geo.FlowMap(results, s.engine.Tables().MapNodes)
	if err != nil {
		zap.L().Error("flowmap render failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "flowmap failed")
		return
	}

	writeJSON(w, http.StatusOK, fc)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "preset store not configured")
		return
	}
	presets, err := s.store.ListPresets(r.Context())
	if err != nil {
		zap.L().Error("list presets failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list presets failed")
		return
	}
	if presets == nil {
		presets = []store.Preset{}
	}
	writeJSON(w, http.StatusOK, presets)
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "preset store not configured")
		return
	}

	var req struct {
		Name      string                 `json:"name"`
		Overrides []model.TariffOverride `json:"overrides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := s.store.SavePreset(r.Context(), req.Name, req.Overrides)
	if err != nil {
		zap.L().Error("save preset failed", zap.String("name", req.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save preset failed")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "preset store not configured")
		return
	}

	name := chi.URLParam(r, "name")
	p, err := s.store.GetPreset(r.Context(), name)
	if err != nil {
		if eris.Is(err, store.ErrPresetNotFound) {
			writeError(w, http.StatusNotFound, "preset not found")
			return
		}
		zap.L().Error("get preset failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get preset failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "preset store not configured")
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.store.DeletePreset(r.Context(), name); err != nil {
		if eris.Is(err, store.ErrPresetNotFound) {
			writeError(w, http.StatusNotFound, "preset not found")
			return
		}
		zap.L().Error("delete preset failed", zap.String("name", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "delete preset failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeInput reads a computeRequest body and converts it to an engine input.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (*engine.Input, bool) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return s.buildInput(w, r, req)
}

func (s *Server) buildInput(w http.ResponseWriter, r *http.Request, req computeRequest) (*engine.Input, bool) {
	var scenarioDate time.Time
	if req.ScenarioDate != "" {
		d, err := time.Parse(dateLayout, req.ScenarioDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "scenario_date must be YYYY-MM-DD")
			return nil, false
		}
		scenarioDate = d
	} else if scenarios := s.engine.Tables().TariffScenarios; len(scenarios) > 0 {
		scenarioDate = scenarios[0].ScenarioDate
	}

	overrides := req.Overrides
	if req.Preset != "" {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "preset store not configured")
			return nil, false
		}
		p, err := s.store.GetPreset(r.Context(), req.Preset)
		if err != nil {
			if eris.Is(err, store.ErrPresetNotFound) {
				writeError(w, http.StatusNotFound, "preset not found")
				return nil, false
			}
			zap.L().Error("load preset failed", zap.String("name", req.Preset), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "load preset failed")
			return nil, false
		}
		// Request rows go first so they win over the preset during resolution.
		overrides = append(overrides, p.Overrides...)
	}

	// Workbook default rows go last: user rows shadow them, and the
	// DefaultRate_pct fallback tier stays reachable.
	overrides = append(overrides, s.engine.Tables().TariffInputs...)

	return &engine.Input{
		ScenarioDate:     scenarioDate,
		AssemblySiteID:   req.AssemblySiteID,
		Overrides:        overrides,
		IncludeFixedFees: req.IncludeFixedFees,
	}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
