package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/workday/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/dto"
	"github.com/felixgeelhaar/workday/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/workday/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ScheduleHandler serves the schedule and config routes.
type ScheduleHandler struct {
	getBlocks     *queries.GetBlocksHandler
	getIncomplete *queries.GetIncompleteHandler
	getConfig     *queries.GetConfigHandler
	saveBlocks    *commands.SaveBlocksHandler
	patchBlock    *commands.PatchBlockHandler
	carryOver     *commands.CommitCarryOverHandler
	saveTemplate  *commands.SaveTemplateHandler
	location      *time.Location
	now           func() time.Time
	logger        *slog.Logger
}

// ScheduleHandlerConfig holds dependencies for the schedule handler.
type ScheduleHandlerConfig struct {
	GetBlocks     *queries.GetBlocksHandler
	GetIncomplete *queries.GetIncompleteHandler
	GetConfig     *queries.GetConfigHandler
	SaveBlocks    *commands.SaveBlocksHandler
	PatchBlock    *commands.PatchBlockHandler
	CarryOver     *commands.CommitCarryOverHandler
	SaveTemplate  *commands.SaveTemplateHandler
	// Location interprets date parameters. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewScheduleHandler(cfg ScheduleHandlerConfig) *ScheduleHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ScheduleHandler{
		getBlocks:     cfg.GetBlocks,
		getIncomplete: cfg.GetIncomplete,
		getConfig:     cfg.GetConfig,
		saveBlocks:    cfg.SaveBlocks,
		patchBlock:    cfg.PatchBlock,
		carryOver:     cfg.CarryOver,
		saveTemplate:  cfg.SaveTemplate,
		location:      cfg.Location,
		now:           cfg.Now,
		logger:        cfg.Logger,
	}
}

// GetBlocks handles GET /api/v1/schedule/blocks?date=YYYY-MM-DD. A missing
// date means today.
func (h *ScheduleHandler) GetBlocks(w http.ResponseWriter, r *http.Request) {
	date, err := h.dateParam(r, "date")
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.getBlocks.Handle(r.Context(), queries.GetBlocksQuery{UserID: userFrom(r), Date: date})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveBlocks handles PUT /api/v1/schedule/blocks.
func (h *ScheduleHandler) SaveBlocks(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveBlocksRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, err := domain.ParseDate(req.Date, h.location)
	if err != nil {
		writeError(w, err)
		return
	}
	blocks, err := h.blocksIn(req.Blocks)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.saveBlocks.Handle(r.Context(), commands.SaveBlocksCommand{UserID: userFrom(r), Date: date, Blocks: blocks})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.SaveBlocksResponse{Success: true, BlocksSaved: res.BlocksSaved})
}

// PatchBlock handles PATCH /api/v1/schedule/blocks/{id}.
func (h *ScheduleHandler) PatchBlock(w http.ResponseWriter, r *http.Request) {
	blockID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, badRequest("block id must be a UUID"))
		return
	}
	var req dto.PatchBlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cmd := commands.PatchBlockCommand{
		UserID:   userFrom(r),
		BlockID:  blockID,
		EndTime:  req.EndTime,
		XPEarned: req.XPEarned,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		status, err := domain.ParseBlockStatus(*req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		cmd.Status = &status
	}
	if cmd.EndTime != nil {
		end := cmd.EndTime.In(h.location)
		cmd.EndTime = &end
	}

	res, err := h.patchBlock.Handle(r.Context(), cmd)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PatchBlockResponse{Block: dto.FromBlock(res.Block), Warning: res.Outcome.Warning})
}

// GetIncomplete handles GET /api/v1/schedule/incomplete?today=YYYY-MM-DD.
// The answer covers the day before today.
func (h *ScheduleHandler) GetIncomplete(w http.ResponseWriter, r *http.Request) {
	today, err := h.dateParam(r, "today")
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.getIncomplete.Handle(r.Context(), queries.GetIncompleteQuery{UserID: userFrom(r), Today: today})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CarryOver handles POST /api/v1/schedule/carryover.
func (h *ScheduleHandler) CarryOver(w http.ResponseWriter, r *http.Request) {
	var req dto.CarryOverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.BlockIDs))
	for _, raw := range req.BlockIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, badRequest("block_ids must be UUIDs"))
			return
		}
		ids = append(ids, id)
	}

	res, err := h.carryOver.Handle(r.Context(), commands.CommitCarryOverCommand{
		UserID:      userFrom(r),
		BlockIDs:    ids,
		CarryToDate: req.CarryToDate,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CarryOverResponse{
		Success:       true,
		BlocksCarried: res.BlocksCarried,
		CarryToDate:   res.CarryToDate,
	})
}

// GetConfig handles GET /api/v1/config.
func (h *ScheduleHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getConfig.Handle(r.Context(), queries.GetConfigQuery{UserID: userFrom(r)})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SaveTemplate handles PUT /api/v1/config/template.
func (h *ScheduleHandler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.TemplateResponse
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	entries, err := dto.TemplateEntries(req.Blocks)
	if err != nil {
		writeError(w, err)
		return
	}

	tmpl, err := h.saveTemplate.Handle(r.Context(), commands.SaveTemplateCommand{
		UserID:      userFrom(r),
		Name:        req.Name,
		Description: req.Description,
		Entries:     entries,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTemplate(tmpl))
}

func (h *ScheduleHandler) dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.StartOfDay(h.now().In(h.location)), nil
	}
	return domain.ParseDate(raw, h.location)
}

func (h *ScheduleHandler) blocksIn(records []dto.BlockRecord) ([]domain.Block, error) {
	for i := range records {
		records[i].StartTime = records[i].StartTime.In(h.location)
		records[i].EndTime = records[i].EndTime.In(h.location)
	}
	blocks, err := dto.ToBlocks(records)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	return blocks, nil
}
