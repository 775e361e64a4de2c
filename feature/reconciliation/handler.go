package reconciliation

import (
	"errors"
	"mime/multipart"

	"code-reconciler/core/logger"
	"code-reconciler/core/reconcile"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/core/table"
	"code-reconciler/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reconciliations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reconcile")
	group.Post("/", h.HandleReconcile)
	group.Post("/upload", h.HandleUpload)
	group.Post("/export", h.HandleExport)
	group.Post("/inspect", h.HandleInspect)
	group.Post("/rows/duplicate", h.HandleDuplicateRow)
	group.Get("/runs", h.HandleListRuns)
	group.Get("/runs/:id", h.HandleGetRun)
	group.Get("/runs/:id/export", h.HandleRunExport)
	group.Delete("/runs/:id", h.HandleDeleteRun)
}

// DuplicateRowRequest asks for a copy of one row.
type DuplicateRowRequest struct {
	Rows  []table.Row `json:"rows"`
	Index int         `json:"index"`
}

// HandleReconcile reconciles two JSON datasets.
// @Summary Reconcile Datasets
// @Description Merges client values into the master dataset and reports unmatched and duplicate client rows.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body Request true "Master and client datasets"
// @Success 200 {object} reconcile.Result
// @Failure 400 {object} map[string]string "Invalid Input"
// @Failure 422 {object} map[string]string "Missing HCPCS Column"
// @Router /reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "details": err.Error()})
	}

	res, err := h.service.Reconcile(c.UserContext(), req)
	if err != nil {
		return respondError(c, l, "Reconciliation failed", err)
	}
	return c.JSON(res)
}

// HandleUpload reconciles two uploaded workbooks.
// @Summary Reconcile Uploaded Workbooks
// @Description Decodes the master and client workbooks (xlsx or csv), reconciles them, stores the export and records the run.
// @Tags reconcile
// @Accept multipart/form-data
// @Produce json
// @Param master formData file true "Master workbook"
// @Param client formData file true "Client workbook"
// @Param master_sheet formData string false "Master sheet name"
// @Param client_sheet formData string false "Client sheet name"
// @Param root00 formData boolean false "Treat modifier 00 as the bare code"
// @Param root25 formData boolean false "Treat modifier 25 as the bare code"
// @Param root50 formData boolean false "Treat modifier 50 as the bare code"
// @Param root59 formData boolean false "Treat modifier 59 as the bare code"
// @Param root_xu formData boolean false "Treat modifier XU as the bare code"
// @Param root76 formData boolean false "Treat modifier 76 as the bare code"
// @Param ignore_trauma formData boolean false "Exclude trauma team activations"
// @Success 200 {object} UploadResult
// @Failure 400 {object} map[string]string "Invalid Input"
// @Failure 422 {object} map[string]string "Missing HCPCS Column"
// @Router /reconcile/upload [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	master, err := openFormFile(c, "master")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Master file is required", "details": err.Error()})
	}
	defer master.Close()

	client, err := openFormFile(c, "client")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Client file is required", "details": err.Error()})
	}
	defer client.Close()

	criteria := FormCriteria(h.service.DefaultCriteria(), c.FormValue)
	in := UploadInput{
		Master:   Source{Filename: master.name, Sheet: c.FormValue("master_sheet"), Reader: master},
		Client:   Source{Filename: client.name, Sheet: c.FormValue("client_sheet"), Reader: client},
		Criteria: &criteria,
	}

	l.Info("Reconciling upload", zap.String("master", master.name), zap.String("client", client.name))
	res, err := h.service.Upload(c.UserContext(), in)
	if err != nil {
		return respondError(c, l, "Upload reconciliation failed", err)
	}
	return c.JSON(res)
}

// HandleExport renders the three-sheet export workbook.
// @Summary Export Result
// @Description Writes merged, unmatched and duplicate rows to an xlsx workbook.
// @Tags reconcile
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body spreadsheet.ExportSet true "Rows to export"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid Input"
// @Router /reconcile/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var set spreadsheet.ExportSet
	if err := c.BodyParser(&set); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "details": err.Error()})
	}

	data, err := h.service.Export(set)
	if err != nil {
		return respondError(c, l, "Export failed", err)
	}
	c.Attachment("reconciliation.xlsx")
	return c.Send(data)
}

// HandleInspect reports the sheets and key columns of a workbook.
// @Summary Inspect Workbook
// @Description Lists sheets, columns and the resolved HCPCS, Modifier, Description and Quantity columns.
// @Tags reconcile
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook"
// @Success 200 {object} InspectReport
// @Failure 400 {object} map[string]string "Invalid Input"
// @Router /reconcile/inspect [post]
func (h *Handler) HandleInspect(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	file, err := openFormFile(c, "file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File is required", "details": err.Error()})
	}
	defer file.Close()

	report, err := h.service.Inspect(Source{Filename: file.name, Reader: file})
	if err != nil {
		return respondError(c, l, "Inspect failed", err)
	}
	return c.JSON(report)
}

// HandleDuplicateRow inserts a copy of a row after it.
// @Summary Duplicate Row
// @Description Returns the rows with a copy of rows[index] inserted after it under a fresh id.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body DuplicateRowRequest true "Rows and index"
// @Success 200 {array} table.Row
// @Failure 400 {object} map[string]string "Invalid Input"
// @Router /reconcile/rows/duplicate [post]
func (h *Handler) HandleDuplicateRow(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req DuplicateRowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body", "details": err.Error()})
	}

	rows, err := h.service.DuplicateRow(req.Rows, req.Index)
	if err != nil {
		return respondError(c, l, "Duplicate row failed", err)
	}
	return c.JSON(rows)
}

// HandleListRuns lists recent runs.
// @Summary List Runs
// @Description Lists the most recent reconciliation runs.
// @Tags runs
// @Produce json
// @Success 200 {array} RunRecord
// @Failure 503 {object} map[string]string "History Disabled"
// @Router /reconcile/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.Runs(c.UserContext())
	if err != nil {
		return respondError(c, l, "List runs failed", err)
	}
	return c.JSON(runs)
}

// HandleGetRun returns one run.
// @Summary Get Run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunRecord
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reconcile/runs/{id} [get]
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	run, err := h.service.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, l, "Get run failed", err)
	}
	return c.JSON(run)
}

// HandleRunExport streams the stored export of a run.
// @Summary Download Run Export
// @Tags runs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reconcile/runs/{id}/export [get]
func (h *Handler) HandleRunExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	obj, run, err := h.service.OpenRunExport(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, l, "Open export failed", err)
	}
	c.Attachment("reconciliation-" + run.ID + ".xlsx")
	return c.SendStream(obj)
}

// HandleDeleteRun deletes a run and its export.
// @Summary Delete Run
// @Tags runs
// @Param id path string true "Run ID"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reconcile/runs/{id} [delete]
func (h *Handler) HandleDeleteRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.DeleteRun(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, l, "Delete run failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FormCriteria overrides the defaults with the criteria flags present in a form.
func FormCriteria(defaults reconcile.ModifierCriteria, value func(key string, defaultValue ...string) string) reconcile.ModifierCriteria {
	c := defaults
	flags := []struct {
		key string
		dst *bool
	}{
		{"root00", &c.Root00},
		{"root25", &c.Root25},
		{"root50", &c.Root50},
		{"root59", &c.Root59},
		{"root_xu", &c.RootXU},
		{"root76", &c.Root76},
		{"ignore_trauma", &c.IgnoreTrauma},
	}
	for _, f := range flags {
		if v := value(f.key); v != "" {
			*f.dst = utils.ToBool(v)
		}
	}
	return c
}

// StatusFor maps a service error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrMissingKeyColumn):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, spreadsheet.ErrUnsupportedFormat),
		errors.Is(err, spreadsheet.ErrSheetNotFound),
		errors.Is(err, spreadsheet.ErrEmptyWorkbook):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrRunNotFound), errors.Is(err, ErrNoExport):
		return fiber.StatusNotFound
	case errors.Is(err, ErrHistoryDisabled), errors.Is(err, ErrStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

type formFile struct {
	multipart.File
	name string
}

func openFormFile(c *fiber.Ctx, field string) (*formFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &formFile{File: f, name: fh.Filename}, nil
}
