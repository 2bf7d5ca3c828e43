package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/grid"
	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/session"
)

type GenerateRequest struct {
	Category   string `json:"category" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

type CellInput struct {
	Row   int    `json:"row"`
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type SetCellsRequest struct {
	Cells []CellInput `json:"cells" binding:"required,dive"`
}

type NavigateRequest struct {
	Key        string `json:"key" binding:"required"`
	CaretPos   int    `json:"caretPos"`
	TextLength int    `json:"textLength"`
	Composing  bool   `json:"composing"`
}

type Handler struct {
	machine *session.Machine
	logger  *zap.Logger
}

func NewHandler(m *session.Machine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{machine: m, logger: logger}
}

// fail maps err to a status and writes it as {"error": msg}.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrClockStopped),
		errors.Is(err, session.ErrClosed):
		status = http.StatusConflict
	case errors.Is(err, problem.ErrGenerationFailed):
		status = http.StatusBadGateway
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) Options(c *gin.Context) {
	cats := make([]OptionView, 0, len(problem.Categories))
	for _, cat := range problem.Categories {
		cats = append(cats, OptionView{ID: string(cat), Label: cat.Label()})
	}
	diffs := make([]OptionView, 0, len(problem.Difficulties))
	for _, d := range problem.Difficulties {
		lo, hi := d.RecordRange()
		diffs = append(diffs, OptionView{ID: string(d), Label: d.Label(), MinRecords: lo, MaxRecords: hi})
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats, "difficulties": diffs})
}

func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, snapshotView(h.machine.Snapshot()))
}

// Generate selects a category and difficulty and waits for the problem.
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	cat, err := problem.ParseCategory(req.Category)
	if err != nil {
		h.fail(c, err)
		return
	}
	diff, err := problem.ParseDifficulty(req.Difficulty)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.machine.Select(cat, diff); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.machine.Generate(c.Request.Context()); err != nil {
		if errors.Is(err, session.ErrStaleTicket) {
			err = errors.New("session was reset during generation")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotView(h.machine.Snapshot()))
}

func (h *Handler) Start(c *gin.Context) {
	if err := h.machine.Start(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotView(h.machine.Snapshot()))
}

// SetCells applies the edits in order and stops at the first failure.
func (h *Handler) SetCells(c *gin.Context) {
	var req SetCellsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	for _, cell := range req.Cells {
		if err := h.machine.SetCell(cell.Row, cell.Field, cell.Value); err != nil {
			h.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, snapshotView(h.machine.Snapshot()))
}

func (h *Handler) Navigate(c *gin.Context) {
	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.machine.SetComposing(req.Composing); err != nil {
		h.fail(c, err)
		return
	}
	out, err := h.machine.Navigate(grid.ParseKey(req.Key), req.CaretPos, req.TextLength)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NavigateView{
		Next:    FocusView{Row: out.Next.Row, Col: out.Next.Col},
		Moved:   out.Moved,
		Consume: out.Consume,
	})
}

func (h *Handler) Submit(c *gin.Context) {
	res, err := h.machine.Submit(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, NewResultView(res))
}

func (h *Handler) result(c *gin.Context) *grading.Result {
	res := h.machine.Result()
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result yet"})
	}
	return res
}

// Result returns the graded result. Commentary that has not arrived yet is
// null.
func (h *Handler) Result(c *gin.Context) {
	if res := h.result(c); res != nil {
		c.JSON(http.StatusOK, NewResultView(res))
	}
}

func (h *Handler) ExportTSV(c *gin.Context) {
	snap := h.machine.Snapshot()
	if snap.Problem == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no problem loaded"})
		return
	}
	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8",
		[]byte(report.InputTSV(snap.Problem.Fields, snap.Rows)))
}

func (h *Handler) Report(c *gin.Context) {
	if res := h.result(c); res != nil {
		c.String(http.StatusOK, report.Text(res))
	}
}

func (h *Handler) Reset(c *gin.Context) {
	h.machine.Reset()
	c.JSON(http.StatusOK, snapshotView(h.machine.Snapshot()))
}
