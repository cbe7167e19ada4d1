package entry

import (
	"github.com/gin-gonic/gin"
	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/pkg/pagination"
	"github.com/symnote/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/entries")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/history", h.history)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	entries, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, entries, pag)
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, e)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid entry payload")
		return
	}
	e, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, e)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateEntryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid entry payload")
		return
	}
	e, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, e)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) history(c *gin.Context) {
	e, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if e == nil {
		response.NotFound(c)
		return
	}
	records := e.History
	if records == nil {
		records = []models.AdviceRecordModel{}
	}
	response.OK(c, records)
}
