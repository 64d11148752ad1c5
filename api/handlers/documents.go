package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/media"
	"github.com/meghashyamc/encarta/services/reader"
	"github.com/meghashyamc/encarta/validation"
	"github.com/meghashyamc/encarta/viewstate"
)

// DocumentRequest takes the document as search rows carry it; the id may be a number.
type DocumentRequest struct {
	ID        gateway.DocumentID `json:"id" validate:"valid_document_id"`
	Title     string             `json:"title" validate:"max=1000"`
	Link      string             `json:"link" validate:"valid_link,max=4096"`
	Type      string             `json:"type" validate:"omitempty,oneof=pdf audio video"`
	Reader    bool               `json:"reader"`
	TextProxy bool               `json:"text_proxy"`
}

func (r DocumentRequest) document() gateway.Document {
	return gateway.Document{
		ID:    r.ID,
		Title: r.Title,
		Link:  r.Link,
		Type:  gateway.ParseMediaType(r.Type),
	}
}

// GenerationRequest carries what the reader knows about the article. The body is optional.
type GenerationRequest struct {
	ID    string `uri:"id" json:"id" validate:"valid_document_id"`
	Title string `json:"title" validate:"max=1000"`
	Link  string `json:"link" validate:"valid_link,max=4096"`
}

type ViewerRequest struct {
	Viewer string `uri:"viewer" json:"viewer" validate:"required"`
}

type CloseViewerResponse struct {
	Viewer viewstate.Viewer `json:"viewer"`
	Closed bool             `json:"closed"`
}

type EmbedRequest struct {
	Link      string `form:"link" json:"link" validate:"required,valid_link,max=4096"`
	TextProxy bool   `form:"text_proxy" json:"text_proxy"`
}

func SetupDocuments(router gin.IRouter, logger logger.Logger, service *reader.Service, resolver *media.Resolver, validator *validation.Validator) {
	router.POST("/documents/open", handleOpenDocument(service, logger, validator))
	router.DELETE("/viewers/:viewer", handleCloseViewer(service, logger, validator))
	router.GET("/embed", handleEmbed(resolver, logger, validator))
	router.POST("/documents/:id/insights", handleGeneration(service.Insights, "insights", logger, validator))
	router.POST("/documents/:id/risks", handleGeneration(service.Risks, "risks", logger, validator))
}

func handleOpenDocument(service *reader.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := DocumentRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from open document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate open document request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		doc := request.document()
		if request.Reader {
			writeResponse(c, service.Open(doc, request.TextProxy), http.StatusOK, nil)
			return
		}

		writeResponse(c, service.Show(doc), http.StatusOK, nil)
	}
}

func handleCloseViewer(service *reader.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ViewerRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract viewer"})
			return
		}

		if err := validator.Validate(request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		viewer, err := viewstate.ParseViewer(request.Viewer)
		if err != nil {
			logger.Warn("could not validate close viewer request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		writeResponse(c, CloseViewerResponse{Viewer: viewer, Closed: service.Close(viewer)}, http.StatusOK, nil)
	}
}

func handleEmbed(resolver *media.Resolver, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := EmbedRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from embed request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		writeResponse(c, resolver.Embed(request.Link, request.TextProxy), http.StatusOK, nil)
	}
}

type generateFunc func(ctx context.Context, doc gateway.Document) (viewstate.State[string], error)

func handleGeneration(generate generateFunc, kind string, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := GenerationRequest{}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&request); err != nil {
				logger.Warn("could not extract expected params from generation request", "kind", kind, "err", err.Error())
				c.Abort()
				writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
				return
			}
		}
		request.ID = c.Param("id")

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate generation request", "kind", kind, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		doc := gateway.Document{ID: gateway.DocumentID(request.ID), Title: request.Title, Link: request.Link, Type: gateway.MediaTypePDF}
		state, err := generate(c.Request.Context(), doc)
		writeSlotResponse(c, logger, kind+":"+request.ID, state, err)
	}
}
