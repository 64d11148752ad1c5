package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/services/index"
	"github.com/meghashyamc/encarta/validation"
)

const defaultResultsPerPage = 20

// LibraryRequest browses documents already returned by searches. An empty
// query lists the most recently seen first.
type LibraryRequest struct {
	Query   string `form:"query" json:"query" validate:"max=1000"`
	PerPage int    `form:"per_page" json:"per_page" validate:"min=0,max=100"`
	Page    int    `form:"page" json:"page" validate:"min=0,max=10000"`
}

// EvictRequest removes one document from the library.
type EvictRequest struct {
	ID string `uri:"id" json:"id" validate:"valid_document_id"`
}

type EvictResponse struct {
	ID        string `json:"id"`
	Remaining uint64 `json:"remaining"`
}

func (r *LibraryRequest) setDefaults() {
	if r.PerPage == 0 {
		r.PerPage = defaultResultsPerPage
	}

	if r.Page == 0 {
		r.Page = 1
	}
}

type LibraryResponse struct {
	Results     []searchdb.Result `json:"results"`
	PageDetails Pagination        `json:"page_details"`
	Indexing    index.Stats       `json:"indexing"`
}

func SetupLibrary(router gin.IRouter, logger logger.Logger, library searchdb.DB, indexer *index.Service, validator *validation.Validator) {
	router.GET("/library", handleLibrary(library, indexer, logger, validator))
	router.DELETE("/library/:id", handleEvict(library, logger, validator))
}

func handleLibrary(library searchdb.DB, indexer *index.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := LibraryRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from library request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}
		request.setDefaults()

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate library request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		limit := request.PerPage
		offset := (request.Page - 1) * request.PerPage
		results, err := library.Search(request.Query, limit, offset)
		if err != nil {
			logger.Error("library search failed", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, LibraryResponse{
			Results: results.Results,
			PageDetails: calculatePagination(
				int(results.Total),
				limit,
				offset),
			Indexing: indexer.Stats(),
		}, http.StatusOK, nil)
	}
}

func handleEvict(library searchdb.DB, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := EvictRequest{ID: c.Param("id")}
		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate library eviction request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		if err := library.DeleteDocuments([]string{request.ID}); err != nil {
			logger.Error("could not evict document from library", "id", request.ID, "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		remaining, err := library.GetDocCount()
		if err != nil {
			logger.Error("could not count library documents", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
			return
		}

		writeResponse(c, EvictResponse{ID: request.ID, Remaining: remaining}, http.StatusOK, nil)
	}
}
