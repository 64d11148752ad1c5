package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/services/search"
	"github.com/meghashyamc/encarta/validation"
	"github.com/meghashyamc/encarta/viewstate"
)

type SearchRequest struct {
	Query string `form:"q" json:"q" validate:"max=1000"`
	Skip  int    `form:"skip" json:"skip" validate:"min=0"`
	Limit int    `form:"limit" json:"limit" validate:"min=0,max=1000"`
}

// AdvancedSearchRequest accepts categories both repeated and comma-joined.
type AdvancedSearchRequest struct {
	Query      string   `form:"q" json:"q"`
	Categories []string `form:"categories" json:"categories"`
	Skip       int      `form:"skip" json:"skip"`
	Limit      int      `form:"limit" json:"limit"`
}

func (r AdvancedSearchRequest) searchQuery() gateway.SearchQuery {
	var categories []string
	for _, value := range r.Categories {
		for _, category := range strings.Split(value, ",") {
			if category = strings.TrimSpace(category); category != "" {
				categories = append(categories, category)
			}
		}
	}

	limit := r.Limit
	if limit == 0 {
		limit = search.DefaultAdvancedLimit
	}

	return gateway.SearchQuery{Text: r.Query, Categories: categories, Skip: r.Skip, Limit: limit}
}

type CategoryCountRequest struct {
	ID string `uri:"id" json:"id" validate:"valid_category"`
}

type CategoryCountResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// CategoryCounter is satisfied by the gateway client.
type CategoryCounter interface {
	CategoryCount(ctx context.Context, categoryID string) int
}

func SetupSearch(router gin.IRouter, logger logger.Logger, service *search.Service, counter CategoryCounter, controller *viewstate.Controller, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))
	router.GET("/search/advanced", handleAdvancedSearch(service, logger, validator))
	router.DELETE("/search/advanced", handleClearFilters(service))
	router.GET("/categories/:id/count", handleCategoryCount(counter, controller, logger, validator))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		state, err := service.Basic(c.Request.Context(), request.Query, request.Skip, request.Limit)
		writeSlotResponse(c, logger, "basic_search", state, err)
	}
}

func handleAdvancedSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := AdvancedSearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from advanced search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request query parameters"})
			return
		}

		query := request.searchQuery()
		if err := validator.Validate(query); err != nil {
			logger.Warn("could not validate advanced search request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		state, err := service.Advanced(c.Request.Context(), query)
		writeSlotResponse(c, logger, "advanced_search", state, err)
	}
}

func handleClearFilters(service *search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, service.ClearFilters().View(), http.StatusOK, nil)
	}
}

func handleCategoryCount(counter CategoryCounter, controller *viewstate.Controller, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := CategoryCountRequest{}
		if err := c.ShouldBindUri(&request); err != nil {
			logger.Warn("could not extract category id", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract category id"})
			return
		}

		if err := validator.Validate(request); err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		count := counter.CategoryCount(c.Request.Context(), request.ID)
		controller.SetCategoryCount(request.ID, count)

		writeResponse(c, CategoryCountResponse{ID: request.ID, Count: count}, http.StatusOK, nil)
	}
}
