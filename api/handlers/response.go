package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/viewstate"
)

type response struct {
	Data   any      `json:"data"`
	Errors []string `json:"errors"`
}

func writeResponse(c *gin.Context, data interface{}, statusCode int, errors []string) {

	if statusCode == http.StatusNoContent {
		c.JSON(statusCode, nil)
		return

	}

	response := response{
		Data:   data,
		Errors: errors,
	}

	c.JSON(statusCode, response)
}

// writeSlotResponse renders the outcome of a slot request. Failures of the
// request itself are part of the view; only a busy slot is a conflict.
func writeSlotResponse[R any](c *gin.Context, logger logger.Logger, slotName string, state viewstate.State[R], err error) {
	switch {
	case err == nil:
		writeResponse(c, state.View(), http.StatusOK, nil)
	case errors.Is(err, viewstate.ErrSlotBusy):
		logger.Info("request rejected, slot busy", "slot", slotName)
		c.Abort()
		writeResponse(c, state.View(), http.StatusConflict, []string{err.Error()})
	case errors.Is(err, viewstate.ErrStaleTicket):
		logger.Info("request outcome discarded, newer state exists", "slot", slotName)
		writeResponse(c, state.View(), http.StatusOK, nil)
	default:
		logger.Error("slot request failed", "slot", slotName, "err", err.Error())
		c.Abort()
		writeResponse(c, nil, http.StatusInternalServerError, []string{err.Error()})
	}
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	HasNextPage  bool `json:"has_next_page"`
	HasPrevPage  bool `json:"has_prev_page"`
	TotalResults int  `json:"total_results"`
}

func calculatePagination(total, limit, offset int) Pagination {
	pageSize := limit
	currentPage := (offset / limit) + 1
	totalPages := (total + pageSize - 1) / pageSize

	if totalPages == 0 {
		totalPages = 1
	}

	return Pagination{
		CurrentPage:  currentPage,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		TotalResults: total,
	}
}
