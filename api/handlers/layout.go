package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/viewstate"
)

type NavigateRequest struct {
	View string `json:"view"`
}

func SetupView(router gin.IRouter, logger logger.Logger, controller *viewstate.Controller) {
	router.POST("/layout/sidebars/:side/toggle", handleToggleSidebar(controller, logger))
	router.PUT("/layout/view", handleNavigate(controller, logger))
	router.GET("/view", handleSnapshot(controller))
}

func handleToggleSidebar(controller *viewstate.Controller, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		side, err := viewstate.ParseSide(c.Param("side"))
		if err != nil {
			logger.Warn("could not validate toggle sidebar request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		controller.Layout.Toggle(side)
		writeResponse(c, controller.Layout.State(), http.StatusOK, nil)
	}
}

func handleNavigate(controller *viewstate.Controller, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := NavigateRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from navigate request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		page, err := viewstate.ParsePage(request.View)
		if err != nil {
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		controller.Layout.NavigateTo(page)
		writeResponse(c, controller.Layout.State(), http.StatusOK, nil)
	}
}

func handleSnapshot(controller *viewstate.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, controller.Snapshot(), http.StatusOK, nil)
	}
}
