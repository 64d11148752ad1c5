package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/services/assistant"
	"github.com/meghashyamc/encarta/validation"
	"github.com/meghashyamc/encarta/viewstate"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type ChatResponse struct {
	Reply *assistant.Message     `json:"reply"`
	Chat  viewstate.View[string] `json:"chat"`
}

func SetupChat(router gin.IRouter, logger logger.Logger, service *assistant.Service, controller *viewstate.Controller, validator *validation.Validator) {
	router.POST("/chat", handleSendChat(service, controller, logger, validator))
	router.GET("/chat/messages", handleChatMessages(service))
}

func handleSendChat(service *assistant.Service, controller *viewstate.Controller, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := ChatRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from chat request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate chat request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		reply, err := service.Send(c.Request.Context(), request.Message)
		chat := controller.Chat.State().View()
		switch {
		case err == nil:
			writeResponse(c, ChatResponse{Reply: &reply, Chat: chat}, http.StatusOK, nil)
		case errors.Is(err, assistant.ErrEmptyMessage):
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
		case errors.Is(err, viewstate.ErrSlotBusy):
			logger.Info("chat message rejected, reply pending")
			c.Abort()
			writeResponse(c, ChatResponse{Chat: chat}, http.StatusConflict, []string{err.Error()})
		default:
			// The failure is already recorded in the chat slot.
			writeResponse(c, ChatResponse{Chat: chat}, http.StatusOK, nil)
		}
	}
}

func handleChatMessages(service *assistant.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeResponse(c, service.Messages(), http.StatusOK, nil)
	}
}
