package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/services/reader"
	"github.com/meghashyamc/encarta/validation"
)

type NoteRequest struct {
	ID   string `uri:"id" json:"id" validate:"valid_document_id"`
	Text string `json:"text" validate:"max=100000"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Available bool   `json:"available"`
}

type SaveNoteResponse struct {
	NoteResponse
	Saved bool `json:"saved"`
}

func SetupNotes(router gin.IRouter, logger logger.Logger, service *reader.Service, validator *validation.Validator) {
	router.GET("/notes/:id", handleLoadNote(service, logger, validator))
	router.PUT("/notes/:id", handleSaveNote(service, logger, validator))
}

func handleLoadNote(service *reader.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := NoteRequest{ID: c.Param("id")}
		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate load note request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		text := service.LoadNote(gateway.DocumentID(request.ID))
		writeResponse(c, NoteResponse{ID: request.ID, Text: text, Available: service.NotesAvailable()}, http.StatusOK, nil)
	}
}

// handleSaveNote answers 200 even when storage is unavailable; saved tells the UI whether to warn.
func handleSaveNote(service *reader.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		request := NoteRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract expected params from save note request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusUnprocessableEntity, []string{"failed to extract request body parameters"})
			return
		}
		request.ID = c.Param("id")

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate save note request", "err", err.Error())
			c.Abort()
			writeResponse(c, nil, http.StatusNotAcceptable, []string{err.Error()})
			return
		}

		saved := service.SaveNote(gateway.DocumentID(request.ID), request.Text)
		writeResponse(c, SaveNoteResponse{NoteResponse: NoteResponse{ID: request.ID, Text: request.Text, Available: service.NotesAvailable()}, Saved: saved}, http.StatusOK, nil)
	}
}
