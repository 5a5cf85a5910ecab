package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/magicesim/storefront/api/errors"
	"github.com/magicesim/storefront/models"
	"github.com/magicesim/storefront/services/actions"
)

// dispatch runs one action for the request and writes the view update.
func (s *Server) dispatch(ctx *gin.Context, ev actions.Event, message string) {
	update := s.dispatcher.Dispatch(ctx.Request.Context(), requestContext(ctx), ev)
	s.respond(ctx, update, message)
}

func (s *Server) respond(ctx *gin.Context, update actions.ViewUpdate, message string) {
	for _, cookie := range update.Cookies {
		if cookie != nil {
			http.SetCookie(ctx.Writer, cookie)
		}
	}

	if update.Failed() {
		msg := update.Err.Error()
		if update.Notice != nil {
			msg = update.Notice.Message
		}
		resp := models.NewKindError(update.Kind, msg)
		resp.Data = update
		ctx.JSON(apierrors.StatusFor(update.Err), resp)
		return
	}

	if update.Notice != nil && message == "" {
		message = update.Notice.Message
	}
	ctx.JSON(http.StatusOK, models.NewSuccess(message, update))
}

// failBinding answers a request whose body or query could not be bound.
func (s *Server) failBinding(ctx *gin.Context, err error, fallback string) {
	verr := models.NewValidationError(err)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		// Malformed JSON; the decoder text means nothing to a shopper
		verr.Message = fallback
	}
	update := actions.Fail(verr)
	update.ControlEnabled = true
	s.respond(ctx, update, "")
}
