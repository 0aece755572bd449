package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonErrors "github.com/tbestore/storefront/internal/common/errors"
	commonHttp "github.com/tbestore/storefront/internal/common/http"
	"github.com/tbestore/storefront/internal/log"
	"github.com/tbestore/storefront/internal/session"
	"github.com/tbestore/storefront/product/otel"
	"github.com/tbestore/storefront/product/service"
)

type ProductController struct {
	service  *service.ProductService
	sessions *session.Store
}

func AttachProductController(
	router *mux.Router,
	service *service.ProductService,
	sessions *session.Store,
) {
	controller := ProductController{service: service, sessions: sessions}

	sub := router.PathPrefix("/products").Subrouter()
	sub.HandleFunc("", controller.Products).Methods(http.MethodGet)
	sub.HandleFunc("/{productId}", controller.FindById).Methods(http.MethodGet)
}

func (t ProductController) Products(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController Products")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController Products").
		Logger()

	c = logger.WithContext(c)
	products := t.service.List(c)

	body := map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       products,
	}

	// First visit of a session gets a one-time welcome message.
	sessionID := session.IDFromContext(c)
	visited, err := t.sessions.HasVisited(c, sessionID)
	if err != nil {
		logger.Warn().Err(err).Msg("failed checking visited flag")
	} else if !visited {
		if err := t.sessions.MarkVisited(c, sessionID); err != nil {
			logger.Warn().Err(err).Msg("failed marking visited flag")
		} else {
			body["message"] = "Welcome to TBE Store!"
		}
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, body)
}

func (t ProductController) FindById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindById")
	defer span.End()

	productID := mux.Vars(r)["productId"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ProductController FindById").
		Str(log.KeyProductID, productID).
		Logger()

	c = logger.WithContext(c)
	product, err := t.service.FindById(c, productID)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, commonErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}

	commonHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"data":       product,
	})
}
